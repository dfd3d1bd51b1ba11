package handler

import (
	"time"

	"github.com/coopfin/backend/internal/domain/member"
)

// RegisterMemberRequest is the payload for registering a member
type RegisterMemberRequest struct {
	MemberNumber string `json:"member_number" binding:"required,max=50"`
	Name         string `json:"name" binding:"required,max=200"`
	Phone        string `json:"phone" binding:"omitempty,max=50"`
}

// MemberResponse is the API representation of a member
type MemberResponse struct {
	ID           string            `json:"id"`
	MemberNumber string            `json:"member_number"`
	Name         string            `json:"name"`
	Phone        string            `json:"phone,omitempty"`
	Status       string            `json:"status"`
	Balances     map[string]string `json:"balances"`
	JoinedAt     time.Time         `json:"joined_at"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ToMemberResponse converts a domain member to its API representation
func ToMemberResponse(m *member.Member) MemberResponse {
	balances := make(map[string]string, len(member.AllAccountKinds()))
	for _, kind := range member.AllAccountKinds() {
		balances[kind.String()] = m.Balance(kind).StringFixed(2)
	}
	return MemberResponse{
		ID:           m.ID.String(),
		MemberNumber: m.MemberNumber,
		Name:         m.Name,
		Phone:        m.Phone,
		Status:       m.Status.String(),
		Balances:     balances,
		JoinedAt:     m.JoinedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToMemberResponses converts a slice of domain members
func ToMemberResponses(members []*member.Member) []MemberResponse {
	responses := make([]MemberResponse, len(members))
	for i, m := range members {
		responses[i] = ToMemberResponse(m)
	}
	return responses
}

// ListMembersRequest holds member list query parameters
type ListMembersRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE SUSPENDED CLOSED"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToFilter converts the query parameters to a domain filter
func (r *ListMembersRequest) ToFilter() member.Filter {
	page := r.Page
	if page == 0 {
		page = 1
	}
	pageSize := r.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	return member.Filter{
		Status:   member.Status(r.Status),
		Search:   r.Search,
		Page:     page,
		PageSize: pageSize,
	}
}
