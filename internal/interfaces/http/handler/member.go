package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	memberapp "github.com/coopfin/backend/internal/application/member"
	"github.com/coopfin/backend/internal/domain/transaction"
	"github.com/coopfin/backend/internal/interfaces/http/dto"
	"github.com/coopfin/backend/internal/interfaces/http/middleware"
)

// MemberHandler handles member-related API endpoints
type MemberHandler struct {
	BaseHandler
	memberService *memberapp.Service
	transactions  transaction.Repository
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *memberapp.Service, transactions transaction.Repository) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		transactions:  transactions,
	}
}

// Register handles POST /members
func (h *MemberHandler) Register(c *gin.Context) {
	var req RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	m, err := h.memberService.Register(c.Request.Context(), req.MemberNumber, req.Name, req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ToMemberResponse(m))
}

// Get handles GET /members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	m, err := h.memberService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToMemberResponse(m))
}

// List handles GET /members
func (h *MemberHandler) List(c *gin.Context) {
	var req ListMembersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	members, total, err := h.memberService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, ToMemberResponses(members), total, filter.Page, filter.PageSize)
}

// Suspend handles POST /members/:id/suspend
func (h *MemberHandler) Suspend(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	m, err := h.memberService.Suspend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToMemberResponse(m))
}

// Reactivate handles POST /members/:id/reactivate
func (h *MemberHandler) Reactivate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	m, err := h.memberService.Reactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToMemberResponse(m))
}

// Transactions handles GET /members/:id/transactions
func (h *MemberHandler) Transactions(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	records, total, err := h.transactions.FindByMember(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, ToTransactionResponses(records), total, filter.Page, filter.PageSize)
}

// parseID parses the :id path parameter, writing the error response itself
func (h *MemberHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid member ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid member ID")
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes registers all member routes
func (h *MemberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	members := rg.Group("/members")
	{
		members.POST("", h.Register)
		members.GET("", h.List)
		members.GET("/:id", h.Get)
		members.POST("/:id/suspend", h.Suspend)
		members.POST("/:id/reactivate", h.Reactivate)
		members.GET("/:id/transactions", h.Transactions)
	}
}
