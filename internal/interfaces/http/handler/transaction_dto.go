package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopfin/backend/internal/domain/member"
	"github.com/coopfin/backend/internal/domain/payment"
	"github.com/coopfin/backend/internal/domain/transaction"
)

// SubmitTransactionRequest is the payload a teller submits to record a
// transaction. Amount travels as a string to avoid float rounding.
type SubmitTransactionRequest struct {
	MemberID    string `json:"member_id" binding:"required,uuid"`
	Kind        string `json:"kind" binding:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER FEE INTEREST"`
	AccountKind string `json:"account_kind" binding:"required,oneof=SAVINGS SHARES DEPOSITS"`
	Amount      string `json:"amount" binding:"required"`
	Method      string `json:"method" binding:"required,oneof=CASH MOBILE_MONEY CHEQUE BANK_TRANSFER"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	Reference   string `json:"reference" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// ToDomainRequest converts the payload to a domain transaction request
func (r *SubmitTransactionRequest) ToDomainRequest() (*transaction.Request, error) {
	memberID, err := uuid.Parse(r.MemberID)
	if err != nil {
		return nil, transaction.ErrInvalidMemberID
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, transaction.ErrInvalidAmount
	}
	return &transaction.Request{
		MemberID:    memberID,
		Kind:        transaction.Kind(r.Kind),
		AccountKind: member.AccountKind(r.AccountKind),
		Amount:      amount,
		Method:      transaction.Method(r.Method),
		Reference:   r.Reference,
		Description: r.Description,
	}, nil
}

// TransactionResponse is the API representation of a transaction record
type TransactionResponse struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	Kind        string    `json:"kind"`
	AccountKind string    `json:"account_kind"`
	Amount      string    `json:"amount"`
	Method      string    `json:"method"`
	Reference   string    `json:"reference,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTransactionResponse converts a domain transaction to its API representation
func ToTransactionResponse(t *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		MemberID:    t.MemberID.String(),
		Kind:        t.Kind.String(),
		AccountKind: t.AccountKind.String(),
		Amount:      t.Amount.StringFixed(2),
		Method:      t.Method.String(),
		Reference:   t.Reference,
		Description: t.Description,
		Status:      t.Status.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions
func ToTransactionResponses(records []*transaction.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(records))
	for i, t := range records {
		responses[i] = ToTransactionResponse(t)
	}
	return responses
}

// ConfirmationResponse is the API representation of a confirmation session
type ConfirmationResponse struct {
	Handle        string    `json:"handle"`
	MemberID      string    `json:"member_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	Message       string    `json:"message,omitempty"`
	Attempts      int       `json:"attempts"`
	AttemptLimit  int       `json:"attempt_limit"`
	StartedAt     time.Time `json:"started_at"`
}

// ToConfirmationResponse converts a confirmation session to its API representation
func ToConfirmationResponse(s *payment.ConfirmationSession) ConfirmationResponse {
	return ConfirmationResponse{
		Handle:        s.Handle,
		MemberID:      s.MemberID.String(),
		TransactionID: s.TransactionID.String(),
		Amount:        s.Amount.StringFixed(2),
		Status:        s.Status().String(),
		Message:       s.Message(),
		Attempts:      s.Attempts(),
		AttemptLimit:  s.AttemptLimit,
		StartedAt:     s.StartedAt,
	}
}

// SubmissionResponse wraps the outcome of a submission: exactly one of
// Transaction or Confirmation is set
type SubmissionResponse struct {
	Transaction  *TransactionResponse  `json:"transaction,omitempty"`
	Confirmation *ConfirmationResponse `json:"confirmation,omitempty"`
}

// ListTransactionsRequest holds transaction list query parameters
type ListTransactionsRequest struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=DEPOSIT WITHDRAWAL TRANSFER FEE INTEREST"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED REVERSED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToFilter converts the query parameters to a domain filter
func (r *ListTransactionsRequest) ToFilter() transaction.Filter {
	page := r.Page
	if page == 0 {
		page = 1
	}
	pageSize := r.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	return transaction.Filter{
		Kind:     transaction.Kind(r.Kind),
		Status:   transaction.Status(r.Status),
		Page:     page,
		PageSize: pageSize,
	}
}
