package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopfin/backend/internal/domain/member"
)

var (
	ErrInvalidMemberID    = errors.New("transaction: invalid member ID")
	ErrInvalidKind        = errors.New("transaction: invalid transaction kind")
	ErrInvalidAccountKind = errors.New("transaction: invalid account kind")
	ErrInvalidAmount      = errors.New("transaction: amount must be positive")
	ErrInvalidPrecision   = errors.New("transaction: amount exceeds currency precision")
	ErrInvalidMethod      = errors.New("transaction: invalid payment method")
)

// currencyScale is the number of decimal places carried by amounts.
// Amounts submitted with finer precision are rejected rather than rounded.
const currencyScale = 2

// Kind represents the type of a transaction
type Kind string

const (
	KindDeposit    Kind = "DEPOSIT"
	KindWithdrawal Kind = "WITHDRAWAL"
	KindTransfer   Kind = "TRANSFER"
	KindFee        Kind = "FEE"
	KindInterest   Kind = "INTEREST"
)

// IsValid returns true if the kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindTransfer, KindFee, KindInterest:
		return true
	default:
		return false
	}
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Method represents how a transaction is funded
type Method string

const (
	MethodCash         Method = "CASH"
	MethodMobileMoney  Method = "MOBILE_MONEY"
	MethodCheque       Method = "CHEQUE"
	MethodBankTransfer Method = "BANK_TRANSFER"
)

// IsValid returns true if the method is valid
func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodMobileMoney, MethodCheque, MethodBankTransfer:
		return true
	default:
		return false
	}
}

// String returns the string representation of Method
func (m Method) String() string {
	return string(m)
}

// Status represents the lifecycle state of a transaction record
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusReversed  Status = "REVERSED"
)

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusReversed:
		return true
	default:
		return false
	}
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Request is the immutable value submitted by a teller to create a
// transaction. It is validated before submission and never mutated.
type Request struct {
	MemberID    uuid.UUID
	Kind        Kind
	AccountKind member.AccountKind
	Amount      decimal.Decimal
	Method      Method
	Reference   string
	Description string
}

// Validate validates the transaction request
func (r *Request) Validate() error {
	if r.MemberID == uuid.Nil {
		return ErrInvalidMemberID
	}
	if !r.Kind.IsValid() {
		return ErrInvalidKind
	}
	if !r.AccountKind.IsValid() {
		return ErrInvalidAccountKind
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if r.Amount.Exponent() < -currencyScale {
		return ErrInvalidPrecision
	}
	if !r.Method.IsValid() {
		return ErrInvalidMethod
	}
	return nil
}

// Transaction is a recorded transaction against a member account
type Transaction struct {
	ID          uuid.UUID
	MemberID    uuid.UUID
	Kind        Kind
	AccountKind member.AccountKind
	Amount      decimal.Decimal
	Method      Method
	Reference   string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewFromRequest creates a transaction record from a validated request
func NewFromRequest(req *Request, status Status) *Transaction {
	now := time.Now()
	return &Transaction{
		ID:          uuid.New(),
		MemberID:    req.MemberID,
		Kind:        req.Kind,
		AccountKind: req.AccountKind,
		Amount:      req.Amount,
		Method:      req.Method,
		Reference:   req.Reference,
		Description: req.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Complete marks the transaction as completed
func (t *Transaction) Complete() {
	t.Status = StatusCompleted
	t.UpdatedAt = time.Now()
}

// IsCompleted returns true if the transaction has been completed
func (t *Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}
