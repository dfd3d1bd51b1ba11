package member

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMemberNumber = errors.New("member: invalid member number")
	ErrInvalidName         = errors.New("member: invalid name")
	ErrInvalidAccountKind  = errors.New("member: invalid account kind")
	ErrInvalidAmount       = errors.New("member: amount must be positive")
	ErrNotActive           = errors.New("member: member is not active")
	ErrInsufficientFunds   = errors.New("member: insufficient funds")
)

// Status represents the lifecycle state of a member
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusClosed    Status = "CLOSED"
)

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusClosed:
		return true
	default:
		return false
	}
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// AccountKind identifies which of a member's accounts a balance or
// transaction applies to
type AccountKind string

const (
	AccountKindSavings  AccountKind = "SAVINGS"
	AccountKindShares   AccountKind = "SHARES"
	AccountKindDeposits AccountKind = "DEPOSITS"
)

// IsValid returns true if the account kind is valid
func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindSavings, AccountKindShares, AccountKindDeposits:
		return true
	default:
		return false
	}
}

// String returns the string representation of AccountKind
func (k AccountKind) String() string {
	return string(k)
}

// AllAccountKinds returns every account kind a member carries
func AllAccountKinds() []AccountKind {
	return []AccountKind{AccountKindSavings, AccountKindShares, AccountKindDeposits}
}

// Member is the cooperative member aggregate. Balances are tracked per
// account kind; the crediting transaction itself is executed server-side,
// the aggregate only enforces local invariants for back-office entry.
type Member struct {
	ID           uuid.UUID
	MemberNumber string
	Name         string
	Phone        string
	Status       Status
	Balances     map[AccountKind]decimal.Decimal
	JoinedAt     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewMember creates a new active member with zero balances
func NewMember(memberNumber, name, phone string) (*Member, error) {
	if memberNumber == "" {
		return nil, ErrInvalidMemberNumber
	}
	if name == "" {
		return nil, ErrInvalidName
	}

	now := time.Now()
	balances := make(map[AccountKind]decimal.Decimal, len(AllAccountKinds()))
	for _, kind := range AllAccountKinds() {
		balances[kind] = decimal.Zero
	}

	return &Member{
		ID:           uuid.New(),
		MemberNumber: memberNumber,
		Name:         name,
		Phone:        phone,
		Status:       StatusActive,
		Balances:     balances,
		JoinedAt:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsActive returns true if the member can transact
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// Balance returns the balance for the given account kind
func (m *Member) Balance(kind AccountKind) decimal.Decimal {
	if m.Balances == nil {
		return decimal.Zero
	}
	return m.Balances[kind]
}

// Credit increases the balance of the given account kind
func (m *Member) Credit(kind AccountKind, amount decimal.Decimal) error {
	if !m.IsActive() {
		return ErrNotActive
	}
	if !kind.IsValid() {
		return ErrInvalidAccountKind
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if m.Balances == nil {
		m.Balances = make(map[AccountKind]decimal.Decimal)
	}
	m.Balances[kind] = m.Balances[kind].Add(amount)
	m.UpdatedAt = time.Now()
	return nil
}

// Debit decreases the balance of the given account kind
func (m *Member) Debit(kind AccountKind, amount decimal.Decimal) error {
	if !m.IsActive() {
		return ErrNotActive
	}
	if !kind.IsValid() {
		return ErrInvalidAccountKind
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if m.Balance(kind).LessThan(amount) {
		return ErrInsufficientFunds
	}
	m.Balances[kind] = m.Balances[kind].Sub(amount)
	m.UpdatedAt = time.Now()
	return nil
}

// Suspend marks the member as suspended
func (m *Member) Suspend() {
	m.Status = StatusSuspended
	m.UpdatedAt = time.Now()
}

// Reactivate marks a suspended member as active again
func (m *Member) Reactivate() error {
	if m.Status == StatusClosed {
		return ErrNotActive
	}
	m.Status = StatusActive
	m.UpdatedAt = time.Now()
	return nil
}
