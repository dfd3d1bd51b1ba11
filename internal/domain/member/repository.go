package member

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter holds list filtering and pagination options
type Filter struct {
	Status   Status
	Search   string
	Page     int
	PageSize int
}

// Repository defines the persistence port for members
type Repository interface {
	// Create persists a new member
	Create(ctx context.Context, m *Member) error

	// FindByID finds a member by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)

	// FindByNumber finds a member by member number
	FindByNumber(ctx context.Context, memberNumber string) (*Member, error)

	// List returns members matching the filter with the total count
	List(ctx context.Context, filter Filter) ([]*Member, int64, error)

	// Save persists changes to an existing member
	Save(ctx context.Context, m *Member) error

	// UpdateBalance adjusts a single account balance by delta
	UpdateBalance(ctx context.Context, id uuid.UUID, kind AccountKind, delta decimal.Decimal) error
}
