package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter holds list filtering and pagination options for transactions
type Filter struct {
	Kind     Kind
	Status   Status
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// Repository defines the persistence port for transactions
type Repository interface {
	// Create persists a new transaction record
	Create(ctx context.Context, t *Transaction) error

	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindByMember returns a member's transactions matching the filter
	// with the total count, most recent first
	FindByMember(ctx context.Context, memberID uuid.UUID, filter Filter) ([]*Transaction, int64, error)

	// Save persists changes to an existing transaction
	Save(ctx context.Context, t *Transaction) error
}
