package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coopfin/backend/internal/domain/shared"
	"github.com/coopfin/backend/internal/domain/transaction"
	"github.com/coopfin/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements transaction.Repository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create persists a new transaction record
func (r *GormTransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	model := models.TransactionModelFromDomain(t)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMember returns a member's transactions matching the filter with
// the total count, most recent first
func (r *GormTransactionRepository) FindByMember(ctx context.Context, memberID uuid.UUID, filter transaction.Filter) ([]*transaction.Transaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("member_id = ?", memberID)

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var txModels []models.TransactionModel
	if err := query.Order("created_at DESC").Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*transaction.Transaction, len(txModels))
	for i := range txModels {
		transactions[i] = txModels[i].ToDomain()
	}
	return transactions, total, nil
}

// Save persists changes to an existing transaction
func (r *GormTransactionRepository) Save(ctx context.Context, t *transaction.Transaction) error {
	model := models.TransactionModelFromDomain(t)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormTransactionRepository implements transaction.Repository
var _ transaction.Repository = (*GormTransactionRepository)(nil)
