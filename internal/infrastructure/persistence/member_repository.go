package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/coopfin/backend/internal/domain/member"
	"github.com/coopfin/backend/internal/domain/shared"
	"github.com/coopfin/backend/internal/infrastructure/persistence/models"
)

// GormMemberRepository implements member.Repository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// Create persists a new member
func (r *GormMemberRepository) Create(ctx context.Context, m *member.Member) error {
	model := models.MemberModelFromDomain(m)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a member by its ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a member by member number
func (r *GormMemberRepository) FindByNumber(ctx context.Context, memberNumber string) (*member.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("member_number = ?", memberNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns members matching the filter with the total count
func (r *GormMemberRepository) List(ctx context.Context, filter member.Filter) ([]*member.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MemberModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR member_number ILIKE ? OR phone ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var memberModels []models.MemberModel
	if err := query.Order("member_number ASC").Find(&memberModels).Error; err != nil {
		return nil, 0, err
	}

	members := make([]*member.Member, len(memberModels))
	for i := range memberModels {
		members[i] = memberModels[i].ToDomain()
	}
	return members, total, nil
}

// Save persists changes to an existing member
func (r *GormMemberRepository) Save(ctx context.Context, m *member.Member) error {
	model := models.MemberModelFromDomain(m)
	return r.db.WithContext(ctx).Save(model).Error
}

// UpdateBalance adjusts a single account balance by delta. The adjustment
// runs in SQL so concurrent updates to the same account never lose writes.
// A negative delta fails if it would take the balance below zero.
func (r *GormMemberRepository) UpdateBalance(ctx context.Context, id uuid.UUID, kind member.AccountKind, delta decimal.Decimal) error {
	if !kind.IsValid() {
		return member.ErrInvalidAccountKind
	}
	column := models.BalanceColumn(kind)

	query := r.db.WithContext(ctx).Model(&models.MemberModel{}).Where("id = ?", id)
	if delta.IsNegative() {
		query = query.Where(column+" >= ?", delta.Neg())
	}

	result := query.Update(column, gorm.Expr(column+" + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if delta.IsNegative() {
			var count int64
			if err := r.db.WithContext(ctx).
				Model(&models.MemberModel{}).
				Where("id = ?", id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return member.ErrInsufficientFunds
			}
		}
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormMemberRepository implements member.Repository
var _ member.Repository = (*GormMemberRepository)(nil)
