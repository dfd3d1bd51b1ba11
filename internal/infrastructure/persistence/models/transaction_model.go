package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopfin/backend/internal/domain/member"
	"github.com/coopfin/backend/internal/domain/transaction"
)

// TransactionModel is the persistence model for transaction records.
type TransactionModel struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key"`
	MemberID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	Kind        transaction.Kind   `gorm:"type:varchar(20);not null"`
	AccountKind member.AccountKind `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Method      transaction.Method `gorm:"type:varchar(20);not null"`
	Reference   string             `gorm:"type:varchar(100);index"`
	Description string             `gorm:"type:text"`
	Status      transaction.Status `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	CreatedAt   time.Time          `gorm:"not null;index"`
	UpdatedAt   time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction record.
func (m *TransactionModel) ToDomain() *transaction.Transaction {
	return &transaction.Transaction{
		ID:          m.ID,
		MemberID:    m.MemberID,
		Kind:        m.Kind,
		AccountKind: m.AccountKind,
		Amount:      m.Amount,
		Method:      m.Method,
		Reference:   m.Reference,
		Description: m.Description,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// TransactionModelFromDomain converts a domain Transaction record to a persistence model.
func TransactionModelFromDomain(d *transaction.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:          d.ID,
		MemberID:    d.MemberID,
		Kind:        d.Kind,
		AccountKind: d.AccountKind,
		Amount:      d.Amount,
		Method:      d.Method,
		Reference:   d.Reference,
		Description: d.Description,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
