package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopfin/backend/internal/domain/member"
)

// MemberModel is the persistence model for the Member aggregate.
// Per-account balances are stored as dedicated columns so a single
// balance can be adjusted atomically in SQL.
type MemberModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	MemberNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Phone           string          `gorm:"type:varchar(50);index"`
	Status          member.Status   `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	SavingsBalance  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SharesBalance   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DepositsBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	JoinedAt        time.Time       `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// BalanceColumn returns the column holding the balance for an account kind
func BalanceColumn(kind member.AccountKind) string {
	switch kind {
	case member.AccountKindShares:
		return "shares_balance"
	case member.AccountKindDeposits:
		return "deposits_balance"
	default:
		return "savings_balance"
	}
}

// ToDomain converts the persistence model to a domain Member aggregate.
func (m *MemberModel) ToDomain() *member.Member {
	return &member.Member{
		ID:           m.ID,
		MemberNumber: m.MemberNumber,
		Name:         m.Name,
		Phone:        m.Phone,
		Status:       m.Status,
		Balances: map[member.AccountKind]decimal.Decimal{
			member.AccountKindSavings:  m.SavingsBalance,
			member.AccountKindShares:   m.SharesBalance,
			member.AccountKindDeposits: m.DepositsBalance,
		},
		JoinedAt:  m.JoinedAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// MemberModelFromDomain converts a domain Member aggregate to a persistence model.
func MemberModelFromDomain(d *member.Member) *MemberModel {
	return &MemberModel{
		ID:              d.ID,
		MemberNumber:    d.MemberNumber,
		Name:            d.Name,
		Phone:           d.Phone,
		Status:          d.Status,
		SavingsBalance:  d.Balance(member.AccountKindSavings),
		SharesBalance:   d.Balance(member.AccountKindShares),
		DepositsBalance: d.Balance(member.AccountKindDeposits),
		JoinedAt:        d.JoinedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
