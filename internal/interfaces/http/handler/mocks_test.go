package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/coopfin/backend/internal/domain/member"
	"github.com/coopfin/backend/internal/domain/payment"
	"github.com/coopfin/backend/internal/domain/transaction"
)

// ====== Repository and gateway mocks ======

type mockMemberRepository struct {
	mock.Mock
}

func (m *mockMemberRepository) Create(ctx context.Context, mem *member.Member) error {
	return m.Called(ctx, mem).Error(0)
}

func (m *mockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *mockMemberRepository) FindByNumber(ctx context.Context, memberNumber string) (*member.Member, error) {
	args := m.Called(ctx, memberNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *mockMemberRepository) List(ctx context.Context, filter member.Filter) ([]*member.Member, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*member.Member), args.Get(1).(int64), args.Error(2)
}

func (m *mockMemberRepository) Save(ctx context.Context, mem *member.Member) error {
	return m.Called(ctx, mem).Error(0)
}

func (m *mockMemberRepository) UpdateBalance(ctx context.Context, id uuid.UUID, kind member.AccountKind, delta decimal.Decimal) error {
	return m.Called(ctx, id, kind, delta).Error(0)
}

type mockTransactionRepository struct {
	mock.Mock
}

func (m *mockTransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionRepository) FindByMember(ctx context.Context, memberID uuid.UUID, filter transaction.Filter) ([]*transaction.Transaction, int64, error) {
	args := m.Called(ctx, memberID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*transaction.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *mockTransactionRepository) Save(ctx context.Context, t *transaction.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

type mockPushGateway struct {
	mock.Mock
}

func (m *mockPushGateway) RequestToPay(ctx context.Context, req *payment.ChargeRequest) (*payment.ChargeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.ChargeResponse), args.Error(1)
}

func (m *mockPushGateway) CheckStatus(ctx context.Context, handle string) (*payment.StatusResponse, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.StatusResponse), args.Error(1)
}

// pendingDepositRecord builds a pending mobile-money deposit record
func pendingDepositRecord() *transaction.Transaction {
	return transaction.NewFromRequest(&transaction.Request{
		MemberID:    uuid.New(),
		Kind:        transaction.KindDeposit,
		AccountKind: member.AccountKindSavings,
		Amount:      decimal.NewFromInt(500),
		Method:      transaction.MethodMobileMoney,
	}, transaction.StatusPending)
}
