package confirmation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coopfin/backend/internal/domain/member"
	"github.com/coopfin/backend/internal/domain/payment"
	"github.com/coopfin/backend/internal/domain/transaction"
)

// ====== Mocks ======

type settlementMemberRepo struct {
	mock.Mock
}

func (m *settlementMemberRepo) Create(ctx context.Context, mem *member.Member) error {
	return m.Called(ctx, mem).Error(0)
}

func (m *settlementMemberRepo) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *settlementMemberRepo) FindByNumber(ctx context.Context, memberNumber string) (*member.Member, error) {
	args := m.Called(ctx, memberNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *settlementMemberRepo) List(ctx context.Context, filter member.Filter) ([]*member.Member, int64, error) {
	args := m.Called(ctx, filter)
	return nil, 0, args.Error(2)
}

func (m *settlementMemberRepo) Save(ctx context.Context, mem *member.Member) error {
	return m.Called(ctx, mem).Error(0)
}

func (m *settlementMemberRepo) UpdateBalance(ctx context.Context, id uuid.UUID, kind member.AccountKind, delta decimal.Decimal) error {
	return m.Called(ctx, id, kind, delta).Error(0)
}

type settlementTxRepo struct {
	mock.Mock
}

func (m *settlementTxRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *settlementTxRepo) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *settlementTxRepo) FindByMember(ctx context.Context, memberID uuid.UUID, filter transaction.Filter) ([]*transaction.Transaction, int64, error) {
	args := m.Called(ctx, memberID, filter)
	return nil, 0, args.Error(2)
}

func (m *settlementTxRepo) Save(ctx context.Context, t *transaction.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

type capturingNext struct {
	notifications []TerminalNotification
}

func (n *capturingNext) Notify(_ context.Context, notification TerminalNotification) {
	n.notifications = append(n.notifications, notification)
}

// ====== Helpers ======

func pendingRecord(memberID uuid.UUID) *transaction.Transaction {
	return transaction.NewFromRequest(&transaction.Request{
		MemberID:    memberID,
		Kind:        transaction.KindDeposit,
		AccountKind: member.AccountKindSavings,
		Amount:      decimal.NewFromInt(500),
		Method:      transaction.MethodMobileMoney,
	}, transaction.StatusPending)
}

func creditedNotification(memberID, txID uuid.UUID) TerminalNotification {
	return TerminalNotification{
		SessionHandle: "rtp-handle-1",
		MemberID:      memberID,
		TransactionID: txID,
		Status:        payment.SessionStatusCredited,
		Message:       "Deposit confirmed and credited",
	}
}

// ====== SettlementNotifier Tests ======

func TestSettlementNotifier_CreditedSessionSettles(t *testing.T) {
	members := new(settlementMemberRepo)
	transactions := new(settlementTxRepo)
	next := &capturingNext{}

	memberID := uuid.New()
	record := pendingRecord(memberID)

	transactions.On("FindByID", mock.Anything, record.ID).Return(record, nil).Once()
	transactions.On("Save", mock.Anything, mock.MatchedBy(func(tx *transaction.Transaction) bool {
		return tx.IsCompleted()
	})).Return(nil).Once()
	members.On("UpdateBalance", mock.Anything, memberID, member.AccountKindSavings,
		mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.NewFromInt(500))
		})).Return(nil).Once()

	notifier := NewSettlementNotifier(SettlementConfig{
		Members:      members,
		Transactions: transactions,
		Next:         next,
	})

	notifier.Notify(context.Background(), creditedNotification(memberID, record.ID))

	members.AssertExpectations(t)
	transactions.AssertExpectations(t)
	require.Len(t, next.notifications, 1)
	assert.Equal(t, payment.SessionStatusCredited, next.notifications[0].Status)
}

func TestSettlementNotifier_AlreadyCompletedIsNotCreditedTwice(t *testing.T) {
	members := new(settlementMemberRepo)
	transactions := new(settlementTxRepo)
	next := &capturingNext{}

	memberID := uuid.New()
	record := pendingRecord(memberID)
	record.Complete()

	transactions.On("FindByID", mock.Anything, record.ID).Return(record, nil).Once()

	notifier := NewSettlementNotifier(SettlementConfig{
		Members:      members,
		Transactions: transactions,
		Next:         next,
	})

	notifier.Notify(context.Background(), creditedNotification(memberID, record.ID))

	transactions.AssertExpectations(t)
	members.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	transactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Len(t, next.notifications, 1)
}

func TestSettlementNotifier_FailedSessionLeavesRecordPending(t *testing.T) {
	members := new(settlementMemberRepo)
	transactions := new(settlementTxRepo)
	next := &capturingNext{}

	notifier := NewSettlementNotifier(SettlementConfig{
		Members:      members,
		Transactions: transactions,
		Next:         next,
	})

	notifier.Notify(context.Background(), TerminalNotification{
		SessionHandle: "rtp-handle-2",
		MemberID:      uuid.New(),
		TransactionID: uuid.New(),
		Status:        payment.SessionStatusFailed,
		Message:       "Payment was not completed",
	})

	transactions.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	members.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	require.Len(t, next.notifications, 1)
	assert.Equal(t, payment.SessionStatusFailed, next.notifications[0].Status)
}

func TestSettlementNotifier_ForwardsEvenWhenSettlementFails(t *testing.T) {
	members := new(settlementMemberRepo)
	transactions := new(settlementTxRepo)
	next := &capturingNext{}

	txID := uuid.New()
	transactions.On("FindByID", mock.Anything, txID).Return(nil, assert.AnError).Once()

	notifier := NewSettlementNotifier(SettlementConfig{
		Members:      members,
		Transactions: transactions,
		Next:         next,
	})

	notifier.Notify(context.Background(), creditedNotification(uuid.New(), txID))

	transactions.AssertExpectations(t)
	assert.Len(t, next.notifications, 1)
}
