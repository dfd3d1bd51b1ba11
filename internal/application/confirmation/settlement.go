package confirmation

import (
	"context"

	"go.uber.org/zap"

	"github.com/coopfin/backend/internal/domain/member"
	"github.com/coopfin/backend/internal/domain/transaction"
)

// SettlementNotifier applies the financial effects of a finalized session
// before forwarding the notification. On a successful confirmation it
// completes the pending transaction and credits the member's account; on
// any other terminal status the pending record is left for manual
// reconciliation. Safe against replays: a transaction already completed is
// never credited twice.
type SettlementNotifier struct {
	members      member.Repository
	transactions transaction.Repository
	next         Notifier
	logger       *zap.Logger
}

// SettlementConfig holds the settlement notifier's collaborators
type SettlementConfig struct {
	Members      member.Repository
	Transactions transaction.Repository
	Next         Notifier
	Logger       *zap.Logger
}

// NewSettlementNotifier creates a SettlementNotifier
func NewSettlementNotifier(cfg SettlementConfig) *SettlementNotifier {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementNotifier{
		members:      cfg.Members,
		transactions: cfg.Transactions,
		next:         cfg.Next,
		logger:       logger,
	}
}

// Notify settles a successful confirmation and forwards the notification
func (s *SettlementNotifier) Notify(ctx context.Context, n TerminalNotification) {
	if n.Status.IsSuccess() {
		if err := s.settle(ctx, n); err != nil {
			s.logger.Error("Failed to settle confirmed payment",
				zap.String("handle", n.SessionHandle),
				zap.String("transaction_id", n.TransactionID.String()),
				zap.Error(err))
		}
	}

	if s.next != nil {
		s.next.Notify(ctx, n)
	}
}

// settle completes the pending transaction and credits the member account
func (s *SettlementNotifier) settle(ctx context.Context, n TerminalNotification) error {
	record, err := s.transactions.FindByID(ctx, n.TransactionID)
	if err != nil {
		return err
	}
	if record.IsCompleted() {
		s.logger.Info("Transaction already settled",
			zap.String("transaction_id", record.ID.String()))
		return nil
	}

	record.Complete()
	if err := s.transactions.Save(ctx, record); err != nil {
		return err
	}

	if err := s.members.UpdateBalance(ctx, record.MemberID, record.AccountKind, record.Amount); err != nil {
		return err
	}

	s.logger.Info("Confirmed payment settled",
		zap.String("transaction_id", record.ID.String()),
		zap.String("member_id", record.MemberID.String()),
		zap.String("amount", record.Amount.String()))
	return nil
}

var _ Notifier = (*SettlementNotifier)(nil)
