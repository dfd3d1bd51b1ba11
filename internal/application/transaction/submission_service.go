package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coopfin/backend/internal/domain/member"
	"github.com/coopfin/backend/internal/domain/payment"
	"github.com/coopfin/backend/internal/domain/transaction"
)

var (
	// ErrMemberNotFound is returned when the request references an unknown member
	ErrMemberNotFound = errors.New("submission: member not found")
	// ErrMemberNotActive is returned when the member cannot transact
	ErrMemberNotActive = errors.New("submission: member is not active")
	// ErrMissingPhone is returned when a mobile-money deposit lacks a payer phone
	ErrMissingPhone = errors.New("submission: payer phone required for mobile money")
)

// SubmissionResult is produced exactly once per submission: either the
// transaction completed synchronously, or the gateway opened a confirmation
// session that the poll controller must drive to a terminal state.
type SubmissionResult struct {
	Completed *transaction.Transaction
	Session   *payment.ConfirmationSession
}

// Pending returns true when the result carries a confirmation session
func (r *SubmissionResult) Pending() bool {
	return r.Session != nil
}

// SubmissionConfig holds confirmation tuning for pending submissions
type SubmissionConfig struct {
	AttemptLimit int
	PollInterval time.Duration
	Currency     string
}

// DefaultSubmissionConfig returns the confirmation defaults
func DefaultSubmissionConfig() SubmissionConfig {
	return SubmissionConfig{
		AttemptLimit: 24,
		PollInterval: 5 * time.Second,
		Currency:     "KES",
	}
}

// SubmissionService accepts transaction requests, submits them once, and
// classifies the response. It never waits for confirmation: a pending
// push payment is handed back as a session for the poll controller.
type SubmissionService struct {
	members      member.Repository
	transactions transaction.Repository
	gateway      payment.PushGateway
	config       SubmissionConfig
	logger       *zap.Logger
}

// SubmissionServiceConfig holds the service's collaborators
type SubmissionServiceConfig struct {
	Members      member.Repository
	Transactions transaction.Repository
	Gateway      payment.PushGateway
	Config       SubmissionConfig
	Logger       *zap.Logger
}

// NewSubmissionService creates a SubmissionService
func NewSubmissionService(cfg SubmissionServiceConfig) *SubmissionService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	config := cfg.Config
	if config.AttemptLimit <= 0 {
		config.AttemptLimit = DefaultSubmissionConfig().AttemptLimit
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultSubmissionConfig().PollInterval
	}
	if config.Currency == "" {
		config.Currency = DefaultSubmissionConfig().Currency
	}
	return &SubmissionService{
		members:      cfg.Members,
		transactions: cfg.Transactions,
		gateway:      cfg.Gateway,
		config:       config,
		logger:       logger,
	}
}

// Submit validates and submits a transaction request. Validation failures
// surface immediately and never reach the gateway. phone is the payer's
// mobile-money number, required only for mobile-money deposits.
func (s *SubmissionService) Submit(ctx context.Context, req *transaction.Request, phone string) (*SubmissionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.members.FindByID(ctx, req.MemberID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMemberNotFound, err)
	}
	if !m.IsActive() {
		return nil, ErrMemberNotActive
	}

	if req.Method == transaction.MethodMobileMoney && req.Kind == transaction.KindDeposit {
		if phone == "" {
			return nil, ErrMissingPhone
		}
		return s.submitPushPayment(ctx, req, phone)
	}

	return s.submitImmediate(ctx, req)
}

// submitImmediate records a transaction that completes synchronously and
// applies the balance movement locally
func (s *SubmissionService) submitImmediate(ctx context.Context, req *transaction.Request) (*SubmissionResult, error) {
	record := transaction.NewFromRequest(req, transaction.StatusCompleted)
	if err := s.transactions.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	delta := req.Amount
	if req.Kind == transaction.KindWithdrawal || req.Kind == transaction.KindFee {
		delta = delta.Neg()
	}
	if err := s.members.UpdateBalance(ctx, req.MemberID, req.AccountKind, delta); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	s.logger.Info("Transaction completed",
		zap.String("transaction_id", record.ID.String()),
		zap.String("member_id", req.MemberID.String()),
		zap.String("kind", req.Kind.String()),
		zap.String("amount", req.Amount.String()))

	return &SubmissionResult{Completed: record}, nil
}

// submitPushPayment asks the gateway to prompt the payer's device. The call
// returns immediately; when the gateway answers with a session handle the
// real outcome arrives only through later status checks.
func (s *SubmissionService) submitPushPayment(ctx context.Context, req *transaction.Request, phone string) (*SubmissionResult, error) {
	record := transaction.NewFromRequest(req, transaction.StatusPending)
	if err := s.transactions.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	resp, err := s.gateway.RequestToPay(ctx, &payment.ChargeRequest{
		MemberID:    req.MemberID,
		Reference:   record.ID.String(),
		Amount:      req.Amount,
		Currency:    s.config.Currency,
		Phone:       phone,
		Description: req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}

	if !resp.Pending() {
		record.Complete()
		if resp.TransactionRef != "" {
			record.Reference = resp.TransactionRef
		}
		if err := s.transactions.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to complete transaction: %w", err)
		}
		// The gateway settled without opening a session, so the credit
		// that normally lands on confirmation is applied here.
		if err := s.members.UpdateBalance(ctx, req.MemberID, req.AccountKind, req.Amount); err != nil {
			return nil, fmt.Errorf("failed to update balance: %w", err)
		}

		s.logger.Info("Push payment completed synchronously",
			zap.String("transaction_id", record.ID.String()),
			zap.String("gateway_ref", resp.TransactionRef))

		return &SubmissionResult{Completed: record}, nil
	}

	session, err := payment.NewConfirmationSession(
		resp.SessionHandle,
		req.MemberID,
		record.ID,
		req.Amount,
		s.config.AttemptLimit,
		s.config.PollInterval,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}

	s.logger.Info("Push payment pending confirmation",
		zap.String("transaction_id", record.ID.String()),
		zap.String("session_handle", session.Handle),
		zap.String("member_id", req.MemberID.String()))

	return &SubmissionResult{Session: session}, nil
}
