package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coopfin/backend/internal/domain/member"
	"github.com/coopfin/backend/internal/domain/shared"
)

var (
	// ErrMemberNumberTaken is returned when registering a duplicate member number
	ErrMemberNumberTaken = errors.New("member service: member number already registered")
)

// Service provides back-office member operations
type Service struct {
	members member.Repository
	logger  *zap.Logger
}

// ServiceConfig holds the service's collaborators
type ServiceConfig struct {
	Members member.Repository
	Logger  *zap.Logger
}

// NewService creates a member Service
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		members: cfg.Members,
		logger:  logger,
	}
}

// Register creates a new active member with zero balances
func (s *Service) Register(ctx context.Context, memberNumber, name, phone string) (*member.Member, error) {
	if existing, err := s.members.FindByNumber(ctx, memberNumber); err == nil && existing != nil {
		return nil, ErrMemberNumberTaken
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check member number: %w", err)
	}

	m, err := member.NewMember(memberNumber, name, phone)
	if err != nil {
		return nil, err
	}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.logger.Info("Member registered",
		zap.String("member_id", m.ID.String()),
		zap.String("member_number", m.MemberNumber))
	return m, nil
}

// Get returns a member by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	return s.members.FindByID(ctx, id)
}

// GetByNumber returns a member by member number
func (s *Service) GetByNumber(ctx context.Context, memberNumber string) (*member.Member, error) {
	return s.members.FindByNumber(ctx, memberNumber)
}

// List returns members matching the filter with the total count
func (s *Service) List(ctx context.Context, filter member.Filter) ([]*member.Member, int64, error) {
	return s.members.List(ctx, filter)
}

// Suspend suspends a member, blocking further transactions
func (s *Service) Suspend(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	m, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Suspend()
	if err := s.members.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to suspend member: %w", err)
	}

	s.logger.Info("Member suspended", zap.String("member_id", id.String()))
	return m, nil
}

// Reactivate returns a suspended member to active status
func (s *Service) Reactivate(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	m, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.Reactivate(); err != nil {
		return nil, err
	}
	if err := s.members.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to reactivate member: %w", err)
	}

	s.logger.Info("Member reactivated", zap.String("member_id", id.String()))
	return m, nil
}
