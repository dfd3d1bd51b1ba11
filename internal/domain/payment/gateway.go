package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrChargeInvalidMemberID  = errors.New("payment: invalid member ID")
	ErrChargeInvalidReference = errors.New("payment: invalid charge reference")
	ErrChargeInvalidAmount    = errors.New("payment: invalid charge amount")
	ErrChargeInvalidPhone     = errors.New("payment: invalid payer phone number")
)

// ChargeRequest asks the mobile-money gateway to prompt the payer's device
// for a push payment (request-to-pay)
type ChargeRequest struct {
	// MemberID is the member being credited
	MemberID uuid.UUID
	// Reference is our internal transaction reference
	Reference string
	// Amount is the charge amount
	Amount decimal.Decimal
	// Currency is the charge currency
	Currency string
	// Phone is the payer's mobile-money number
	Phone string
	// Description is shown on the payer's prompt
	Description string
}

// Validate validates the charge request
func (r *ChargeRequest) Validate() error {
	if r.MemberID == uuid.Nil {
		return ErrChargeInvalidMemberID
	}
	if r.Reference == "" {
		return ErrChargeInvalidReference
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrChargeInvalidAmount
	}
	if r.Phone == "" {
		return ErrChargeInvalidPhone
	}
	return nil
}

// ChargeResponse is the gateway's immediate answer to a charge. Either the
// transaction completed synchronously (TransactionRef set) or the gateway
// opened a confirmation session (SessionHandle set) whose real outcome
// arrives later via status checks.
type ChargeResponse struct {
	// SessionHandle correlates later status checks; empty when completed
	SessionHandle string
	// TransactionRef is the gateway's reference for a completed charge
	TransactionRef string
	// Status is the raw gateway status string
	Status string
	// Message is an optional human-readable gateway message
	Message string
}

// Pending returns true when the charge opened a confirmation session
// rather than completing synchronously
func (r *ChargeResponse) Pending() bool {
	return r.SessionHandle != ""
}

// StatusResponse is one confirmation status check result
type StatusResponse struct {
	// Outcome is the parsed poll outcome
	Outcome PollOutcome
	// Message is an optional human-readable gateway message
	Message string
	// RawStatus is the original gateway status string
	RawStatus string
}

// PushGateway is the port for the external mobile-money gateway. Concrete
// adapters live in the infrastructure layer.
type PushGateway interface {
	// RequestToPay submits a charge and returns immediately with either a
	// completed transaction reference or a pending session handle
	RequestToPay(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error)

	// CheckStatus queries the confirmation status for a session handle
	CheckStatus(ctx context.Context, handle string) (*StatusResponse, error)
}
