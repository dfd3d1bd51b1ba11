package payment

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidHandle          = errors.New("payment: invalid session handle")
	ErrInvalidAttemptLimit    = errors.New("payment: attempt limit must be positive")
	ErrInvalidInterval        = errors.New("payment: poll interval must be positive")
	ErrSessionActive          = errors.New("payment: a confirmation session is already active")
	ErrSessionTerminal        = errors.New("payment: session already reached a terminal state")
	ErrSessionNotFound        = errors.New("payment: confirmation session not found")
	ErrGatewayUnavailable     = errors.New("payment: gateway temporarily unavailable")
	ErrGatewayInvalidResponse = errors.New("payment: invalid gateway response")
)

// SessionStatus represents the state of a confirmation session
type SessionStatus string

const (
	SessionStatusPolling         SessionStatus = "POLLING"
	SessionStatusCredited        SessionStatus = "CREDITED"
	SessionStatusAlreadyCredited SessionStatus = "ALREADY_CREDITED"
	SessionStatusCancelled       SessionStatus = "CANCELLED"
	SessionStatusFailed          SessionStatus = "FAILED"
	SessionStatusTimedOut        SessionStatus = "TIMED_OUT"
)

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// IsTerminal returns true when no further transitions occur from this status
func (s SessionStatus) IsTerminal() bool {
	return s != SessionStatusPolling
}

// IsSuccess returns true when the session ended with the account credited
func (s SessionStatus) IsSuccess() bool {
	return s == SessionStatusCredited || s == SessionStatusAlreadyCredited
}

// ConfirmationSession tracks one pending push payment from creation until a
// terminal status. The poll controller is the only writer after creation;
// the mutex exists because cancellation arrives from the caller's goroutine.
type ConfirmationSession struct {
	Handle        string
	MemberID      uuid.UUID
	TransactionID uuid.UUID
	Amount        decimal.Decimal
	AttemptLimit  int
	Interval      time.Duration
	StartedAt     time.Time

	mu       sync.Mutex
	attempts int
	status   SessionStatus
	message  string
}

// NewConfirmationSession creates a polling session for a gateway handle
func NewConfirmationSession(handle string, memberID, transactionID uuid.UUID, amount decimal.Decimal, attemptLimit int, interval time.Duration) (*ConfirmationSession, error) {
	if handle == "" {
		return nil, ErrInvalidHandle
	}
	if attemptLimit <= 0 {
		return nil, ErrInvalidAttemptLimit
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &ConfirmationSession{
		Handle:        handle,
		MemberID:      memberID,
		TransactionID: transactionID,
		Amount:        amount,
		AttemptLimit:  attemptLimit,
		Interval:      interval,
		StartedAt:     time.Now(),
		status:        SessionStatusPolling,
	}, nil
}

// Status returns the current session status
func (s *ConfirmationSession) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Message returns the terminal message, empty while polling
func (s *ConfirmationSession) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Attempts returns the number of checks recorded so far
func (s *ConfirmationSession) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// IsTerminal returns true once the session reached a terminal status
func (s *ConfirmationSession) IsTerminal() bool {
	return s.Status().IsTerminal()
}

// RecordAttempt increments the attempt counter and reports whether the
// attempt bound has been exhausted
func (s *ConfirmationSession) RecordAttempt() (exhausted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	return s.attempts >= s.AttemptLimit
}

// Finalize transitions the session to a terminal status. It returns false
// if the session was already terminal, which callers must treat as "do not
// perform side effects" - this is the at-most-once guarantee.
func (s *ConfirmationSession) Finalize(status SessionStatus, message string) bool {
	if !status.IsTerminal() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.IsTerminal() {
		return false
	}
	s.status = status
	s.message = message
	return true
}

// Cancel transitions the session to cancelled. Idempotent: returns false
// when the session is already terminal.
func (s *ConfirmationSession) Cancel() bool {
	return s.Finalize(SessionStatusCancelled, "confirmation cancelled by operator")
}
