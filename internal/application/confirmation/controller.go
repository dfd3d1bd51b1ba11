package confirmation

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coopfin/backend/internal/domain/payment"
)

// TerminalNotification is delivered exactly once when a session finalizes
type TerminalNotification struct {
	SessionHandle string                `json:"session_handle"`
	MemberID      uuid.UUID             `json:"member_id"`
	TransactionID uuid.UUID             `json:"transaction_id"`
	Status        payment.SessionStatus `json:"status"`
	Message       string                `json:"message"`
}

// Notifier receives the single terminal notification for a session.
// The caller supplies the rendering mechanism.
type Notifier interface {
	Notify(ctx context.Context, n TerminalNotification)
}

// Invalidator drops cached views that depend on a member's balance and
// transaction history. Invoked once per finalized session.
type Invalidator interface {
	InvalidateMemberViews(ctx context.Context, memberID uuid.UUID) error
}

// track pairs a session with its cancellation signal
type track struct {
	session  *payment.ConfirmationSession
	cancelCh chan struct{}
	done     chan struct{}
}

// Controller owns the lifecycle of confirmation sessions. For each session
// it schedules status checks at a fixed cadence, one outstanding check at a
// time: the next wait starts only after the previous check resolves, so two
// checks for one handle can never overlap. At most one session may be
// active per member at any time.
type Controller struct {
	gateway     payment.PushGateway
	invalidator Invalidator
	notifier    Notifier
	clock       Clock
	logger      *zap.Logger

	mu       sync.Mutex
	byHandle map[string]*track
	byMember map[uuid.UUID]string
}

// ControllerConfig holds the controller's collaborators
type ControllerConfig struct {
	Gateway     payment.PushGateway
	Invalidator Invalidator
	Notifier    Notifier
	Clock       Clock
	Logger      *zap.Logger
}

// NewController creates a poll controller
func NewController(cfg ControllerConfig) *Controller {
	clock := cfg.Clock
	if clock == nil {
		clock = NewRealClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		gateway:     cfg.Gateway,
		invalidator: cfg.Invalidator,
		notifier:    cfg.Notifier,
		clock:       clock,
		logger:      logger,
		byHandle:    make(map[string]*track),
		byMember:    make(map[uuid.UUID]string),
	}
}

// Start begins polling for the given session. The first check runs only
// after one full interval; the gateway needs that long to resolve anyway.
// Returns payment.ErrSessionActive when a session is already polling for
// the same member.
func (c *Controller) Start(ctx context.Context, session *payment.ConfirmationSession) error {
	if session == nil || session.Handle == "" {
		return payment.ErrInvalidHandle
	}
	if session.IsTerminal() {
		return payment.ErrSessionTerminal
	}

	c.mu.Lock()
	if _, exists := c.byHandle[session.Handle]; exists {
		c.mu.Unlock()
		return payment.ErrSessionActive
	}
	if _, exists := c.byMember[session.MemberID]; exists {
		c.mu.Unlock()
		return payment.ErrSessionActive
	}
	tr := &track{
		session:  session,
		cancelCh: make(chan struct{}),
		done:     make(chan struct{}),
	}
	c.byHandle[session.Handle] = tr
	c.byMember[session.MemberID] = session.Handle
	c.mu.Unlock()

	c.logger.Info("Confirmation session started",
		zap.String("handle", session.Handle),
		zap.String("member_id", session.MemberID.String()),
		zap.Duration("interval", session.Interval),
		zap.Int("attempt_limit", session.AttemptLimit))

	go c.run(ctx, tr)
	return nil
}

// Cancel requests cancellation of the session for the given handle.
// Cancellation wins over a scheduled check that has not yet fired, and the
// terminal side effects run synchronously here. Idempotent: cancelling an
// already-terminal session returns payment.ErrSessionTerminal and changes
// nothing.
func (c *Controller) Cancel(ctx context.Context, handle string) error {
	c.mu.Lock()
	tr, ok := c.byHandle[handle]
	c.mu.Unlock()
	if !ok {
		return payment.ErrSessionNotFound
	}

	if !tr.session.Cancel() {
		return payment.ErrSessionTerminal
	}
	close(tr.cancelCh)
	c.applyTerminalEffects(ctx, tr.session)
	return nil
}

// Session returns the session for a handle while it is tracked
func (c *Controller) Session(handle string) (*payment.ConfirmationSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tr, ok := c.byHandle[handle]
	if !ok {
		return nil, false
	}
	return tr.session, true
}

// ActiveCount returns the number of sessions currently tracked
func (c *Controller) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byHandle)
}

// run drives one session to a terminal state. Strictly sequential: each
// iteration waits one interval, performs one check, and only then loops.
func (c *Controller) run(ctx context.Context, tr *track) {
	session := tr.session
	defer close(tr.done)
	defer c.release(session)

	for {
		timer := c.clock.NewTimer(session.Interval)
		select {
		case <-tr.cancelCh:
			// Cancel already ran the terminal effects
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			if session.Cancel() {
				c.applyTerminalEffects(context.WithoutCancel(ctx), session)
			}
			return
		case <-timer.C():
		}

		// Cancellation may have landed between the timer firing and this
		// check being dispatched; a terminal session gets no more checks.
		if session.IsTerminal() {
			return
		}

		outcome, message := c.check(ctx, session)

		// A response that arrives after cancellation is discarded
		if session.IsTerminal() {
			c.logger.Debug("Discarding poll response for terminal session",
				zap.String("handle", session.Handle),
				zap.String("outcome", outcome.String()))
			return
		}

		action := payment.Reconcile(session, outcome, message)
		if !action.IsFinalize() {
			c.logger.Debug("Confirmation still pending",
				zap.String("handle", session.Handle),
				zap.Int("attempts", session.Attempts()),
				zap.Int("attempt_limit", session.AttemptLimit))
			continue
		}

		if session.Finalize(action.Status, action.Message) {
			c.applyTerminalEffects(ctx, session)
		}
		return
	}
}

// check performs one status check. A check that cannot reach the gateway is
// not fatal: it degrades to an unrecognized outcome and consumes one attempt.
func (c *Controller) check(ctx context.Context, session *payment.ConfirmationSession) (payment.PollOutcome, string) {
	resp, err := c.gateway.CheckStatus(ctx, session.Handle)
	if err != nil {
		c.logger.Warn("Confirmation status check failed",
			zap.String("handle", session.Handle),
			zap.Error(err))
		return payment.PollOutcomeUnrecognized, ""
	}
	if resp == nil {
		return payment.PollOutcomeUnrecognized, ""
	}

	if resp.Outcome == payment.PollOutcomeAlreadyCredited {
		// The gateway callback beat this poll to the credit. Logged
		// distinctly so operators can spot the race, never an error.
		c.logger.Info("Credit already applied by gateway callback",
			zap.String("handle", session.Handle))
	}
	return resp.Outcome, resp.Message
}

// applyTerminalEffects runs the once-per-session side effects. Callers must
// only invoke it after winning the session's Finalize/Cancel transition.
func (c *Controller) applyTerminalEffects(ctx context.Context, session *payment.ConfirmationSession) {
	status := session.Status()

	c.logger.Info("Confirmation session finalized",
		zap.String("handle", session.Handle),
		zap.String("member_id", session.MemberID.String()),
		zap.String("status", status.String()),
		zap.Int("attempts", session.Attempts()))

	// The notifier chain applies the settlement credit, so it must run
	// before invalidation or a re-cached view could hold the pre-credit
	// balance with no later invalidation to flush it.
	if c.notifier != nil {
		c.notifier.Notify(ctx, TerminalNotification{
			SessionHandle: session.Handle,
			MemberID:      session.MemberID,
			TransactionID: session.TransactionID,
			Status:        status,
			Message:       session.Message(),
		})
	}

	if c.invalidator != nil {
		if err := c.invalidator.InvalidateMemberViews(ctx, session.MemberID); err != nil {
			c.logger.Warn("Failed to invalidate member views",
				zap.String("member_id", session.MemberID.String()),
				zap.Error(err))
		}
	}
}

// release forgets a session once its loop exits
func (c *Controller) release(session *payment.ConfirmationSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byHandle, session.Handle)
	if handle, ok := c.byMember[session.MemberID]; ok && handle == session.Handle {
		delete(c.byMember, session.MemberID)
	}
}
