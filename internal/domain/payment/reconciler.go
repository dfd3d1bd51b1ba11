package payment

// ActionType identifies what the poll controller should do next
type ActionType string

const (
	ActionContinuePolling ActionType = "CONTINUE_POLLING"
	ActionFinalize        ActionType = "FINALIZE"
)

// ReconcileAction is the reconciler's verdict on one poll response
type ReconcileAction struct {
	Type    ActionType
	Status  SessionStatus
	Message string
}

// IsFinalize returns true if the action finalizes the session
func (a ReconcileAction) IsFinalize() bool {
	return a.Type == ActionFinalize
}

const (
	creditedMessage = "Deposit confirmed and credited"
	failedMessage   = "Payment was not completed"
	// timedOutMessage deliberately does not assert failure: the attempt
	// bound was exhausted with the true outcome still unknown, and the
	// credit may land out-of-band later.
	timedOutMessage = "Confirmation timed out; payment outcome unknown. Verify with the member and reconcile manually."
)

// Reconcile maps one poll outcome to the next controller action. Pure: it
// reads the session's attempt state but performs no side effects.
//
// gatewayMessage, when non-empty, overrides the generic message for
// gateway-reported declines and cancellations.
func Reconcile(session *ConfirmationSession, outcome PollOutcome, gatewayMessage string) ReconcileAction {
	switch outcome {
	case PollOutcomeCredited:
		return ReconcileAction{Type: ActionFinalize, Status: SessionStatusCredited, Message: creditedMessage}
	case PollOutcomeAlreadyCredited:
		return ReconcileAction{Type: ActionFinalize, Status: SessionStatusAlreadyCredited, Message: creditedMessage}
	case PollOutcomeCancelled, PollOutcomeFailed, PollOutcomeTimeout:
		msg := failedMessage
		if gatewayMessage != "" {
			msg = gatewayMessage
		}
		return ReconcileAction{Type: ActionFinalize, Status: SessionStatusFailed, Message: msg}
	default:
		// pending and unrecognized both consume one attempt
		if exhausted := session.RecordAttempt(); exhausted {
			return ReconcileAction{Type: ActionFinalize, Status: SessionStatusTimedOut, Message: timedOutMessage}
		}
		return ReconcileAction{Type: ActionContinuePolling}
	}
}
