package payment

import "strings"

// PollOutcome is the parsed result of one confirmation status check
type PollOutcome string

const (
	// PollOutcomeCredited indicates the payment completed and the member
	// account was credited by this confirmation
	PollOutcomeCredited PollOutcome = "CREDITED"
	// PollOutcomeAlreadyCredited indicates the gateway's own callback
	// applied the credit before this check observed it. Success, not an
	// error, and never a second credit.
	PollOutcomeAlreadyCredited PollOutcome = "ALREADY_CREDITED"
	// PollOutcomePending indicates the payer has not yet completed the prompt
	PollOutcomePending PollOutcome = "PENDING"
	// PollOutcomeCancelled indicates the payer aborted the payment prompt
	PollOutcomeCancelled PollOutcome = "CANCELLED"
	// PollOutcomeFailed indicates the gateway reported a definite failure
	PollOutcomeFailed PollOutcome = "FAILED"
	// PollOutcomeTimeout indicates the gateway reported the prompt expired
	PollOutcomeTimeout PollOutcome = "TIMEOUT"
	// PollOutcomeUnrecognized is any status the client does not understand;
	// treated like pending and consumes one attempt
	PollOutcomeUnrecognized PollOutcome = "UNRECOGNIZED"
)

// String returns the string representation of PollOutcome
func (o PollOutcome) String() string {
	return string(o)
}

// IsSuccess returns true for outcomes that mean the account was credited
func (o PollOutcome) IsSuccess() bool {
	return o == PollOutcomeCredited || o == PollOutcomeAlreadyCredited
}

// IsTerminal returns true when no further polling can change the outcome
func (o PollOutcome) IsTerminal() bool {
	switch o {
	case PollOutcomeCredited, PollOutcomeAlreadyCredited, PollOutcomeCancelled,
		PollOutcomeFailed, PollOutcomeTimeout:
		return true
	default:
		return false
	}
}

// ParsePollOutcome maps a gateway status string to a PollOutcome.
// Unknown statuses map to PollOutcomeUnrecognized so a new gateway status
// degrades to one consumed attempt rather than a hard failure.
func ParsePollOutcome(status string) PollOutcome {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "CREDITED", "PAID", "SUCCESS", "COMPLETED":
		return PollOutcomeCredited
	case "ALREADY_CREDITED", "ALREADY_PAID", "DUPLICATE":
		return PollOutcomeAlreadyCredited
	case "PENDING", "PROCESSING", "AWAITING":
		return PollOutcomePending
	case "CANCELLED", "CANCELED", "ABORTED", "REJECTED":
		return PollOutcomeCancelled
	case "FAILED", "DECLINED", "INSUFFICIENT_FUNDS":
		return PollOutcomeFailed
	case "TIMEOUT", "EXPIRED":
		return PollOutcomeTimeout
	default:
		return PollOutcomeUnrecognized
	}
}
