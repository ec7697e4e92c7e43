package flow

// Phase is the workflow position. Exactly one phase is visible at a time.
type Phase int

const (
	// PhaseLoggedOut shows the login options.
	PhaseLoggedOut Phase = iota
	// PhaseAwaitingConfirmation shows the signed-in email and the
	// confirmation input.
	PhaseAwaitingConfirmation
	// PhaseProcessing shows live progress while a deletion run executes.
	PhaseProcessing
	// PhaseSucceeded is terminal.
	PhaseSucceeded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoggedOut:
		return "logged_out"
	case PhaseAwaitingConfirmation:
		return "awaiting_confirmation"
	case PhaseProcessing:
		return "processing"
	case PhaseSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}
