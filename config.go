package yuva

import "time"

// DefaultConfirmationPhrase is the literal the user must type to unlock deletion.
const DefaultConfirmationPhrase = "ELIMINAR"

// Config holds tunables for the deletion engine.
type Config struct {
	// ConfirmationPhrase is the literal matched case-insensitively by the
	// confirmation gate.
	ConfirmationPhrase string

	// StepTimeout bounds each cleanup step. Zero disables the bound.
	StepTimeout time.Duration

	// RemovalTimeout bounds the terminal identity removal. Zero disables the bound.
	RemovalTimeout time.Duration

	// StepAttempts is how many times a cleanup step tries its query and
	// batch delete before recording a tolerated failure. Values below 1
	// are treated as 1.
	StepAttempts int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfirmationPhrase: DefaultConfirmationPhrase,
		StepTimeout:        30 * time.Second,
		RemovalTimeout:     30 * time.Second,
		StepAttempts:       1,
	}
}
