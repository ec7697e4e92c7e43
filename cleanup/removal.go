package cleanup

import (
	"context"

	"github.com/jozzer182/Yuva/identity"
)

// RemovalStepName is the plan name of the terminal identity removal step.
const RemovalStepName = "identity"

// RemovalStep is the terminal step of every plan: it removes the identity
// from the provider. Unlike collection steps, its error is fatal to the run.
type RemovalStep struct {
	provider identity.Provider
	progress string
}

// NewRemovalStep creates the terminal step.
func NewRemovalStep(p identity.Provider, progress string) *RemovalStep {
	return &RemovalStep{provider: p, progress: progress}
}

// Name returns RemovalStepName.
func (r *RemovalStep) Name() string { return RemovalStepName }

// Progress is the message shown while the identity is removed.
func (r *RemovalStep) Progress() string { return r.progress }

// Execute removes the identity behind s.
func (r *RemovalStep) Execute(ctx context.Context, s *identity.Session) error {
	return r.provider.Remove(ctx, s)
}
