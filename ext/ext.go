// Package ext defines the extension system for Yuva.
// Extensions are notified of deletion lifecycle events (run started, step
// finished, identity removed, etc.) and can react to them.
//
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
package ext

import (
	"context"
	"time"

	"github.com/jozzer182/Yuva/cleanup"
	"github.com/jozzer182/Yuva/id"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// ──────────────────────────────────────────────────
// Deletion run hooks
// ──────────────────────────────────────────────────

// DeletionStarted is called before the first step of a run.
type DeletionStarted interface {
	OnDeletionStarted(ctx context.Context, runID id.RunID, subject string) error
}

// StepFinished is called after every tolerated cleanup step, whatever its status.
type StepFinished interface {
	OnStepFinished(ctx context.Context, runID id.RunID, res cleanup.Result) error
}

// IdentityRemoved is called when the identity was removed and the run succeeded.
type IdentityRemoved interface {
	OnIdentityRemoved(ctx context.Context, runID id.RunID, subject string, elapsed time.Duration) error
}

// ReauthenticationRequired is called when the provider refused removal
// because the sign-in was too old.
type ReauthenticationRequired interface {
	OnReauthenticationRequired(ctx context.Context, runID id.RunID) error
}

// DeletionFailed is called when identity removal failed for any other reason.
type DeletionFailed interface {
	OnDeletionFailed(ctx context.Context, runID id.RunID, err error) error
}
