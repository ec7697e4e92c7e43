package ext

import (
	"context"
	"log/slog"
	"time"

	"github.com/jozzer182/Yuva/cleanup"
	"github.com/jozzer182/Yuva/id"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time.
type deletionStartedEntry struct {
	name string
	hook DeletionStarted
}

type stepFinishedEntry struct {
	name string
	hook StepFinished
}

type identityRemovedEntry struct {
	name string
	hook IdentityRemoved
}

type reauthEntry struct {
	name string
	hook ReauthenticationRequired
}

type deletionFailedEntry struct {
	name string
	hook DeletionFailed
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// iterate only over extensions that implement the relevant hook.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	deletionStarted []deletionStartedEntry
	stepFinished    []stepFinishedEntry
	identityRemoved []identityRemovedEntry
	reauth          []reauthEntry
	deletionFailed  []deletionFailedEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(DeletionStarted); ok {
		r.deletionStarted = append(r.deletionStarted, deletionStartedEntry{name, h})
	}
	if h, ok := e.(StepFinished); ok {
		r.stepFinished = append(r.stepFinished, stepFinishedEntry{name, h})
	}
	if h, ok := e.(IdentityRemoved); ok {
		r.identityRemoved = append(r.identityRemoved, identityRemovedEntry{name, h})
	}
	if h, ok := e.(ReauthenticationRequired); ok {
		r.reauth = append(r.reauth, reauthEntry{name, h})
	}
	if h, ok := e.(DeletionFailed); ok {
		r.deletionFailed = append(r.deletionFailed, deletionFailedEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// EmitDeletionStarted notifies all extensions that implement DeletionStarted.
func (r *Registry) EmitDeletionStarted(ctx context.Context, runID id.RunID, subject string) {
	for _, e := range r.deletionStarted {
		if err := e.hook.OnDeletionStarted(ctx, runID, subject); err != nil {
			r.logHookError("OnDeletionStarted", e.name, err)
		}
	}
}

// EmitStepFinished notifies all extensions that implement StepFinished.
func (r *Registry) EmitStepFinished(ctx context.Context, runID id.RunID, res cleanup.Result) {
	for _, e := range r.stepFinished {
		if err := e.hook.OnStepFinished(ctx, runID, res); err != nil {
			r.logHookError("OnStepFinished", e.name, err)
		}
	}
}

// EmitIdentityRemoved notifies all extensions that implement IdentityRemoved.
func (r *Registry) EmitIdentityRemoved(ctx context.Context, runID id.RunID, subject string, elapsed time.Duration) {
	for _, e := range r.identityRemoved {
		if err := e.hook.OnIdentityRemoved(ctx, runID, subject, elapsed); err != nil {
			r.logHookError("OnIdentityRemoved", e.name, err)
		}
	}
}

// EmitReauthenticationRequired notifies all extensions that implement
// ReauthenticationRequired.
func (r *Registry) EmitReauthenticationRequired(ctx context.Context, runID id.RunID) {
	for _, e := range r.reauth {
		if err := e.hook.OnReauthenticationRequired(ctx, runID); err != nil {
			r.logHookError("OnReauthenticationRequired", e.name, err)
		}
	}
}

// EmitDeletionFailed notifies all extensions that implement DeletionFailed.
func (r *Registry) EmitDeletionFailed(ctx context.Context, runID id.RunID, runErr error) {
	for _, e := range r.deletionFailed {
		if err := e.hook.OnDeletionFailed(ctx, runID, runErr); err != nil {
			r.logHookError("OnDeletionFailed", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated and never affect the run outcome.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
