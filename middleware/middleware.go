// Package middleware provides composable middleware for deletion steps.
// Middleware wraps step execution synchronously and can modify it
// (recover from panics, bound it in time, log, add tracing, etc.).
package middleware

import (
	"context"
	"time"

	"github.com/jozzer182/Yuva/id"
)

// Kind distinguishes tolerated cleanup steps from the terminal removal.
type Kind string

const (
	// KindCleanup is a tolerated collection cleanup step.
	KindCleanup Kind = "cleanup"
	// KindRemoval is the terminal identity removal step.
	KindRemoval Kind = "removal"
)

// StepInfo describes the step being executed.
type StepInfo struct {
	RunID      id.RunID
	Name       string
	Kind       Kind
	Collection string
	// Timeout bounds the step when non-zero.
	Timeout time.Duration
	// Report receives the step's result; nil when the caller does not
	// track one.
	Report *Report
}

// Handler is the terminal function that executes the step.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the step being executed, and the
// next handler to call. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, info StepInfo, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, timeout) executes as:
//
//	logging → recover → timeout → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, info StepInfo, next Handler) error {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, info, prev)
			}
		}
		return h(ctx)
	}
}
