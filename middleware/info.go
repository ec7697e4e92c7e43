package middleware

import (
	"context"
	"log/slog"
)

type infoKey struct{}

// Annotate returns middleware that stores the StepInfo in the context so
// stores and providers can tag their own logs with the run and step.
func Annotate() Middleware {
	return func(ctx context.Context, info StepInfo, next Handler) error {
		return next(context.WithValue(ctx, infoKey{}, info))
	}
}

// InfoFrom returns the StepInfo stored by Annotate.
func InfoFrom(ctx context.Context) (StepInfo, bool) {
	info, ok := ctx.Value(infoKey{}).(StepInfo)
	return info, ok
}

// RunAttr returns the run ID of the annotated step as a log attribute, or
// an empty attribute (dropped by slog handlers) outside a step.
func RunAttr(ctx context.Context) slog.Attr {
	info, ok := InfoFrom(ctx)
	if !ok {
		return slog.Attr{}
	}
	return slog.String("run_id", info.RunID.String())
}
