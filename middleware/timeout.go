package middleware

import (
	"context"
	"log/slog"
)

// Timeout returns middleware that enforces a per-step deadline.
// If the step has a non-zero Timeout, a context.WithTimeout wraps the
// handler call. When the deadline passes the context is cancelled and the
// handler should return context.DeadlineExceeded.
func Timeout(logger *slog.Logger) Middleware {
	return func(ctx context.Context, info StepInfo, next Handler) error {
		if info.Timeout <= 0 {
			return next(ctx)
		}
		logger.Debug("step timeout set",
			slog.String("run_id", info.RunID.String()),
			slog.String("step", info.Name),
			slog.Duration("timeout", info.Timeout),
		)
		ctx, cancel := context.WithTimeout(ctx, info.Timeout)
		defer cancel()

		return next(ctx)
	}
}
