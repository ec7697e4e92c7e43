package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs step start and completion.
// Cleanup failures are tolerated and logged at Warn; a removal failure is
// logged at Error.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, info StepInfo, next Handler) error {
		logger.Debug("step started",
			slog.String("run_id", info.RunID.String()),
			slog.String("step", info.Name),
			slog.String("kind", string(info.Kind)),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		switch {
		case err == nil:
			logger.Info("step finished",
				slog.String("run_id", info.RunID.String()),
				slog.String("step", info.Name),
				slog.String("status", info.status(nil)),
				slog.Int("deleted", info.deleted()),
				slog.Duration("elapsed", elapsed),
			)
		case info.Kind == KindRemoval:
			logger.Error("identity removal failed",
				slog.String("run_id", info.RunID.String()),
				slog.String("status", info.status(err)),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		default:
			logger.Warn("cleanup step failed",
				slog.String("run_id", info.RunID.String()),
				slog.String("step", info.Name),
				slog.String("collection", info.Collection),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		}

		return err
	}
}
