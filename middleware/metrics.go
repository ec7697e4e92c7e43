package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for yuva metrics.
const meterName = "github.com/jozzer182/Yuva"

// Metrics returns middleware that records per-step metrics using the global
// OTel MeterProvider.
//
// Instruments, all with attributes step, kind, collection and status:
//   - yuva.step.duration (Float64Histogram): execution time in seconds
//   - yuva.step.executions (Int64Counter): executions per step status
//   - yuva.step.records (Int64Counter): records deleted by cleanup steps
//
// status is the step's Report status, e.g. "skipped" or "failed_tolerated"
// for cleanup steps and "requires_reauthentication" for the removal.
func Metrics() Middleware {
	return MetricsWithMeter(otel.Meter(meterName))
}

// MetricsWithMeter returns metrics middleware using the provided meter.
func MetricsWithMeter(meter metric.Meter) Middleware {
	duration, _ := meter.Float64Histogram( //nolint:errcheck // the OTel API returns a noop instrument on error
		"yuva.step.duration",
		metric.WithDescription("Duration of deletion step execution in seconds"),
		metric.WithUnit("s"),
	)
	executions, _ := meter.Int64Counter( //nolint:errcheck // see above
		"yuva.step.executions",
		metric.WithDescription("Deletion step executions by result status"),
		metric.WithUnit("{execution}"),
	)
	records, _ := meter.Int64Counter( //nolint:errcheck // see above
		"yuva.step.records",
		metric.WithDescription("Records deleted by cleanup steps"),
		metric.WithUnit("{record}"),
	)

	return func(ctx context.Context, info StepInfo, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		attrs := metric.WithAttributes(
			attribute.String("step", info.Name),
			attribute.String("kind", string(info.Kind)),
			attribute.String("collection", info.Collection),
			attribute.String("status", info.status(err)),
		)
		duration.Record(ctx, elapsed, attrs)
		executions.Add(ctx, 1, attrs)
		if n := info.deleted(); n > 0 {
			records.Add(ctx, int64(n), attrs)
		}

		return err
	}
}
