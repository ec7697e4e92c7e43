package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for yuva tracing.
const tracerName = "github.com/jozzer182/Yuva"

// Tracing returns middleware that wraps step execution in an OpenTelemetry span.
// If no TracerProvider is configured globally, the default noop tracer is used
// and this middleware becomes a pass-through.
//
// Span attributes: yuva.run.id, yuva.step.name, yuva.step.kind,
// yuva.collection, and once the step returns yuva.step.status and
// yuva.step.deleted. The subject identifier is never recorded.
func Tracing() Middleware {
	return TracingWithTracer(otel.Tracer(tracerName))
}

// TracingWithTracer returns tracing middleware using the provided tracer.
//
// A tolerated cleanup failure leaves the span status unset with an error
// event: the run carries on. Only a removal that did not succeed marks the
// span as an error.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, info StepInfo, next Handler) error {
		ctx, span := tracer.Start(ctx, "yuva.step.execute",
			trace.WithAttributes(
				attribute.String("yuva.run.id", info.RunID.String()),
				attribute.String("yuva.step.name", info.Name),
				attribute.String("yuva.step.kind", string(info.Kind)),
				attribute.String("yuva.collection", info.Collection),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		status := info.status(err)
		span.SetAttributes(
			attribute.String("yuva.step.status", status),
			attribute.Int("yuva.step.deleted", info.deleted()),
		)

		switch {
		case err == nil:
			span.SetStatus(codes.Ok, "")
		case info.Kind == KindCleanup:
			span.RecordError(err)
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, status+": "+err.Error())
		}

		return err
	}
}
