package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jozzer182/Yuva/cleanup"
	"github.com/jozzer182/Yuva/ext"
	"github.com/jozzer182/Yuva/id"
)

// Compile-time interface checks.
var (
	_ ext.Extension                = (*MetricsExtension)(nil)
	_ ext.DeletionStarted          = (*MetricsExtension)(nil)
	_ ext.StepFinished             = (*MetricsExtension)(nil)
	_ ext.IdentityRemoved          = (*MetricsExtension)(nil)
	_ ext.ReauthenticationRequired = (*MetricsExtension)(nil)
	_ ext.DeletionFailed           = (*MetricsExtension)(nil)
)

// meterName is the instrumentation scope name for yuva metrics.
const meterName = "github.com/jozzer182/Yuva/observability"

// MetricsExtension records system-wide deletion counters. Register it as an
// extension to track run outcomes, step statuses and deleted record counts.
// Subject identifiers are never used as attributes.
type MetricsExtension struct {
	DeletionStarted   metric.Int64Counter
	DeletionSucceeded metric.Int64Counter
	DeletionFailed    metric.Int64Counter
	ReauthRequired    metric.Int64Counter
	StepCompleted     metric.Int64Counter
	StepSkipped       metric.Int64Counter
	StepFailed        metric.Int64Counter
	RecordsDeleted    metric.Int64Counter
	RunDuration       metric.Float64Histogram
}

// NewMetricsExtension creates a MetricsExtension on the global MeterProvider.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the provided meter.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	return &MetricsExtension{
		DeletionStarted:   counter(meter, "yuva.deletion.started", "Deletion runs started"),
		DeletionSucceeded: counter(meter, "yuva.deletion.succeeded", "Deletion runs that removed the identity"),
		DeletionFailed:    counter(meter, "yuva.deletion.failed", "Deletion runs whose identity removal failed"),
		ReauthRequired:    counter(meter, "yuva.deletion.reauth_required", "Deletion runs refused for a stale sign-in"),
		StepCompleted:     counter(meter, "yuva.step.completed", "Cleanup steps that deleted records"),
		StepSkipped:       counter(meter, "yuva.step.skipped", "Cleanup steps that matched nothing"),
		StepFailed:        counter(meter, "yuva.step.failed", "Cleanup steps whose failure was tolerated"),
		RecordsDeleted:    counter(meter, "yuva.records.deleted", "Records deleted by cleanup steps"),
		RunDuration:       histogram(meter, "yuva.deletion.duration", "Duration of successful deletion runs in seconds"),
	}
}

func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	_ = err // noop fallback guaranteed by OTel API contract
	return c
}

func histogram(meter metric.Meter, name, desc string) metric.Float64Histogram {
	h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
	_ = err // noop fallback guaranteed by OTel API contract
	return h
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnDeletionStarted implements ext.DeletionStarted.
func (m *MetricsExtension) OnDeletionStarted(ctx context.Context, _ id.RunID, _ string) error {
	m.DeletionStarted.Add(ctx, 1)
	return nil
}

// OnStepFinished implements ext.StepFinished.
func (m *MetricsExtension) OnStepFinished(ctx context.Context, _ id.RunID, res cleanup.Result) error {
	attrs := metric.WithAttributes(attribute.String("collection", res.Collection))
	switch res.Status {
	case cleanup.StatusCompleted:
		m.StepCompleted.Add(ctx, 1, attrs)
		m.RecordsDeleted.Add(ctx, int64(res.Deleted), attrs)
	case cleanup.StatusSkipped:
		m.StepSkipped.Add(ctx, 1, attrs)
	case cleanup.StatusFailedTolerated:
		m.StepFailed.Add(ctx, 1, attrs)
	}
	return nil
}

// OnIdentityRemoved implements ext.IdentityRemoved.
func (m *MetricsExtension) OnIdentityRemoved(ctx context.Context, _ id.RunID, _ string, elapsed time.Duration) error {
	m.DeletionSucceeded.Add(ctx, 1)
	m.RunDuration.Record(ctx, elapsed.Seconds())
	return nil
}

// OnReauthenticationRequired implements ext.ReauthenticationRequired.
func (m *MetricsExtension) OnReauthenticationRequired(ctx context.Context, _ id.RunID) error {
	m.ReauthRequired.Add(ctx, 1)
	return nil
}

// OnDeletionFailed implements ext.DeletionFailed.
func (m *MetricsExtension) OnDeletionFailed(ctx context.Context, _ id.RunID, _ error) error {
	m.DeletionFailed.Add(ctx, 1)
	return nil
}
