// Package engine wires the Yuva subsystems together. It creates the
// extension registry, the middleware chain, the cleanup plan and the
// orchestrator, and hands out workflow machines bound to them.
//
// This package exists to break the import cycle: the deletion package
// defines the Emitter interface that ext.Registry implements, and ext
// depends on cleanup results. The engine sits above all subsystem
// packages and below the application layer.
package engine

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jozzer182/Yuva"
	"github.com/jozzer182/Yuva/backoff"
	"github.com/jozzer182/Yuva/cleanup"
	"github.com/jozzer182/Yuva/deletion"
	"github.com/jozzer182/Yuva/ext"
	"github.com/jozzer182/Yuva/flow"
	"github.com/jozzer182/Yuva/identity"
	mw "github.com/jozzer182/Yuva/middleware"
	"github.com/jozzer182/Yuva/observability"
	"github.com/jozzer182/Yuva/resource"
)

// Engine holds a wired orchestrator and the collaborators a workflow
// machine needs.
type Engine struct {
	config       yuva.Config
	store        resource.Store
	provider     identity.Provider
	targets      []cleanup.Target
	extensions   *ext.Registry
	mws          []mw.Middleware
	bo           backoff.Strategy
	logger       *slog.Logger
	plan         *cleanup.Plan
	orchestrator *deletion.Orchestrator

	// OpenTelemetry providers (optional; nil means use global).
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	pendingExts []ext.Extension
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the engine configuration.
func WithConfig(cfg yuva.Config) Option {
	return func(eng *Engine) { eng.config = cfg }
}

// WithLogger sets the logger for the engine and everything it builds.
func WithLogger(l *slog.Logger) Option {
	return func(eng *Engine) { eng.logger = l }
}

// WithCollections sets the ordered collections to clean. If not set,
// cleanup.DefaultCollections() is used.
func WithCollections(targets ...cleanup.Target) Option {
	return func(eng *Engine) { eng.targets = append(eng.targets, targets...) }
}

// WithExtension registers an extension with the engine.
func WithExtension(e ext.Extension) Option {
	return func(eng *Engine) { eng.pendingExts = append(eng.pendingExts, e) }
}

// WithMiddleware adds middleware to the engine's chain, inside the
// built-in tracing, metrics and logging middleware.
func WithMiddleware(m mw.Middleware) Option {
	return func(eng *Engine) { eng.mws = append(eng.mws, m) }
}

// WithBackoff sets the delay between retries of a cleanup step.
// If not set, backoff.DefaultStrategy() (exponential with jitter) is used.
func WithBackoff(b backoff.Strategy) Option {
	return func(eng *Engine) { eng.bo = b }
}

// WithTracerProvider sets a custom OTel TracerProvider for the engine.
// If not set, the global otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(eng *Engine) { eng.tracerProvider = tp }
}

// WithMeterProvider sets a custom OTel MeterProvider for the engine.
// When set, both the metrics middleware and the observability extension
// use this provider instead of the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(eng *Engine) { eng.meterProvider = mp }
}

// New creates an Engine deleting records from store and identities from
// provider.
func New(store resource.Store, provider identity.Provider, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, yuva.ErrNoStore
	}
	if provider == nil {
		return nil, yuva.ErrNoIdentityProvider
	}

	eng := &Engine{
		config:   yuva.DefaultConfig(),
		store:    store,
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.bo == nil {
		eng.bo = backoff.DefaultStrategy()
	}
	if len(eng.targets) == 0 {
		eng.targets = cleanup.DefaultCollections()
	}

	plan, err := cleanup.Build(store, provider, eng.targets,
		cleanup.WithAttempts(eng.config.StepAttempts),
		cleanup.WithBackoff(eng.bo),
		cleanup.WithStepLogger(eng.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("yuva: build plan: %w", err)
	}
	eng.plan = plan

	eng.extensions = ext.NewRegistry(eng.logger)
	for _, e := range eng.pendingExts {
		eng.extensions.Register(e)
	}

	// Build tracing middleware (custom provider or global).
	var tracingMw mw.Middleware
	if eng.tracerProvider != nil {
		tracingMw = mw.TracingWithTracer(eng.tracerProvider.Tracer("github.com/jozzer182/Yuva"))
	} else {
		tracingMw = mw.Tracing()
	}

	// Build metrics middleware and the observability extension.
	var (
		metricsMw mw.Middleware
		obsExt    *observability.MetricsExtension
	)
	if eng.meterProvider != nil {
		metricsMw = mw.MetricsWithMeter(eng.meterProvider.Meter("github.com/jozzer182/Yuva"))
		obsExt = observability.NewMetricsExtensionWithMeter(eng.meterProvider.Meter("github.com/jozzer182/Yuva/observability"))
	} else {
		metricsMw = mw.Metrics()
		obsExt = observability.NewMetricsExtension()
	}
	eng.extensions.Register(obsExt)

	// Default stack: tracing → metrics → logging → annotate → custom.
	// The orchestrator adds timeout and recover innermost.
	allMws := []mw.Middleware{tracingMw, metricsMw, mw.Logging(eng.logger), mw.Annotate()}
	allMws = append(allMws, eng.mws...)

	eng.orchestrator = deletion.New(plan,
		deletion.WithMiddleware(allMws...),
		deletion.WithEmitter(eng.extensions),
		deletion.WithStepTimeout(eng.config.StepTimeout),
		deletion.WithRemovalTimeout(eng.config.RemovalTimeout),
		deletion.WithLogger(eng.logger),
	)
	return eng, nil
}

// NewFlow returns a workflow machine in the logged-out phase, bound to the
// engine's provider, orchestrator and confirmation phrase.
func (eng *Engine) NewFlow(opts ...flow.Option) *flow.Machine {
	base := []flow.Option{
		flow.WithGate(flow.NewGate(eng.config.ConfirmationPhrase)),
		flow.WithLogger(eng.logger),
	}
	return flow.NewMachine(eng.provider, eng.orchestrator, append(base, opts...)...)
}

// Orchestrator returns the wired orchestrator.
func (eng *Engine) Orchestrator() *deletion.Orchestrator { return eng.orchestrator }

// Plan returns the cleanup plan.
func (eng *Engine) Plan() *cleanup.Plan { return eng.plan }

// Targets returns the collections the plan cleans, in order.
func (eng *Engine) Targets() []cleanup.Target {
	return append([]cleanup.Target(nil), eng.targets...)
}

// Extensions returns the extension registry.
func (eng *Engine) Extensions() *ext.Registry { return eng.extensions }

// Config returns the engine configuration.
func (eng *Engine) Config() yuva.Config { return eng.config }
