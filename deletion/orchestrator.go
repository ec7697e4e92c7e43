package deletion

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jozzer182/Yuva"
	"github.com/jozzer182/Yuva/cleanup"
	"github.com/jozzer182/Yuva/id"
	"github.com/jozzer182/Yuva/identity"
	"github.com/jozzer182/Yuva/middleware"
	"github.com/jozzer182/Yuva/resource"
)

// ProgressFunc receives a human-readable message before each step starts.
type ProgressFunc func(message string)

// Emitter receives run lifecycle events. ext.Registry satisfies it.
type Emitter interface {
	EmitDeletionStarted(ctx context.Context, runID id.RunID, subject string)
	EmitStepFinished(ctx context.Context, runID id.RunID, res cleanup.Result)
	EmitIdentityRemoved(ctx context.Context, runID id.RunID, subject string, elapsed time.Duration)
	EmitReauthenticationRequired(ctx context.Context, runID id.RunID)
	EmitDeletionFailed(ctx context.Context, runID id.RunID, err error)
}

// Orchestrator executes a cleanup plan.
type Orchestrator struct {
	plan           *cleanup.Plan
	chain          middleware.Middleware
	emitter        Emitter
	stepTimeout    time.Duration
	removalTimeout time.Duration
	logger         *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*orchestratorOpts)

type orchestratorOpts struct {
	middleware     []middleware.Middleware
	emitter        Emitter
	stepTimeout    time.Duration
	removalTimeout time.Duration
	logger         *slog.Logger
}

// WithMiddleware appends middleware wrapped around every step.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(o *orchestratorOpts) { o.middleware = append(o.middleware, mws...) }
}

// WithEmitter sets the lifecycle event receiver.
func WithEmitter(e Emitter) Option {
	return func(o *orchestratorOpts) { o.emitter = e }
}

// WithStepTimeout bounds each cleanup step. Zero disables the bound.
func WithStepTimeout(d time.Duration) Option {
	return func(o *orchestratorOpts) { o.stepTimeout = d }
}

// WithRemovalTimeout bounds identity removal. Zero disables the bound.
func WithRemovalTimeout(d time.Duration) Option {
	return func(o *orchestratorOpts) { o.removalTimeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *orchestratorOpts) { o.logger = l }
}

// New creates an Orchestrator for plan. Timeout and panic recovery are
// always the innermost middleware.
func New(plan *cleanup.Plan, opts ...Option) *Orchestrator {
	o := &orchestratorOpts{
		emitter: nopEmitter{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	mws := append(append([]middleware.Middleware(nil), o.middleware...),
		middleware.Timeout(o.logger),
		middleware.Recover(o.logger),
	)
	return &Orchestrator{
		plan:           plan,
		chain:          middleware.Chain(mws...),
		emitter:        o.emitter,
		stepTimeout:    o.stepTimeout,
		removalTimeout: o.removalTimeout,
		logger:         o.logger,
	}
}

// Plan returns the plan the orchestrator executes.
func (o *Orchestrator) Plan() *cleanup.Plan { return o.plan }

// Run deletes the subject's records and then its identity. The subject is
// read from the session once, before the first step.
func (o *Orchestrator) Run(ctx context.Context, s *identity.Session, progress ProgressFunc) Outcome {
	start := time.Now()
	out := Outcome{RunID: id.NewRunID()}
	if progress == nil {
		progress = func(string) {}
	}

	if s == nil || s.UID == "" {
		out.Kind = KindFailed
		out.Cause = yuva.ErrNotAuthenticated
		o.emitter.EmitDeletionFailed(ctx, out.RunID, out.Cause)
		return out
	}
	subject := s.UID

	o.logger.Info("deletion started",
		slog.String("run_id", out.RunID.String()),
		slog.Int("steps", o.plan.Len()),
	)
	o.emitter.EmitDeletionStarted(ctx, out.RunID, subject)

	for _, step := range o.plan.Steps() {
		progress(step.Progress())
		res := o.runStep(ctx, out.RunID, step, subject)
		out.Results = append(out.Results, res)
		o.emitter.EmitStepFinished(ctx, out.RunID, res)
	}

	removal := o.plan.Removal()
	progress(removal.Progress())
	err := o.runRemoval(ctx, out.RunID, removal, s)
	out.Elapsed = time.Since(start)

	out.Kind = classify(err)
	out.Cause = err
	switch out.Kind {
	case KindSuccess:
		o.emitter.EmitIdentityRemoved(ctx, out.RunID, subject, out.Elapsed)
	case KindRequiresReauthentication:
		o.emitter.EmitReauthenticationRequired(ctx, out.RunID)
	default:
		o.emitter.EmitDeletionFailed(ctx, out.RunID, err)
	}

	o.logger.Info("deletion finished",
		slog.String("run_id", out.RunID.String()),
		slog.String("outcome", string(out.Kind)),
		slog.Int("deleted", out.Deleted()),
		slog.Int("tolerated_failures", len(out.Failures())),
		slog.Duration("elapsed", out.Elapsed),
	)
	return out
}

// runStep never fails: errors surfacing from the middleware chain, such as
// a recovered panic, become a tolerated failure of the step.
func (o *Orchestrator) runStep(ctx context.Context, runID id.RunID, step cleanup.Step, subject string) cleanup.Result {
	report := &middleware.Report{}
	info := middleware.StepInfo{
		RunID:   runID,
		Name:    step.Name(),
		Kind:    middleware.KindCleanup,
		Timeout: o.stepTimeout,
		Report:  report,
	}
	if cs, ok := step.(interface{ Collection() resource.Collection }); ok {
		info.Collection = cs.Collection().Name
	}

	var (
		res cleanup.Result
		ran bool
	)
	err := o.chain(ctx, info, func(ctx context.Context) error {
		// Stands unless Execute returns, e.g. when it panics.
		report.Status = string(cleanup.StatusFailedTolerated)
		res = step.Execute(ctx, subject)
		ran = true
		report.Status, report.Deleted = string(res.Status), res.Deleted
		return res.Err()
	})

	switch {
	case err != nil && !res.Failed():
		res = cleanup.FailedTolerated(step.Name(), err)
		res.Collection = info.Collection
	case !ran:
		res = cleanup.Skipped(step.Name())
		res.Collection = info.Collection
	}
	if res.Step == "" {
		res.Step = step.Name()
	}
	return res
}

func (o *Orchestrator) runRemoval(ctx context.Context, runID id.RunID, removal *cleanup.RemovalStep, s *identity.Session) error {
	report := &middleware.Report{}
	info := middleware.StepInfo{
		RunID:   runID,
		Name:    removal.Name(),
		Kind:    middleware.KindRemoval,
		Timeout: o.removalTimeout,
		Report:  report,
	}
	return o.chain(ctx, info, func(ctx context.Context) error {
		report.Status = string(KindFailed)
		err := removal.Execute(ctx, s)
		report.Status = string(classify(err))
		return err
	})
}

// classify maps the removal error to the run outcome.
func classify(err error) Kind {
	switch {
	case err == nil:
		return KindSuccess
	case errors.Is(err, identity.ErrStaleCredential):
		return KindRequiresReauthentication
	default:
		return KindFailed
	}
}

type nopEmitter struct{}

func (nopEmitter) EmitDeletionStarted(context.Context, id.RunID, string)                  {}
func (nopEmitter) EmitStepFinished(context.Context, id.RunID, cleanup.Result)             {}
func (nopEmitter) EmitIdentityRemoved(context.Context, id.RunID, string, time.Duration) {}
func (nopEmitter) EmitReauthenticationRequired(context.Context, id.RunID)               {}
func (nopEmitter) EmitDeletionFailed(context.Context, id.RunID, error)                  {}
