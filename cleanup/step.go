package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jozzer182/Yuva/backoff"
	"github.com/jozzer182/Yuva/resource"
)

// Step is one tolerated unit of deletion work.
type Step interface {
	// Name identifies the step within a plan.
	Name() string

	// Progress is the human-readable message shown while the step runs.
	Progress() string

	// Execute deletes the subject's records. It never returns an error:
	// failures are reported as StatusFailedTolerated.
	Execute(ctx context.Context, subject string) Result
}

// CollectionStep deletes every record of one collection owned by a subject.
type CollectionStep struct {
	name       string
	progress   string
	collection resource.Collection
	store      resource.Store
	attempts   int
	backoff    backoff.Strategy
	logger     *slog.Logger
}

// StepOption configures a CollectionStep.
type StepOption func(*CollectionStep)

// WithAttempts sets how many times the query and batch delete are tried.
func WithAttempts(n int) StepOption {
	return func(s *CollectionStep) {
		if n < 1 {
			n = 1
		}
		s.attempts = n
	}
}

// WithBackoff sets the delay strategy between attempts.
func WithBackoff(b backoff.Strategy) StepOption {
	return func(s *CollectionStep) { s.backoff = b }
}

// WithStepLogger sets the logger used to report retries.
func WithStepLogger(l *slog.Logger) StepOption {
	return func(s *CollectionStep) { s.logger = l }
}

// NewCollectionStep creates a step named after the collection.
func NewCollectionStep(store resource.Store, c resource.Collection, progress string, opts ...StepOption) *CollectionStep {
	s := &CollectionStep{
		name:       c.Name,
		progress:   progress,
		collection: c,
		store:      store,
		attempts:   1,
		backoff:    backoff.DefaultStrategy(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Step.
func (s *CollectionStep) Name() string { return s.name }

// Progress implements Step.
func (s *CollectionStep) Progress() string { return s.progress }

// Collection returns the collection this step cleans.
func (s *CollectionStep) Collection() resource.Collection { return s.collection }

// Execute implements Step.
func (s *CollectionStep) Execute(ctx context.Context, subject string) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = FailedTolerated(s.name, fmt.Errorf("panic in step %s: %v", s.name, r))
		}
		res.Collection = s.collection.Name
		res.Elapsed = time.Since(start)
	}()

	var err error
	for attempt := 1; ; attempt++ {
		res, err = s.attempt(ctx, subject)
		res.Attempts = attempt
		if err == nil {
			return res
		}
		if attempt >= s.attempts || ctx.Err() != nil {
			break
		}
		s.logger.Debug("retrying cleanup step",
			slog.String("step", s.name),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		if waitErr := backoff.Wait(ctx, s.backoff, attempt); waitErr != nil {
			break
		}
	}

	failed := FailedTolerated(s.name, err)
	failed.Attempts = res.Attempts
	return failed
}

func (s *CollectionStep) attempt(ctx context.Context, subject string) (Result, error) {
	handles, err := s.store.Find(ctx, s.collection, subject)
	if err != nil {
		return Result{}, fmt.Errorf("find %s: %w", s.collection, err)
	}
	if len(handles) == 0 {
		return Skipped(s.name), nil
	}
	if err := s.store.DeleteBatch(ctx, s.collection, handles); err != nil {
		return Result{}, fmt.Errorf("delete %d records from %s: %w", len(handles), s.collection.Name, err)
	}
	return Completed(s.name, len(handles)), nil
}
