package cleanup

import "time"

// Status is the tagged outcome of one cleanup step.
type Status string

const (
	// StatusCompleted means matched records were deleted.
	StatusCompleted Status = "completed"
	// StatusSkipped means no record matched.
	StatusSkipped Status = "skipped"
	// StatusFailedTolerated means the step failed and the failure was absorbed.
	StatusFailedTolerated Status = "failed_tolerated"
)

// Result records what one step did.
type Result struct {
	Step       string        `json:"step"`
	Collection string        `json:"collection,omitempty"`
	Status     Status        `json:"status"`
	Deleted    int           `json:"deleted"`
	Cause      error         `json:"-"`
	Attempts   int           `json:"attempts"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Completed builds a result for a step that deleted n records.
func Completed(step string, n int) Result {
	return Result{Step: step, Status: StatusCompleted, Deleted: n}
}

// Skipped builds a result for a step that matched nothing.
func Skipped(step string) Result {
	return Result{Step: step, Status: StatusSkipped}
}

// FailedTolerated builds a result for a step that failed with cause.
func FailedTolerated(step string, cause error) Result {
	return Result{Step: step, Status: StatusFailedTolerated, Cause: cause}
}

// Failed reports whether the step failed.
func (r Result) Failed() bool { return r.Status == StatusFailedTolerated }

// Err returns the failure cause, or nil when the step did not fail.
func (r Result) Err() error {
	if !r.Failed() {
		return nil
	}
	return r.Cause
}
