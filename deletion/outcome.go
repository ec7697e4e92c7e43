package deletion

import (
	"time"

	"github.com/jozzer182/Yuva/cleanup"
	"github.com/jozzer182/Yuva/id"
)

// Kind is the terminal classification of a deletion run.
type Kind string

const (
	// KindSuccess means the identity was removed.
	KindSuccess Kind = "success"
	// KindRequiresReauthentication means the provider refused removal
	// because the sign-in is too old.
	KindRequiresReauthentication Kind = "requires_reauthentication"
	// KindFailed means removal failed for any other reason.
	KindFailed Kind = "failed"
)

// Outcome is the result of one run.
type Outcome struct {
	RunID   id.RunID
	Kind    Kind
	Cause   error
	Results []cleanup.Result
	Elapsed time.Duration
}

// Succeeded reports whether the identity was removed.
func (o Outcome) Succeeded() bool { return o.Kind == KindSuccess }

// Err returns the cause of a non-successful outcome.
func (o Outcome) Err() error {
	if o.Succeeded() {
		return nil
	}
	return o.Cause
}

// Deleted returns the number of records deleted across all steps.
func (o Outcome) Deleted() int {
	n := 0
	for _, r := range o.Results {
		n += r.Deleted
	}
	return n
}

// Failures returns the tolerated step failures.
func (o Outcome) Failures() []cleanup.Result {
	var out []cleanup.Result
	for _, r := range o.Results {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}
