package middleware

// Report is the domain result of one step. The step handler fills it in
// and observing middleware read it once next returns: metrics, spans and
// logs then tell a skipped step from a completed one and a tolerated
// failure from a failed removal.
type Report struct {
	// Status is the cleanup result tag of a cleanup step ("completed",
	// "skipped", "failed_tolerated") or the run outcome decided by the
	// removal step ("success", "requires_reauthentication", "failed").
	Status string
	// Deleted counts the records a cleanup step removed.
	Deleted int
}

// Fallback statuses used when a step ran without a Report.
const (
	statusFailed    = "failed"
	statusCompleted = "completed"
)

func (i StepInfo) status(err error) string {
	if i.Report != nil && i.Report.Status != "" {
		return i.Report.Status
	}
	if err != nil {
		return statusFailed
	}
	return statusCompleted
}

func (i StepInfo) deleted() int {
	if i.Report == nil {
		return 0
	}
	return i.Report.Deleted
}
