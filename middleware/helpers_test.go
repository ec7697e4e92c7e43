package middleware_test

import (
	"context"

	"github.com/jozzer182/Yuva/id"
	mw "github.com/jozzer182/Yuva/middleware"
)

func newTestStep() mw.StepInfo {
	return mw.StepInfo{
		RunID:      id.NewRunID(),
		Name:       "jobs",
		Kind:       mw.KindCleanup,
		Collection: "jobs",
	}
}

// stepRun describes one step execution and what its handler reports.
type stepRun struct {
	name    string
	kind    mw.Kind
	status  string
	deleted int
	err     error
}

// runStep executes m around a handler that fills the step's Report the
// way the orchestrator does.
func runStep(m mw.Middleware, r stepRun) (mw.StepInfo, error) {
	report := &mw.Report{}
	info := mw.StepInfo{RunID: id.NewRunID(), Name: r.name, Kind: r.kind, Report: report}
	if r.kind == mw.KindCleanup {
		info.Collection = r.name
	}
	err := m(context.Background(), info, func(context.Context) error {
		report.Status, report.Deleted = r.status, r.deleted
		return r.err
	})
	return info, err
}
