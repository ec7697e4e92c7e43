package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jozzer182/Yuva/id"
	"github.com/jozzer182/Yuva/middleware"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChain_ExecutionOrder(t *testing.T) {
	var order []string

	mw1 := func(ctx context.Context, _ middleware.StepInfo, next middleware.Handler) error {
		order = append(order, "mw1-before")
		err := next(ctx)
		order = append(order, "mw1-after")
		return err
	}

	mw2 := func(ctx context.Context, _ middleware.StepInfo, next middleware.Handler) error {
		order = append(order, "mw2-before")
		err := next(ctx)
		order = append(order, "mw2-after")
		return err
	}

	chain := middleware.Chain(mw1, mw2)
	info := middleware.StepInfo{Name: "jobs", RunID: id.NewRunID()}
	handler := func(_ context.Context) error {
		order = append(order, "handler")
		return nil
	}

	err := chain(context.Background(), info, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"mw1-before", "mw2-before", "handler", "mw2-after", "mw1-after"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(order), order)
	}
	for i, want := range expected {
		if order[i] != want {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want)
		}
	}
}

func TestChain_Empty(t *testing.T) {
	chain := middleware.Chain()
	called := false
	handler := func(_ context.Context) error {
		called = true
		return nil
	}

	err := chain(context.Background(), middleware.StepInfo{RunID: id.NewRunID()}, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("handler not called with empty chain")
	}
}

func TestChain_PropagatesError(t *testing.T) {
	mw := func(ctx context.Context, _ middleware.StepInfo, next middleware.Handler) error {
		return next(ctx)
	}
	chain := middleware.Chain(mw)
	want := errors.New("handler error")

	err := chain(context.Background(), middleware.StepInfo{RunID: id.NewRunID()}, func(_ context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestRecover_CatchesPanic(t *testing.T) {
	mw := middleware.Recover(silentLogger())
	info := middleware.StepInfo{Name: "conversations", RunID: id.NewRunID()}

	err := mw(context.Background(), info, func(_ context.Context) error {
		panic("test panic")
	})
	if err == nil {
		t.Fatal("expected error from panic recovery")
	}
	if got := err.Error(); got != "panic in step conversations: test panic" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestRecover_PassesThrough(t *testing.T) {
	mw := middleware.Recover(silentLogger())

	called := false
	err := mw(context.Background(), middleware.StepInfo{Name: "users"}, func(_ context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("handler not called")
	}
}

func TestTimeout_SetsDeadline(t *testing.T) {
	mw := middleware.Timeout(silentLogger())
	info := middleware.StepInfo{Name: "jobs", Timeout: time.Minute}

	err := mw(context.Background(), info, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected deadline on step context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTimeout_NoDeadlineWhenZero(t *testing.T) {
	mw := middleware.Timeout(silentLogger())

	_ = mw(context.Background(), middleware.StepInfo{Name: "jobs"}, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			t.Error("unexpected deadline")
		}
		return nil
	})
}

func TestTimeout_ExpiryIsReported(t *testing.T) {
	mw := middleware.Timeout(silentLogger())
	info := middleware.StepInfo{Name: "jobs", Timeout: 5 * time.Millisecond}

	err := mw(context.Background(), info, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestLogging_Success(t *testing.T) {
	mw := middleware.Logging(silentLogger())
	info := middleware.StepInfo{Name: "jobs", RunID: id.NewRunID(), Kind: middleware.KindCleanup}

	called := false
	err := mw(context.Background(), info, func(_ context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("handler not called")
	}
}

func TestLogging_Error(t *testing.T) {
	mw := middleware.Logging(silentLogger())
	want := errors.New("fail")

	for _, kind := range []middleware.Kind{middleware.KindCleanup, middleware.KindRemoval} {
		info := middleware.StepInfo{Name: "x", RunID: id.NewRunID(), Kind: kind}
		err := mw(context.Background(), info, func(_ context.Context) error {
			return want
		})
		if !errors.Is(err, want) {
			t.Fatalf("%s: expected %v, got %v", kind, want, err)
		}
	}
}

func TestLogging_ReportsStepStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	_, err := runStep(middleware.Logging(logger), stepRun{name: "conversations", kind: middleware.KindCleanup, status: "skipped"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = runStep(middleware.Logging(logger), stepRun{
		name: "identity", kind: middleware.KindRemoval, status: "requires_reauthentication", err: errors.New("stale"),
	})
	if err == nil {
		t.Fatal("expected removal error")
	}

	var entries []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var e map[string]any
		if err := json.Unmarshal(line, &e); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %s", len(entries), buf.String())
	}
	if entries[0]["msg"] != "step finished" || entries[0]["status"] != "skipped" {
		t.Errorf("cleanup entry = %v, want step finished with status skipped", entries[0])
	}
	if entries[1]["level"] != "ERROR" || entries[1]["status"] != "requires_reauthentication" {
		t.Errorf("removal entry = %v, want ERROR with status requires_reauthentication", entries[1])
	}
}

func TestAnnotate_StoresInfo(t *testing.T) {
	mw := middleware.Annotate()
	info := middleware.StepInfo{Name: "notifications", RunID: id.NewRunID(), Kind: middleware.KindCleanup}

	err := mw(context.Background(), info, func(ctx context.Context) error {
		got, ok := middleware.InfoFrom(ctx)
		if !ok {
			t.Fatal("expected step info in context")
		}
		if got.Name != "notifications" || got.RunID != info.RunID {
			t.Errorf("info = %+v, want %+v", got, info)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := middleware.InfoFrom(context.Background()); ok {
		t.Error("expected no step info in bare context")
	}
}

func TestRunAttr(t *testing.T) {
	if attr := middleware.RunAttr(context.Background()); attr.Key != "" {
		t.Errorf("attr outside step = %v, want empty", attr)
	}

	runID := id.NewRunID()
	err := middleware.Annotate()(context.Background(), middleware.StepInfo{RunID: runID}, func(ctx context.Context) error {
		attr := middleware.RunAttr(ctx)
		if attr.Key != "run_id" || attr.Value.String() != runID.String() {
			t.Errorf("attr = %v, want run_id=%s", attr, runID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
