package bunstore_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/jozzer182/Yuva"
	"github.com/jozzer182/Yuva/resource"
	bunstore "github.com/jozzer182/Yuva/store/bun"
)

// setupTestStore opens an in-memory SQLite database with a users and a
// jobs table.
func setupTestStore(t *testing.T) *bunstore.Store {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, stmt := range []string{
		`CREATE TABLE users (id TEXT PRIMARY KEY, name TEXT)`,
		`CREATE TABLE jobs (id INTEGER PRIMARY KEY AUTOINCREMENT, "clientId" TEXT NOT NULL)`,
		`INSERT INTO users (id, name) VALUES ('u1', 'Ana'), ('u2', 'Bo')`,
		`INSERT INTO jobs ("clientId") VALUES ('u1'), ('u1'), ('u2')`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}

	return bunstore.New(db, bunstore.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

var (
	users = resource.Collection{Name: "users", OwnerField: resource.DocumentKey}
	jobs  = resource.Collection{Name: "jobs", OwnerField: "clientId"}
)

func TestPing(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestFind(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	handles, err := s.Find(ctx, jobs, "u1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(handles) != 2 {
		t.Fatalf("handles = %d, want 2", len(handles))
	}
	if handles[0].Key != "1" || handles[1].Key != "2" {
		t.Errorf("keys = %q, %q, want 1, 2", handles[0].Key, handles[1].Key)
	}
	for _, h := range handles {
		if h.Collection != "jobs" {
			t.Errorf("collection = %q, want jobs", h.Collection)
		}
	}

	profile, err := s.Find(ctx, users, "u2")
	if err != nil {
		t.Fatalf("Find users: %v", err)
	}
	if len(profile) != 1 || profile[0].Key != "u2" {
		t.Errorf("profile = %+v, want [u2]", profile)
	}

	none, err := s.Find(ctx, jobs, "nobody")
	if err != nil {
		t.Fatalf("Find nobody: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("handles = %d, want 0", len(none))
	}
}

func TestDeleteBatch(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	handles, err := s.Find(ctx, jobs, "u1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if err := s.DeleteBatch(ctx, jobs, handles); err != nil {
		t.Fatalf("DeleteBatch: %v", err)
	}

	after, err := s.Find(ctx, jobs, "u1")
	if err != nil {
		t.Fatalf("Find after delete: %v", err)
	}
	if len(after) != 0 {
		t.Errorf("handles after delete = %d, want 0", len(after))
	}
	others, err := s.Find(ctx, jobs, "u2")
	if err != nil {
		t.Fatalf("Find u2: %v", err)
	}
	if len(others) != 1 {
		t.Errorf("u2 jobs = %d, want 1", len(others))
	}
}

func TestDeleteBatch_Empty(t *testing.T) {
	s := setupTestStore(t)
	if err := s.DeleteBatch(context.Background(), jobs, nil); err != nil {
		t.Fatalf("DeleteBatch(nil): %v", err)
	}
}

func TestDeleteBatch_RollsBackWhenIncomplete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.DeleteBatch(ctx, users, []resource.Handle{
		{Collection: "users", Key: "u1"},
		{Collection: "users", Key: "missing"},
	})
	if !errors.Is(err, yuva.ErrBatchIncomplete) {
		t.Fatalf("err = %v, want %v", err, yuva.ErrBatchIncomplete)
	}

	handles, err := s.Find(ctx, users, "u1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(handles) != 1 {
		t.Error("u1 deleted despite rollback")
	}
}

func TestFind_MissingTable(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.Find(context.Background(), resource.Collection{Name: "notifications", OwnerField: "userId"}, "u1")
	if err == nil {
		t.Fatal("expected error for missing table")
	}
}
