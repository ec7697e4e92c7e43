package deletion_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/jozzer182/Yuva/cleanup"
	"github.com/jozzer182/Yuva/identity"
	"github.com/jozzer182/Yuva/resource"
	"github.com/jozzer182/Yuva/store/memory"
)

var errUnavailable = errors.New("store unavailable")

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// journal records the order of every store and provider call.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(e string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// faultyStore wraps a memory store and fails queries of the listed
// collections.
type faultyStore struct {
	*memory.Store
	journal   *journal
	failFind  map[string]bool
	failWrite map[string]bool
}

func newFaultyStore(j *journal) *faultyStore {
	return &faultyStore{
		Store:     memory.New(),
		journal:   j,
		failFind:  map[string]bool{},
		failWrite: map[string]bool{},
	}
}

func (f *faultyStore) Find(ctx context.Context, c resource.Collection, subject string) ([]resource.Handle, error) {
	f.journal.add("find:" + c.Name)
	if f.failFind[c.Name] {
		return nil, errUnavailable
	}
	return f.Store.Find(ctx, c, subject)
}

func (f *faultyStore) DeleteBatch(ctx context.Context, c resource.Collection, hs []resource.Handle) error {
	f.journal.add("delete:" + c.Name)
	if f.failWrite[c.Name] {
		return errUnavailable
	}
	return f.Store.DeleteBatch(ctx, c, hs)
}

// scriptedProvider returns removeErr from Remove.
type scriptedProvider struct {
	journal   *journal
	removeErr error
	removals  int
}

func (p *scriptedProvider) SignIn(_ context.Context, c identity.Credential) (*identity.Session, error) {
	return identity.NewSession("u1", c.Email, c.Method, fixedTime, "tok"), nil
}

func (p *scriptedProvider) SignOut(context.Context, *identity.Session) error { return nil }

func (p *scriptedProvider) Remove(context.Context, *identity.Session) error {
	p.removals++
	if p.journal != nil {
		p.journal.add("remove")
	}
	return p.removeErr
}

func newPlan(s resource.Store, p identity.Provider) *cleanup.Plan {
	plan, err := cleanup.Build(s, p, cleanup.DefaultCollections(),
		cleanup.WithStepLogger(silentLogger()))
	if err != nil {
		panic(err)
	}
	return plan
}

func session(uid string) *identity.Session {
	return identity.NewSession(uid, uid+"@example.com", identity.MethodPassword, fixedTime, "tok")
}
