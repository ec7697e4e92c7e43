// Package memory provides an in-memory record store for development and
// testing. Records are field maps grouped by collection and addressed by key.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jozzer182/Yuva"
	"github.com/jozzer182/Yuva/resource"
	"github.com/jozzer182/Yuva/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Record is the field set of one stored record.
type Record map[string]any

// Store is a fully in-memory implementation of store.Store.
// Safe for concurrent access.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]Record
}

// New returns a new empty Store.
func New() *Store {
	return &Store{collections: make(map[string]map[string]Record)}
}

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// Put inserts or replaces a record.
func (m *Store) Put(collection, key string, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		c = make(map[string]Record)
		m.collections[collection] = c
	}
	cp := make(Record, len(rec))
	for k, v := range rec {
		cp[k] = v
	}
	c[key] = cp
}

// Get returns a copy of a record.
func (m *Store) Get(collection, key string) (Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.collections[collection][key]
	if !ok {
		return nil, false
	}
	cp := make(Record, len(rec))
	for k, v := range rec {
		cp[k] = v
	}
	return cp, true
}

// Count returns the number of records in a collection.
func (m *Store) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

// Find returns handles of the records of c owned by subject, ordered by key.
func (m *Store) Find(ctx context.Context, c resource.Collection, subject string) ([]resource.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []resource.Handle
	for key, rec := range m.collections[c.Name] {
		if owns(c, key, rec, subject) {
			out = append(out, resource.Handle{Collection: c.Name, Key: key})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func owns(c resource.Collection, key string, rec Record, subject string) bool {
	if c.KeyOwned() {
		return key == subject
	}
	v, ok := rec[c.OwnerField]
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return s == subject
}

// DeleteBatch removes every handle or none: all keys are checked before
// the first deletion.
func (m *Store) DeleteBatch(ctx context.Context, c resource.Collection, handles []resource.Handle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	recs := m.collections[c.Name]
	for _, h := range handles {
		if _, ok := recs[h.Key]; !ok {
			return fmt.Errorf("memory: delete %s/%s: %w", c.Name, h.Key, yuva.ErrBatchIncomplete)
		}
	}
	for _, h := range handles {
		delete(recs, h.Key)
	}
	return nil
}
