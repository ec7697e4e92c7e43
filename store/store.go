// Package store defines the aggregate persistence interface for the record
// stores a deletion run cleans. Backends: Memory, MongoDB, Postgres, Bun
// and Redis.
package store

import (
	"context"

	"github.com/jozzer182/Yuva/resource"
)

// Store is the aggregate persistence interface.
// A backend finds and batch-deletes a subject's records in any collection
// and exposes its connection lifecycle.
type Store interface {
	resource.Store

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
