package bunstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/jozzer182/Yuva"
	mw "github.com/jozzer182/Yuva/middleware"
	"github.com/jozzer182/Yuva/resource"
	"github.com/jozzer182/Yuva/store"
)

// DefaultKeyColumn is the primary key column assumed for every table.
const DefaultKeyColumn = "id"

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a Bun ORM implementation of store.Store. It works with any Bun
// dialect; PostgreSQL and SQLite are the supported ones.
// The caller owns the *bun.DB lifecycle; Store never closes it.
type Store struct {
	db        *bun.DB
	keyColumn string
	logger    *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithKeyColumn sets the primary key column of the cleaned tables.
func WithKeyColumn(column string) Option {
	return func(s *Store) {
		s.keyColumn = column
	}
}

// New creates a new Bun store. The caller owns the db lifecycle; the Store
// will not close it on Close().
func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db:        db,
		keyColumn: DefaultKeyColumn,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying *bun.DB for advanced usage.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Find returns handles of the rows of c owned by subject, ordered by key.
func (s *Store) Find(ctx context.Context, c resource.Collection, subject string) ([]resource.Handle, error) {
	owner := s.keyColumn
	if !c.KeyOwned() {
		owner = c.OwnerField
	}

	var keys []string
	err := s.db.NewSelect().
		TableExpr("?", bun.Ident(c.Name)).
		ColumnExpr("CAST(? AS TEXT)", bun.Ident(s.keyColumn)).
		Where("CAST(? AS TEXT) = ?", bun.Ident(owner), subject).
		OrderExpr("1").
		Scan(ctx, &keys)
	if err != nil && !isNoRows(err) {
		return nil, fmt.Errorf("yuva/bun: find %s: %w", c.Name, describe(err))
	}

	out := make([]resource.Handle, 0, len(keys))
	for _, k := range keys {
		out = append(out, resource.Handle{Collection: c.Name, Key: k})
	}
	return out, nil
}

// DeleteBatch deletes the given rows of c inside RunInTx. The transaction
// rolls back unless every row was removed.
func (s *Store) DeleteBatch(ctx context.Context, c resource.Collection, handles []resource.Handle) error {
	if len(handles) == 0 {
		return nil
	}

	keys := make([]string, 0, len(handles))
	for _, h := range handles {
		keys = append(keys, h.Key)
	}

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			TableExpr("?", bun.Ident(c.Name)).
			Where("CAST(? AS TEXT) IN (?)", bun.Ident(s.keyColumn), bun.In(keys)).
			Exec(ctx)
		if err != nil {
			return describe(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n != int64(len(keys)) {
			return fmt.Errorf("%w: deleted %d of %d", yuva.ErrBatchIncomplete, n, len(keys))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("yuva/bun: delete from %s: %w", c.Name, err)
	}

	s.logger.Debug("batch deleted",
		mw.RunAttr(ctx),
		slog.String("table", c.Name),
		slog.Int("rows", len(keys)),
	)
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op because the caller owns the *bun.DB lifecycle.
func (s *Store) Close() error {
	return nil
}
