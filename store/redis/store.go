package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/jozzer182/Yuva"
	mw "github.com/jozzer182/Yuva/middleware"
	"github.com/jozzer182/Yuva/resource"
	"github.com/jozzer182/Yuva/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// Store implements store.Store backed by Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// New creates a new Redis-backed store. The caller owns the Redis client
// lifecycle.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Client returns the underlying Redis client.
func (s *Store) Client() redis.UniversalClient { return s.client }

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close is a no-op; the caller owns the Redis client lifecycle.
func (s *Store) Close() error { return nil }

// Put writes a record and re-indexes its fields.
func (s *Store) Put(ctx context.Context, collection, key string, fields map[string]string) error {
	rk := s.recordKey(collection, key)
	old, err := s.client.HGetAll(ctx, rk).Result()
	if err != nil {
		return fmt.Errorf("yuva/redis: read %s: %w", rk, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for f, v := range old {
			pipe.SRem(ctx, s.indexKey(collection, f, v), key)
		}
		pipe.Del(ctx, rk)
		if len(fields) == 0 {
			return nil
		}
		args := make([]any, 0, 2*len(fields))
		for f, v := range fields {
			args = append(args, f, v)
			pipe.SAdd(ctx, s.indexKey(collection, f, v), key)
		}
		pipe.HSet(ctx, rk, args...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("yuva/redis: put %s: %w", rk, err)
	}
	return nil
}

// Find returns handles of the records of c owned by subject, ordered by key.
func (s *Store) Find(ctx context.Context, c resource.Collection, subject string) ([]resource.Handle, error) {
	var keys []string
	if c.KeyOwned() {
		n, err := s.client.Exists(ctx, s.recordKey(c.Name, subject)).Result()
		if err != nil {
			return nil, fmt.Errorf("yuva/redis: find %s: %w", c.Name, err)
		}
		if n > 0 {
			keys = []string{subject}
		}
	} else {
		members, err := s.client.SMembers(ctx, s.indexKey(c.Name, c.OwnerField, subject)).Result()
		if err != nil {
			return nil, fmt.Errorf("yuva/redis: find %s: %w", c.Name, err)
		}
		sort.Strings(members)
		keys = members
	}

	out := make([]resource.Handle, 0, len(keys))
	for _, k := range keys {
		out = append(out, resource.Handle{Collection: c.Name, Key: k})
	}
	return out, nil
}

// DeleteBatch removes the given records of c and their index entries in
// one MULTI/EXEC guarded by WATCH on the record keys. Every record is read
// first; if any is missing, or any is written between the read and EXEC,
// nothing is deleted.
func (s *Store) DeleteBatch(ctx context.Context, c resource.Collection, handles []resource.Handle) error {
	if len(handles) == 0 {
		return nil
	}

	keys := make([]string, len(handles))
	for i, h := range handles {
		keys[i] = s.recordKey(c.Name, h.Key)
	}

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		reads := make([]*redis.MapStringStringCmd, len(keys))
		if _, err := tx.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, k := range keys {
				reads[i] = pipe.HGetAll(ctx, k)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("read batch: %w", err)
		}
		for i, cmd := range reads {
			if len(cmd.Val()) == 0 {
				return fmt.Errorf("%s: %w", handles[i].Key, yuva.ErrBatchIncomplete)
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, h := range handles {
				for f, v := range reads[i].Val() {
					pipe.SRem(ctx, s.indexKey(c.Name, f, v), h.Key)
				}
			}
			pipe.Del(ctx, keys...)
			return nil
		})
		return err
	}, keys...)
	if errors.Is(err, redis.TxFailedErr) {
		err = fmt.Errorf("%w: records changed during delete", yuva.ErrBatchIncomplete)
	}
	if err != nil {
		return fmt.Errorf("yuva/redis: delete from %s: %w", c.Name, err)
	}

	s.logger.Debug("batch deleted",
		mw.RunAttr(ctx),
		slog.String("collection", c.Name),
		slog.Int("records", len(handles)),
	)
	return nil
}
