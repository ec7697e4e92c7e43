package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jozzer182/Yuva"
	mw "github.com/jozzer182/Yuva/middleware"
	"github.com/jozzer182/Yuva/resource"
	"github.com/jozzer182/Yuva/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// ErrTransactionsUnsupported is returned by Open when the server is a
// standalone mongod. Batch deletes need multi-document transactions.
var ErrTransactionsUnsupported = errors.New("yuva/mongo: server does not support transactions (need a replica set or sharded cluster)")

// hello is the part of the hello command reply that tells the topology.
type hello struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

func (h hello) supportsTransactions() bool {
	return h.SetName != "" || h.Msg == "isdbgrid"
}

// Store is a MongoDB implementation of store.Store.
type Store struct {
	client *mongod.Client
	db     *mongod.Database
	owned  bool
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new MongoDB store on database. The caller owns the client
// lifecycle -- the Store will not disconnect it on Close().
func New(client *mongod.Client, database string, opts ...Option) *Store {
	s := &Store{
		client: client,
		db:     client.Database(database),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to uri and returns a store that disconnects on Close.
func Open(ctx context.Context, uri, database string, opts ...Option) (*Store, error) {
	client, err := mongod.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("yuva/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("yuva/mongo: ping: %w", err)
	}
	var h hello
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&h); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("yuva/mongo: hello: %w", err)
	}
	if !h.supportsTransactions() {
		_ = client.Disconnect(ctx)
		return nil, ErrTransactionsUnsupported
	}
	s := New(client, database, opts...)
	s.owned = true
	return s, nil
}

// Database returns the underlying database handle for advanced usage.
func (s *Store) Database() *mongod.Database {
	return s.db
}

type idDoc struct {
	ID any `bson:"_id"`
}

// Find returns handles of the documents of c owned by subject, sorted by _id.
func (s *Store) Find(ctx context.Context, c resource.Collection, subject string) ([]resource.Handle, error) {
	field := c.OwnerField
	if c.KeyOwned() {
		field = "_id"
	}

	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.db.Collection(c.Name).Find(ctx, bson.D{{Key: field, Value: subject}}, opts)
	if err != nil {
		return nil, fmt.Errorf("yuva/mongo: find %s: %w", c.Name, err)
	}

	var docs []idDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("yuva/mongo: decode %s: %w", c.Name, err)
	}

	out := make([]resource.Handle, 0, len(docs))
	for _, d := range docs {
		out = append(out, resource.Handle{Collection: c.Name, Key: keyString(d.ID), Native: d.ID})
	}
	return out, nil
}

// DeleteBatch deletes the given documents of c with one DeleteMany inside a
// session transaction. The transaction is aborted unless every document
// matched, so a batch is never partially deleted.
func (s *Store) DeleteBatch(ctx context.Context, c resource.Collection, handles []resource.Handle) error {
	if len(handles) == 0 {
		return nil
	}

	ids := make(bson.A, 0, len(handles))
	for _, h := range handles {
		if h.Native != nil {
			ids = append(ids, h.Native)
		} else {
			ids = append(ids, h.Key)
		}
	}
	coll := s.db.Collection(c.Name)
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}

	del := func(ctx context.Context) error {
		res, err := coll.DeleteMany(ctx, filter)
		if err != nil {
			return err
		}
		if res.DeletedCount != int64(len(ids)) {
			return fmt.Errorf("%w: deleted %d of %d", yuva.ErrBatchIncomplete, res.DeletedCount, len(ids))
		}
		return nil
	}

	if err := s.inTransaction(ctx, del); err != nil {
		return fmt.Errorf("yuva/mongo: delete from %s: %w", c.Name, err)
	}

	s.logger.Debug("batch deleted",
		mw.RunAttr(ctx),
		slog.String("collection", c.Name),
		slog.Int("documents", len(ids)),
	)
	return nil
}

func (s *Store) inTransaction(ctx context.Context, fn func(context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client when the store opened it itself.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

// keyString renders a document _id the way users see it.
func keyString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case bson.ObjectID:
		return id.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
