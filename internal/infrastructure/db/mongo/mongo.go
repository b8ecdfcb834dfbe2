// Package mongo implements the entity store on MongoDB. Multi-document loan
// changes run in a session transaction, so the server must be a replica set.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookhaven/library-system/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

const (
	collectionBooks   = "books"
	collectionUsers   = "users"
	collectionRecords = "borrow_records"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Store implements ports.Store. Repository calls made with a context handed
// out by WithinTx join that transaction through the session carried in it.
type Store struct {
	client  *mongo.Client
	books   *BookRepository
	users   *UserRepository
	records *RecordRepository
}

var _ ports.Store = (*Store)(nil)

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:  client,
		books:   NewBookRepository(db),
		users:   NewUserRepository(db),
		records: NewRecordRepository(db),
	}
}

func (s *Store) Books() ports.BookRepository     { return s.books }
func (s *Store) Users() ports.UserRepository     { return s.users }
func (s *Store) Records() ports.RecordRepository { return s.records }

// WithinTx runs fn in a causally consistent session transaction. The driver
// retries fn on transient transaction errors, so fn must not keep state
// between attempts.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

// EnsureIndexes creates the indexes every collection relies on, including
// the partial unique index that allows one open record per book.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	sets := []struct {
		col     *mongo.Collection
		indexes []mongo.IndexModel
	}{
		{s.books.col, []mongo.IndexModel{
			{Keys: bson.D{{Key: "title", Value: 1}}},
			{Keys: bson.D{{Key: "author", Value: 1}}},
			{Keys: bson.D{{Key: "genre", Value: 1}}},
			{Keys: bson.D{{Key: "available", Value: 1}}},
		}},
		{s.users.col, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		}},
		{s.records.col, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "due_date", Value: 1}}},
			{Keys: bson.D{{Key: "borrow_date", Value: -1}}},
			{
				Keys: bson.D{{Key: "book_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"open": true}).
					SetName("one_open_record_per_book"),
			},
		}},
	}

	for _, set := range sets {
		if _, err := set.col.Indexes().CreateMany(ctx, set.indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", set.col.Name(), err)
		}
	}
	return nil
}

func newID() string {
	return primitive.NewObjectID().Hex()
}
