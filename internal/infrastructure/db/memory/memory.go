// Package memory implements the entity store in process memory. It is used
// for development, the CLI and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// DB holds books, users and borrow records in insertion order.
//
// Standalone repository calls take the lock per call. WithinTx holds the
// write lock for the whole unit of work and restores a snapshot when fn
// fails, so readers never observe a half-applied transaction.
type DB struct {
	mu      sync.RWMutex
	books   []*domain.Book
	users   []*domain.User
	records []*domain.BorrowRecord

	newID func() string
}

// New creates an empty in-memory store.
func New() *DB {
	return &DB{newID: uuid.NewString}
}

// Ensure interfaces are met.
var _ ports.Store = (*DB)(nil)
var _ ports.BookRepository = bookRepo{}
var _ ports.UserRepository = userRepo{}
var _ ports.RecordRepository = recordRepo{}

func (db *DB) Books() ports.BookRepository     { return bookRepo{access{db: db}} }
func (db *DB) Users() ports.UserRepository     { return userRepo{access{db: db}} }
func (db *DB) Records() ports.RecordRepository { return recordRepo{access{db: db}} }

// WithinTx runs fn under the write lock. Any error from fn rolls back every
// write fn made.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	snap := db.snapshot()
	if err := fn(ctx, txView{db: db}); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

type txView struct {
	db *DB
}

func (t txView) Books() ports.BookRepository     { return bookRepo{access{db: t.db, inTx: true}} }
func (t txView) Users() ports.UserRepository     { return userRepo{access{db: t.db, inTx: true}} }
func (t txView) Records() ports.RecordRepository { return recordRepo{access{db: t.db, inTx: true}} }

// access takes the store lock unless the caller already holds it inside WithinTx.
type access struct {
	db   *DB
	inTx bool
}

func (a access) read() func() {
	if a.inTx {
		return func() {}
	}
	a.db.mu.RLock()
	return a.db.mu.RUnlock
}

func (a access) write() func() {
	if a.inTx {
		return func() {}
	}
	a.db.mu.Lock()
	return a.db.mu.Unlock
}

type snapshot struct {
	books   []*domain.Book
	users   []*domain.User
	records []*domain.BorrowRecord
}

func (db *DB) snapshot() snapshot {
	s := snapshot{
		books:   make([]*domain.Book, len(db.books)),
		users:   make([]*domain.User, len(db.users)),
		records: make([]*domain.BorrowRecord, len(db.records)),
	}
	for i, b := range db.books {
		s.books[i] = b.Clone()
	}
	for i, u := range db.users {
		s.users[i] = u.Clone()
	}
	for i, r := range db.records {
		s.records[i] = r.Clone()
	}
	return s
}

func (db *DB) restore(s snapshot) {
	db.books = s.books
	db.users = s.users
	db.records = s.records
}
