package ports

import (
	"context"
	"time"

	"github.com/bookhaven/library-system/internal/core/domain"
)

// BookRepository persists books. The loan mutators are conditional: they
// only apply when the book is in the expected state.
type BookRepository interface {
	Create(ctx context.Context, b *domain.Book) error
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	// List returns matching books in insertion order.
	List(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, error)
	// Update overwrites the descriptive fields. Loan fields are never written.
	Update(ctx context.Context, b *domain.Book) error
	// MarkBorrowed flips an available book to borrowed. Returns
	// domain.ErrBookNotAvailable when the book is already on loan.
	MarkBorrowed(ctx context.Context, id, userID string, borrowDate, dueDate time.Time) error
	// MarkReturned flips a book borrowed by userID back to available. Returns
	// domain.ErrBookNotBorrowed when it is not on loan to userID.
	MarkReturned(ctx context.Context, id, userID string, at time.Time) error
	// Delete removes an available book. Returns domain.ErrBookOnLoan otherwise.
	Delete(ctx context.Context, id string) error
}

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update overwrites name, email and role.
	Update(ctx context.Context, u *domain.User) error
	// Delete removes a user with no borrowed books. Returns domain.ErrUserHasLoans otherwise.
	Delete(ctx context.Context, id string) error
	AddBorrowedBook(ctx context.Context, userID, bookID string) error
	RemoveBorrowedBook(ctx context.Context, userID, bookID string) error
}

// RecordRepository persists the borrow log.
type RecordRepository interface {
	// Create inserts an open record. At most one open record may exist per book.
	Create(ctx context.Context, r *domain.BorrowRecord) error
	FindByID(ctx context.Context, id string) (*domain.BorrowRecord, error)
	// FindOpenByBook returns the active or overdue record for bookID.
	FindOpenByBook(ctx context.Context, bookID string) (*domain.BorrowRecord, error)
	// Close moves an open record to returned. Returns domain.ErrRecordNotOpen
	// when the record was already closed.
	Close(ctx context.Context, id string, returnDate time.Time) error
	// MarkOverdue moves every active record with due date before now to
	// overdue and returns how many changed.
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
	// List returns matching records sorted by borrow date, newest first.
	List(ctx context.Context, filter domain.RecordFilter) ([]*domain.BorrowRecord, error)
}

// Tx groups the repositories visible inside a unit of work.
type Tx interface {
	Books() BookRepository
	Users() UserRepository
	Records() RecordRepository
}

// Store is the entity store. Repositories obtained directly from the Store
// run each call on its own; WithinTx runs fn so that either all of its writes
// commit or none do.
type Store interface {
	Tx
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
