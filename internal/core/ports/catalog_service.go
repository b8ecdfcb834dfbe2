package ports

import (
	"context"

	"github.com/bookhaven/library-system/internal/core/domain"
)

// BookInput carries the descriptive fields of a new book.
type BookInput struct {
	Title         string
	Author        string
	ISBN          string
	PublishedYear int
	Genre         string
	Description   string
	CoverImage    string
}

// BookPatch carries a partial update. Nil fields are left untouched.
type BookPatch struct {
	Title         *string
	Author        *string
	ISBN          *string
	PublishedYear *int
	Genre         *string
	Description   *string
	CoverImage    *string
}

// CatalogService manages the book catalog.
type CatalogService interface {
	ListBooks(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	AddBook(ctx context.Context, in BookInput) (*domain.Book, error)
	UpdateBook(ctx context.Context, id string, patch BookPatch) (*domain.Book, error)
	DeleteBook(ctx context.Context, id string) error
}

// RecordService exposes the borrow log.
type RecordService interface {
	// ListBorrowRecords returns records, newest first. An empty status lists all.
	ListBorrowRecords(ctx context.Context, status domain.BorrowStatus) ([]*domain.BorrowRecord, error)
	GetBorrowRecord(ctx context.Context, id string) (*domain.BorrowRecord, error)
	GetUserHistory(ctx context.Context, userID string) ([]*domain.BorrowRecord, error)
}
