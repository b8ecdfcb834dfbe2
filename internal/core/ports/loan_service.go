package ports

import (
	"context"
	"time"

	"github.com/bookhaven/library-system/internal/core/domain"
)

// BorrowInput carries a borrow request.
type BorrowInput struct {
	BookID string
	UserID string
	Actor  domain.Actor
}

// ReturnInput carries a return request. For librarian and admin actors UserID
// may be empty, in which case the current borrower is assumed.
type ReturnInput struct {
	BookID string
	UserID string
	Actor  domain.Actor
}

// LoanService is the borrowing engine.
type LoanService interface {
	Borrow(ctx context.Context, in BorrowInput) (*domain.Book, error)
	Return(ctx context.Context, in ReturnInput) (*domain.Book, error)
}

// Sweeper recomputes record status against a point in time.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}
