package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// LoanService is the borrowing engine. It is the only writer of the loan
// fields on books, of users' borrowed lists and of borrow records, and it
// changes all three inside one store transaction.
type LoanService struct {
	store  ports.Store
	locker ports.Locker
	clock  ports.Clock
	log    zerolog.Logger
}

var _ ports.LoanService = (*LoanService)(nil)

func NewLoanService(store ports.Store, locker ports.Locker, clock ports.Clock, log zerolog.Logger) *LoanService {
	return &LoanService{store: store, locker: locker, clock: clock, log: log}
}

// BookLockKey is the Locker key guarding a single book's loan state.
func BookLockKey(bookID string) string {
	return "book:" + bookID
}

// Borrow lends a book to a user for domain.LoanPeriod. A zero Actor means the
// user is acting for themselves.
func (s *LoanService) Borrow(ctx context.Context, in ports.BorrowInput) (*domain.Book, error) {
	actor := actingAs(in.Actor, in.UserID)

	unlock, err := s.locker.Lock(ctx, BookLockKey(in.BookID))
	if err != nil {
		return nil, fmt.Errorf("borrow: lock book: %w", err)
	}
	defer unlock()

	var borrowed *domain.Book
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		book, err := tx.Books().FindByID(ctx, in.BookID)
		if err != nil {
			return err
		}
		if !book.Available {
			return domain.ErrBookNotAvailable
		}
		user, err := tx.Users().FindByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !actor.Role.CanManageLoans() && actor.ID != user.ID {
			return domain.ErrForbidden
		}

		now := s.clock.Now().UTC()
		due := now.Add(domain.LoanPeriod)

		if err := tx.Books().MarkBorrowed(ctx, book.ID, user.ID, now, due); err != nil {
			return err
		}
		if err := tx.Users().AddBorrowedBook(ctx, user.ID, book.ID); err != nil {
			return err
		}
		record := &domain.BorrowRecord{
			BookID:     book.ID,
			UserID:     user.ID,
			BookTitle:  book.Title,
			UserName:   user.Name,
			BorrowDate: now,
			DueDate:    due,
			Status:     domain.StatusActive,
		}
		if err := tx.Records().Create(ctx, record); err != nil {
			return err
		}

		book.Lend(user.ID, now, due)
		borrowed = book
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("borrow: %w", err)
	}

	s.log.Info().
		Str("book_id", borrowed.ID).
		Str("user_id", in.UserID).
		Str("actor", actor.ID).
		Time("due", *borrowed.ReturnDate).
		Msg("book borrowed")
	return borrowed, nil
}

// Return ends the current loan of a book.
//
// A user actor may only return a book they borrowed themselves. Librarians
// and admins may return on the borrower's behalf; UserID may then be empty,
// but a non-empty UserID must still name the borrower.
func (s *LoanService) Return(ctx context.Context, in ports.ReturnInput) (*domain.Book, error) {
	actor := actingAs(in.Actor, in.UserID)

	unlock, err := s.locker.Lock(ctx, BookLockKey(in.BookID))
	if err != nil {
		return nil, fmt.Errorf("return: lock book: %w", err)
	}
	defer unlock()

	var returned *domain.Book
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		book, err := tx.Books().FindByID(ctx, in.BookID)
		if err != nil {
			return err
		}
		if book.Available {
			return domain.ErrBookNotBorrowed
		}
		borrower := book.BorrowedBy
		if !mayReturn(actor, in.UserID, borrower) {
			return domain.ErrWrongBorrower
		}

		now := s.clock.Now().UTC()

		if err := tx.Books().MarkReturned(ctx, book.ID, borrower, now); err != nil {
			return err
		}
		if err := tx.Users().RemoveBorrowedBook(ctx, borrower, book.ID); err != nil {
			return err
		}

		record, err := tx.Records().FindOpenByBook(ctx, book.ID)
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			s.log.Warn().Str("book_id", book.ID).Msg("no open borrow record for returned book")
		case err != nil:
			return err
		default:
			if err := tx.Records().Close(ctx, record.ID, now); err != nil {
				return err
			}
		}

		book.Release(now)
		returned = book
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("return: %w", err)
	}

	s.log.Info().
		Str("book_id", returned.ID).
		Str("actor", actor.ID).
		Msg("book returned")
	return returned, nil
}

// actingAs defaults a zero actor to the member named by userID.
func actingAs(actor domain.Actor, userID string) domain.Actor {
	if actor == (domain.Actor{}) {
		return domain.Actor{ID: userID, Role: domain.RoleUser}
	}
	return actor
}

func mayReturn(actor domain.Actor, userID, borrower string) bool {
	if actor.Role.CanManageLoans() {
		return userID == "" || userID == borrower
	}
	return actor.ID == userID && userID == borrower
}
