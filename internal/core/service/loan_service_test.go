package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

func TestLoanService_BorrowSweepReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	book, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID})
	if err != nil {
		t.Fatalf("Borrow returned error: %v", err)
	}
	if book.Available || book.BorrowedBy != f.member.ID {
		t.Fatalf("unexpected book after borrow: %+v", book)
	}
	due := t0.Add(14 * 24 * time.Hour)
	if book.ReturnDate == nil || !book.ReturnDate.Equal(due) {
		t.Fatalf("expected due date %v, got %v", due, book.ReturnDate)
	}
	if u := f.mustUser(t, f.member.ID); !u.HasBorrowed(f.book.ID) {
		t.Fatalf("expected user to hold the book, got %v", u.BorrowedBooks)
	}

	records, _ := f.db.Records().List(ctx, domain.RecordFilter{BookID: f.book.ID})
	if len(records) != 1 || records[0].Status != domain.StatusActive {
		t.Fatalf("expected one active record, got %+v", records)
	}
	if records[0].BookTitle != "1984" || records[0].UserName != "Regular User" {
		t.Fatalf("record snapshots not filled: %+v", records[0])
	}

	n, err := f.sweeper.Sweep(ctx, due.Add(24*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("expected 1 transition, got %d (err %v)", n, err)
	}
	if b := f.mustBook(t, f.book.ID); b.Available {
		t.Fatalf("sweep must not touch the book")
	}

	f.clock.Set(due.Add(48 * time.Hour))
	if _, err := f.loans.Return(ctx, ports.ReturnInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("Return returned error: %v", err)
	}

	rec, _ := f.db.Records().FindByID(ctx, records[0].ID)
	if rec.Status != domain.StatusReturned || rec.ReturnDate == nil || !rec.ReturnDate.Equal(due.Add(48*time.Hour)) {
		t.Fatalf("unexpected record after return: %+v", rec)
	}
	if u := f.mustUser(t, f.member.ID); len(u.BorrowedBooks) != 0 {
		t.Fatalf("expected empty borrowed list, got %v", u.BorrowedBooks)
	}
}

func TestLoanService_Borrow_NotAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("first borrow failed: %v", err)
	}
	_, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.other.ID})
	if !errors.Is(err, domain.ErrBookNotAvailable) {
		t.Fatalf("expected ErrBookNotAvailable, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict kind, got %v", err)
	}

	if u := f.mustUser(t, f.other.ID); len(u.BorrowedBooks) != 0 {
		t.Fatalf("failed borrow changed the user: %v", u.BorrowedBooks)
	}
	records, _ := f.db.Records().List(ctx, domain.RecordFilter{})
	if len(records) != 1 {
		t.Fatalf("failed borrow created a record: %d", len(records))
	}
}

func TestLoanService_Borrow_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: "missing", UserID: f.member.ID}); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
	_, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: "ghost", Actor: domain.Actor{ID: f.librarian.ID, Role: domain.RoleLibrarian}})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if b := f.mustBook(t, f.book.ID); !b.Available {
		t.Fatalf("failed borrow left the book on loan")
	}
}

func TestLoanService_Borrow_ForOtherMemberForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.loans.Borrow(context.Background(), ports.BorrowInput{
		BookID: f.book.ID,
		UserID: f.other.ID,
		Actor:  domain.Actor{ID: f.member.ID, Role: domain.RoleUser},
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestLoanService_Return_NotBorrowed(t *testing.T) {
	f := newFixture(t)

	_, err := f.loans.Return(context.Background(), ports.ReturnInput{BookID: f.book.ID, UserID: f.member.ID})
	if !errors.Is(err, domain.ErrBookNotBorrowed) {
		t.Fatalf("expected ErrBookNotBorrowed, got %v", err)
	}
}

func TestLoanService_Return_WrongBorrower(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	_, err := f.loans.Return(ctx, ports.ReturnInput{BookID: f.book.ID, UserID: f.other.ID})
	if !errors.Is(err, domain.ErrWrongBorrower) {
		t.Fatalf("expected ErrWrongBorrower, got %v", err)
	}
	if b := f.mustBook(t, f.book.ID); b.BorrowedBy != f.member.ID {
		t.Fatalf("book changed hands: %+v", b)
	}
}

func TestLoanService_Return_ByLibrarian(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := domain.Actor{ID: f.librarian.ID, Role: domain.RoleLibrarian}

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID, Actor: staff}); err != nil {
		t.Fatalf("borrow on behalf failed: %v", err)
	}
	if _, err := f.loans.Return(ctx, ports.ReturnInput{BookID: f.book.ID, UserID: f.other.ID, Actor: staff}); !errors.Is(err, domain.ErrWrongBorrower) {
		t.Fatalf("expected ErrWrongBorrower for mismatched user, got %v", err)
	}
	if _, err := f.loans.Return(ctx, ports.ReturnInput{BookID: f.book.ID, Actor: staff}); err != nil {
		t.Fatalf("return on behalf failed: %v", err)
	}
	if u := f.mustUser(t, f.member.ID); len(u.BorrowedBooks) != 0 {
		t.Fatalf("borrower still holds the book: %v", u.BorrowedBooks)
	}
}

func TestLoanService_RoundTripRestoresBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.mustBook(t, f.book.ID)

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	f.clock.Set(t0.Add(time.Hour))
	if _, err := f.loans.Return(ctx, ports.ReturnInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("return failed: %v", err)
	}

	after := f.mustBook(t, f.book.ID)
	if after.Available != before.Available || after.BorrowedBy != "" || after.BorrowDate != nil || after.ReturnDate != nil {
		t.Fatalf("loan fields not restored: %+v", after)
	}
	if !after.LoanConsistent() {
		t.Fatalf("book is inconsistent: %+v", after)
	}
	if after.Title != before.Title || after.Author != before.Author || after.Genre != before.Genre {
		t.Fatalf("descriptive fields changed: %+v", after)
	}
}

func TestLoanService_ConcurrentBorrowsOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 16
	members := make([]*domain.User, n)
	for i := range members {
		members[i] = f.addUser(t, "Member", string(rune('a'+i))+"@example.com", domain.RoleUser)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for _, m := range members {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: id})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrBookNotAvailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(m.ID)
	}
	wg.Wait()

	if succeeded != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", n-1, succeeded, conflicts)
	}
	open, _ := f.db.Records().List(ctx, domain.RecordFilter{Status: domain.StatusActive})
	if len(open) != 1 {
		t.Fatalf("expected exactly one active record, got %d", len(open))
	}
}
