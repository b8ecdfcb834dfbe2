package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

func TestOverdueSweeper_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	now := t0.Add(domain.LoanPeriod + time.Second)

	first, err := f.sweeper.Sweep(ctx, now)
	if err != nil || first != 1 {
		t.Fatalf("first sweep: got %d, err %v", first, err)
	}
	second, err := f.sweeper.Sweep(ctx, now)
	if err != nil || second != 0 {
		t.Fatalf("second sweep: got %d, err %v", second, err)
	}
}

func TestOverdueSweeper_DueExactlyNowStaysActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	if n, _ := f.sweeper.Sweep(ctx, t0.Add(domain.LoanPeriod)); n != 0 {
		t.Fatalf("record due now must stay active, %d changed", n)
	}
}

func TestRecordService_ListSweepsFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	f.clock.Set(t0.Add(20 * 24 * time.Hour))

	overdue, err := f.records.ListBorrowRecords(ctx, domain.StatusOverdue)
	if err != nil {
		t.Fatalf("ListBorrowRecords returned error: %v", err)
	}
	if len(overdue) != 1 || overdue[0].UserID != f.member.ID {
		t.Fatalf("expected the loan to be reported overdue, got %+v", overdue)
	}

	active, _ := f.records.ListBorrowRecords(ctx, domain.StatusActive)
	if len(active) != 0 {
		t.Fatalf("expected no active records, got %d", len(active))
	}
}

func TestRecordService_InvalidStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.records.ListBorrowRecords(context.Background(), "lost")
	if !errors.Is(err, domain.ErrInvalidStatus) || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestRecordService_UserHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	second := f.addBook(t, "The Hobbit", "J.R.R. Tolkien", "Fantasy")

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	f.clock.Set(t0.Add(time.Hour))
	if _, err := f.loans.Return(ctx, ports.ReturnInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("return failed: %v", err)
	}
	f.clock.Set(t0.Add(2 * time.Hour))
	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: second.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("second borrow failed: %v", err)
	}
	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.other.ID}); err != nil {
		t.Fatalf("other borrow failed: %v", err)
	}

	history, err := f.records.GetUserHistory(ctx, f.member.ID)
	if err != nil {
		t.Fatalf("GetUserHistory returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[0].BookID != second.ID || history[1].Status != domain.StatusReturned {
		t.Fatalf("unexpected order: %+v, %+v", history[0], history[1])
	}
}

func TestRecordService_GetBorrowRecord_NotFound(t *testing.T) {
	f := newFixture(t)

	if _, err := f.records.GetBorrowRecord(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
