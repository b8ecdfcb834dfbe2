package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

func strPtr(s string) *string { return &s }

func TestCatalogService_ListBooks_GenreCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addBook(t, "To Kill a Mockingbird", "Harper Lee", "Classic")
	f.addBook(t, "The Great Gatsby", "F. Scott Fitzgerald", "Classic")

	books, err := f.catalog.ListBooks(ctx, domain.BookFilter{Genre: strPtr("classic")})
	if err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 classics, got %d", len(books))
	}
	if books[0].Title != "To Kill a Mockingbird" {
		t.Fatalf("expected insertion order, got %q first", books[0].Title)
	}

	byTitle, _ := f.catalog.ListBooks(ctx, domain.BookFilter{Title: strPtr("gats")})
	if len(byTitle) != 1 || byTitle[0].Author != "F. Scott Fitzgerald" {
		t.Fatalf("unexpected title match: %+v", byTitle)
	}
}

func TestCatalogService_AddBook(t *testing.T) {
	f := newFixture(t)

	book, err := f.catalog.AddBook(context.Background(), ports.BookInput{Title: " Dune ", Author: "Frank Herbert", PublishedYear: 1965})
	if err != nil {
		t.Fatalf("AddBook returned error: %v", err)
	}
	if book.ID == "" || !book.Available || book.Title != "Dune" {
		t.Fatalf("unexpected book: %+v", book)
	}

	if _, err := f.catalog.AddBook(context.Background(), ports.BookInput{Title: "No Author"}); !errors.Is(err, domain.ErrInvalidBook) {
		t.Fatalf("expected ErrInvalidBook, got %v", err)
	}
}

func TestCatalogService_UpdateBookKeepsLoan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	updated, err := f.catalog.UpdateBook(ctx, f.book.ID, ports.BookPatch{Title: strPtr("Nineteen Eighty-Four")})
	if err != nil {
		t.Fatalf("UpdateBook returned error: %v", err)
	}
	if updated.Title != "Nineteen Eighty-Four" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if b := f.mustBook(t, f.book.ID); b.Available || b.BorrowedBy != f.member.ID {
		t.Fatalf("update touched loan state: %+v", b)
	}

	if _, err := f.catalog.UpdateBook(ctx, f.book.ID, ports.BookPatch{Author: strPtr("  ")}); !errors.Is(err, domain.ErrInvalidBook) {
		t.Fatalf("expected ErrInvalidBook, got %v", err)
	}
	if b := f.mustBook(t, f.book.ID); b.Author != "George Orwell" {
		t.Fatalf("rejected update was applied: %q", b.Author)
	}
}

func TestCatalogService_DeleteBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.loans.Borrow(ctx, ports.BorrowInput{BookID: f.book.ID, UserID: f.member.ID}); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	if err := f.catalog.DeleteBook(ctx, f.book.ID); !errors.Is(err, domain.ErrBookOnLoan) {
		t.Fatalf("expected ErrBookOnLoan, got %v", err)
	}

	spare := f.addBook(t, "Spare", "Anon", "")
	if err := f.catalog.DeleteBook(ctx, spare.ID); err != nil {
		t.Fatalf("DeleteBook returned error: %v", err)
	}
	if _, err := f.catalog.GetBook(ctx, spare.ID); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}
