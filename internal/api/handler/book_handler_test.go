package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

type stubCatalog struct {
	filter domain.BookFilter
	added  ports.BookInput
	err    error
}

func (s *stubCatalog) ListBooks(_ context.Context, f domain.BookFilter) ([]*domain.Book, error) {
	s.filter = f
	return []*domain.Book{{ID: "b1", Title: "1984", Genre: "Dystopian", Available: true}}, s.err
}

func (s *stubCatalog) GetBook(_ context.Context, id string) (*domain.Book, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Book{ID: id}, nil
}

func (s *stubCatalog) AddBook(_ context.Context, in ports.BookInput) (*domain.Book, error) {
	s.added = in
	return &domain.Book{ID: "new", Title: in.Title, Author: in.Author, Available: true}, s.err
}

func (s *stubCatalog) UpdateBook(_ context.Context, id string, _ ports.BookPatch) (*domain.Book, error) {
	return &domain.Book{ID: id}, s.err
}

func (s *stubCatalog) DeleteBook(context.Context, string) error { return s.err }

func TestBookHandler_ListParsesFilters(t *testing.T) {
	stub := &stubCatalog{}
	h := NewBookHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/v1/books?genre=classic&available=true&title=mock", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.filter.Genre == nil || *stub.filter.Genre != "classic" {
		t.Fatalf("genre not passed: %+v", stub.filter)
	}
	if stub.filter.Available == nil || !*stub.filter.Available {
		t.Fatalf("available not passed: %+v", stub.filter)
	}
	if stub.filter.Author != nil {
		t.Fatalf("author should be unset")
	}

	var resp listResponse[bookResponse]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 1 || resp.Data[0].Title != "1984" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestBookHandler_ListBadAvailable(t *testing.T) {
	h := NewBookHandler(&stubCatalog{})

	c, _ := newJSONContext(http.MethodGet, "/v1/books?available=maybe", "")
	if err := h.List(c); httpCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestBookHandler_Create(t *testing.T) {
	stub := &stubCatalog{}
	h := NewBookHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/v1/books", `{"title":"Dune","author":"Frank Herbert","published_year":1965}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec.Header().Get("Location") != "/v1/books/new" {
		t.Fatalf("unexpected location: %q", rec.Header().Get("Location"))
	}
	if stub.added.PublishedYear != 1965 {
		t.Fatalf("unexpected input: %+v", stub.added)
	}

	c, _ = newJSONContext(http.MethodPost, "/v1/books", `{"title":"Dune"}`)
	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBookHandler_GetPropagatesNotFound(t *testing.T) {
	h := NewBookHandler(&stubCatalog{err: domain.ErrBookNotFound})

	c, _ := newJSONContext(http.MethodGet, "/v1/books/x", "")
	c.SetParamNames("id")
	c.SetParamValues("x")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
