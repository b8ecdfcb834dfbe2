package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// CatalogService manages books. It never touches loan fields.
type CatalogService struct {
	store ports.Store
	clock ports.Clock
	log   zerolog.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(store ports.Store, clock ports.Clock, log zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, clock: clock, log: log}
}

// ListBooks returns the books matching filter in insertion order.
func (s *CatalogService) ListBooks(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, error) {
	books, err := s.store.Books().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.store.Books().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// AddBook stores a new, available book.
func (s *CatalogService) AddBook(ctx context.Context, in ports.BookInput) (*domain.Book, error) {
	now := s.clock.Now().UTC()
	book := &domain.Book{
		Title:         strings.TrimSpace(in.Title),
		Author:        strings.TrimSpace(in.Author),
		ISBN:          strings.TrimSpace(in.ISBN),
		PublishedYear: in.PublishedYear,
		Genre:         strings.TrimSpace(in.Genre),
		Description:   in.Description,
		CoverImage:    in.CoverImage,
		Available:     true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if book.Title == "" || book.Author == "" {
		return nil, domain.ErrInvalidBook
	}

	if err := s.store.Books().Create(ctx, book); err != nil {
		s.log.Error().Err(err).Msg("failed to add book")
		return nil, fmt.Errorf("add book: %w", err)
	}

	s.log.Info().Str("book_id", book.ID).Str("title", book.Title).Msg("book added")
	return book, nil
}

// UpdateBook applies patch to the descriptive fields of a book.
func (s *CatalogService) UpdateBook(ctx context.Context, id string, patch ports.BookPatch) (*domain.Book, error) {
	var updated *domain.Book
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		book, err := tx.Books().FindByID(ctx, id)
		if err != nil {
			return err
		}
		applyBookPatch(book, patch)
		if book.Title == "" || book.Author == "" {
			return domain.ErrInvalidBook
		}
		book.UpdatedAt = s.clock.Now().UTC()
		if err := tx.Books().Update(ctx, book); err != nil {
			return err
		}
		updated = book
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return updated, nil
}

// DeleteBook removes a book that is not on loan.
func (s *CatalogService) DeleteBook(ctx context.Context, id string) error {
	if err := s.store.Books().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	s.log.Info().Str("book_id", id).Msg("book deleted")
	return nil
}

func applyBookPatch(b *domain.Book, p ports.BookPatch) {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		b.Author = strings.TrimSpace(*p.Author)
	}
	if p.ISBN != nil {
		b.ISBN = strings.TrimSpace(*p.ISBN)
	}
	if p.PublishedYear != nil {
		b.PublishedYear = *p.PublishedYear
	}
	if p.Genre != nil {
		b.Genre = strings.TrimSpace(*p.Genre)
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.CoverImage != nil {
		b.CoverImage = *p.CoverImage
	}
}
