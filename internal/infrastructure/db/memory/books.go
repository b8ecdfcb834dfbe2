package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/bookhaven/library-system/internal/core/domain"
)

type bookRepo struct {
	access
}

func (r bookRepo) indexOf(id string) int {
	return slices.IndexFunc(r.db.books, func(b *domain.Book) bool { return b.ID == id })
}

func (r bookRepo) Create(_ context.Context, b *domain.Book) error {
	defer r.write()()

	if b.ID == "" {
		b.ID = r.db.newID()
	} else if r.indexOf(b.ID) >= 0 {
		return fmt.Errorf("%w: duplicate book id %s", domain.ErrConflict, b.ID)
	}
	r.db.books = append(r.db.books, b.Clone())
	return nil
}

func (r bookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	defer r.read()()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrBookNotFound
	}
	return r.db.books[i].Clone(), nil
}

func (r bookRepo) List(_ context.Context, filter domain.BookFilter) ([]*domain.Book, error) {
	defer r.read()()

	out := make([]*domain.Book, 0, len(r.db.books))
	for _, b := range r.db.books {
		if filter.Matches(b) {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

func (r bookRepo) Update(_ context.Context, b *domain.Book) error {
	defer r.write()()

	i := r.indexOf(b.ID)
	if i < 0 {
		return domain.ErrBookNotFound
	}
	stored := r.db.books[i]
	stored.Title = b.Title
	stored.Author = b.Author
	stored.ISBN = b.ISBN
	stored.PublishedYear = b.PublishedYear
	stored.Genre = b.Genre
	stored.Description = b.Description
	stored.CoverImage = b.CoverImage
	stored.UpdatedAt = b.UpdatedAt
	return nil
}

func (r bookRepo) MarkBorrowed(_ context.Context, id, userID string, borrowDate, dueDate time.Time) error {
	defer r.write()()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrBookNotFound
	}
	if !r.db.books[i].Available {
		return domain.ErrBookNotAvailable
	}
	r.db.books[i].Lend(userID, borrowDate, dueDate)
	return nil
}

func (r bookRepo) MarkReturned(_ context.Context, id, userID string, at time.Time) error {
	defer r.write()()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrBookNotFound
	}
	b := r.db.books[i]
	if b.Available || b.BorrowedBy != userID {
		return domain.ErrBookNotBorrowed
	}
	b.Release(at)
	return nil
}

func (r bookRepo) Delete(_ context.Context, id string) error {
	defer r.write()()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrBookNotFound
	}
	if !r.db.books[i].Available {
		return domain.ErrBookOnLoan
	}
	r.db.books = slices.Delete(r.db.books, i, i+1)
	return nil
}
