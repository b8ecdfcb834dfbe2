package memory

import (
	"context"
	"slices"
	"time"

	"github.com/bookhaven/library-system/internal/core/domain"
)

type recordRepo struct {
	access
}

func (r recordRepo) indexOf(id string) int {
	return slices.IndexFunc(r.db.records, func(rec *domain.BorrowRecord) bool { return rec.ID == id })
}

func (r recordRepo) Create(_ context.Context, rec *domain.BorrowRecord) error {
	defer r.write()()

	open := slices.ContainsFunc(r.db.records, func(o *domain.BorrowRecord) bool {
		return o.BookID == rec.BookID && o.Status.Open()
	})
	if open {
		return domain.ErrBookNotAvailable
	}
	if rec.ID == "" {
		rec.ID = r.db.newID()
	}
	r.db.records = append(r.db.records, rec.Clone())
	return nil
}

func (r recordRepo) FindByID(_ context.Context, id string) (*domain.BorrowRecord, error) {
	defer r.read()()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrRecordNotFound
	}
	return r.db.records[i].Clone(), nil
}

func (r recordRepo) FindOpenByBook(_ context.Context, bookID string) (*domain.BorrowRecord, error) {
	defer r.read()()

	for _, rec := range r.db.records {
		if rec.BookID == bookID && rec.Status.Open() {
			return rec.Clone(), nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r recordRepo) Close(_ context.Context, id string, returnDate time.Time) error {
	defer r.write()()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrRecordNotFound
	}
	rec := r.db.records[i]
	if !rec.Status.Open() {
		return domain.ErrRecordNotOpen
	}
	rec.Status = domain.StatusReturned
	rec.ReturnDate = &returnDate
	return nil
}

func (r recordRepo) MarkOverdue(_ context.Context, now time.Time) (int, error) {
	defer r.write()()

	n := 0
	for _, rec := range r.db.records {
		if rec.OverdueAt(now) {
			rec.Status = domain.StatusOverdue
			n++
		}
	}
	return n, nil
}

func (r recordRepo) List(_ context.Context, filter domain.RecordFilter) ([]*domain.BorrowRecord, error) {
	defer r.read()()

	out := make([]*domain.BorrowRecord, 0)
	for _, rec := range r.db.records {
		if filter.Matches(rec) {
			out = append(out, rec.Clone())
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.BorrowRecord) int {
		return b.BorrowDate.Compare(a.BorrowDate)
	})
	return out, nil
}
