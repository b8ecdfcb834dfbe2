package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bookhaven/library-system/internal/core/domain"
)

type userRepo struct {
	access
}

func (r userRepo) indexOf(id string) int {
	return slices.IndexFunc(r.db.users, func(u *domain.User) bool { return u.ID == id })
}

func (r userRepo) emailTaken(email, exceptID string) bool {
	return slices.ContainsFunc(r.db.users, func(u *domain.User) bool {
		return u.ID != exceptID && strings.EqualFold(u.Email, email)
	})
}

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	defer r.write()()

	if r.emailTaken(u.Email, "") {
		return domain.ErrUserExists
	}
	if u.ID == "" {
		u.ID = r.db.newID()
	} else if r.indexOf(u.ID) >= 0 {
		return fmt.Errorf("%w: duplicate user id %s", domain.ErrConflict, u.ID)
	}
	if u.BorrowedBooks == nil {
		u.BorrowedBooks = []string{}
	}
	r.db.users = append(r.db.users, u.Clone())
	return nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	defer r.read()()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.db.users[i].Clone(), nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	defer r.read()()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r userRepo) List(_ context.Context) ([]*domain.User, error) {
	defer r.read()()

	out := make([]*domain.User, len(r.db.users))
	for i, u := range r.db.users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (r userRepo) Update(_ context.Context, u *domain.User) error {
	defer r.write()()

	i := r.indexOf(u.ID)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return domain.ErrUserExists
	}
	stored := r.db.users[i]
	stored.Name = u.Name
	stored.Email = u.Email
	stored.Role = u.Role
	stored.UpdatedAt = u.UpdatedAt
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	defer r.write()()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	if len(r.db.users[i].BorrowedBooks) > 0 {
		return domain.ErrUserHasLoans
	}
	r.db.users = slices.Delete(r.db.users, i, i+1)
	return nil
}

func (r userRepo) AddBorrowedBook(_ context.Context, userID, bookID string) error {
	defer r.write()()

	i := r.indexOf(userID)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	u := r.db.users[i]
	if !u.HasBorrowed(bookID) {
		u.BorrowedBooks = append(u.BorrowedBooks, bookID)
	}
	return nil
}

func (r userRepo) RemoveBorrowedBook(_ context.Context, userID, bookID string) error {
	defer r.write()()

	i := r.indexOf(userID)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	u := r.db.users[i]
	u.BorrowedBooks = slices.DeleteFunc(u.BorrowedBooks, func(id string) bool { return id == bookID })
	return nil
}
