package ports

import (
	"context"

	"github.com/bookhaven/library-system/internal/core/domain"
)

// UserPatch carries a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *string
}

// UserService manages member and staff accounts.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
