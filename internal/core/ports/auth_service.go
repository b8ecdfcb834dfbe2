package ports

import (
	"context"

	"github.com/bookhaven/library-system/internal/core/domain"
)

// AuthService registers members and issues access tokens.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
