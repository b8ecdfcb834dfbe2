package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

var errInvalidUser = fmt.Errorf("%w: name and email are required", domain.ErrValidation)

// UserService manages accounts on behalf of admins.
type UserService struct {
	store ports.Store
	clock ports.Clock
	log   zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(store ports.Store, clock ports.Clock, log zerolog.Logger) *UserService {
	return &UserService{store: store, clock: clock, log: log}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateUser changes name, email or role. Unknown roles are rejected.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	if patch.Role != nil && !domain.Role(*patch.Role).Valid() {
		return nil, domain.ErrInvalidRole
	}

	var updated *domain.User
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		user, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			user.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Email != nil {
			user.Email = normalizeEmail(*patch.Email)
		}
		if patch.Role != nil {
			user.Role = domain.Role(*patch.Role)
		}
		if user.Name == "" || user.Email == "" {
			return errInvalidUser
		}
		user.UpdatedAt = s.clock.Now().UTC()
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", id).Str("role", string(updated.Role)).Msg("user updated")
	return updated, nil
}

// DeleteUser removes an account. Users with borrowed books cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
