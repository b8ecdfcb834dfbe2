package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/service"
	"github.com/bookhaven/library-system/internal/infrastructure/db/memory"
)

func newSeeder(db *memory.DB) (*Seeder, *service.AuthService) {
	log := zerolog.Nop()
	clock := service.SystemClock{}
	auth := service.NewAuthService(db.Users(), clock, "secret", time.Hour)
	return NewSeeder(
		auth,
		service.NewUserService(db, clock, log),
		service.NewCatalogService(db, clock, log),
		log,
	), auth
}

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	s, auth := newSeeder(db)

	seeded, err := s.Run(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	books, err := db.Books().List(ctx, domain.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, books, len(Books))

	for _, a := range Accounts {
		_, u, err := auth.Login(ctx, a.Email, a.Password)
		require.NoError(t, err, a.Email)
		assert.Equal(t, a.Role, u.Role, a.Email)
	}
}

func TestSeeder_Run_SkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	s, _ := newSeeder(db)

	_, err := s.Run(ctx)
	require.NoError(t, err)

	seeded, err := s.Run(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	books, err := db.Books().List(ctx, domain.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, books, len(Books))
}
