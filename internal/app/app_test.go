package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
	"github.com/bookhaven/library-system/internal/pkg/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Env:       "test",
		JWTSecret: "secret",
		TokenTTL:  time.Hour,
		Store:     config.StoreMemory,
		Loans:     config.LoanConfig{Workers: 2, SweepInterval: time.Hour},
		Login:     config.LoginConfig{Rate: 10, Burst: 10},
	}
}

func TestNew_MemoryStack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx, memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close(ctx)) }()

	seeded, err := a.Seeder().Run(ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	a.Loans.Start(ctx)

	title := "hobbit"
	books, err := a.Catalog.ListBooks(ctx, domain.BookFilter{Title: &title})
	require.NoError(t, err)
	require.Len(t, books, 1)

	_, member, err := a.Auth.Login(ctx, "user@library.com", "user123")
	require.NoError(t, err)

	book, err := a.Loans.Borrow(ctx, ports.BorrowInput{BookID: books[0].ID, UserID: member.ID})
	require.NoError(t, err)
	assert.False(t, book.Available)

	n, err := a.SweepNow(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApp_RouterHealth(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, memoryConfig(), zerolog.Nop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
