package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/infrastructure/db/memory"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type fixture struct {
	db      *memory.DB
	clock   *fakeClock
	loans   *LoanService
	sweeper *OverdueSweeper
	records *RecordService
	catalog *CatalogService
	users   *UserService

	book      *domain.Book
	member    *domain.User
	other     *domain.User
	librarian *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	clock := &fakeClock{now: t0}
	log := zerolog.Nop()
	sweeper := NewOverdueSweeper(db.Records(), log)

	f := &fixture{
		db:      db,
		clock:   clock,
		loans:   NewLoanService(db, memory.NewLocker(), clock, log),
		sweeper: sweeper,
		records: NewRecordService(db.Records(), sweeper, clock, log),
		catalog: NewCatalogService(db, clock, log),
		users:   NewUserService(db, clock, log),
	}

	f.book = f.addBook(t, "1984", "George Orwell", "Dystopian")
	f.member = f.addUser(t, "Regular User", "user@library.com", domain.RoleUser)
	f.other = f.addUser(t, "Other User", "other@library.com", domain.RoleUser)
	f.librarian = f.addUser(t, "Librarian User", "librarian@library.com", domain.RoleLibrarian)
	return f
}

func (f *fixture) addBook(t *testing.T, title, author, genre string) *domain.Book {
	t.Helper()
	b := &domain.Book{Title: title, Author: author, Genre: genre, Available: true, CreatedAt: t0, UpdatedAt: t0}
	if err := f.db.Books().Create(context.Background(), b); err != nil {
		t.Fatalf("create book: %v", err)
	}
	return b
}

func (f *fixture) addUser(t *testing.T, name, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, Role: role, CreatedAt: t0, UpdatedAt: t0}
	if err := f.db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) mustBook(t *testing.T, id string) *domain.Book {
	t.Helper()
	b, err := f.db.Books().FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find book: %v", err)
	}
	return b
}

func (f *fixture) mustUser(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := f.db.Users().FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	return u
}
