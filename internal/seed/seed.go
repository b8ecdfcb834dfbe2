// Package seed fills an empty store with the demo accounts and the starter
// catalog.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// Account is a demo login created by Run.
type Account struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

var Accounts = []Account{
	{Name: "Admin User", Email: "admin@library.com", Password: "admin123", Role: domain.RoleAdmin},
	{Name: "Librarian User", Email: "librarian@library.com", Password: "librarian123", Role: domain.RoleLibrarian},
	{Name: "Regular User", Email: "user@library.com", Password: "user123", Role: domain.RoleUser},
}

var Books = []ports.BookInput{
	{
		Title:         "To Kill a Mockingbird",
		Author:        "Harper Lee",
		ISBN:          "978-0446310789",
		PublishedYear: 1960,
		Genre:         "Classic",
		Description:   "The unforgettable novel of a childhood in a sleepy Southern town and the crisis of conscience that rocked it.",
		CoverImage:    "https://upload.wikimedia.org/wikipedia/commons/4/4f/To_Kill_a_Mockingbird_%28first_edition_cover%29.jpg",
	},
	{
		Title:         "1984",
		Author:        "George Orwell",
		ISBN:          "978-0451524935",
		PublishedYear: 1949,
		Genre:         "Dystopian",
		Description:   "Among the seminal texts of the 20th century, Nineteen Eighty-Four is a rare work that grows more haunting as its futuristic purgatory becomes more real.",
		CoverImage:    "https://upload.wikimedia.org/wikipedia/commons/c/c3/1984first.jpg",
	},
	{
		Title:         "The Great Gatsby",
		Author:        "F. Scott Fitzgerald",
		ISBN:          "978-0743273565",
		PublishedYear: 1925,
		Genre:         "Classic",
		Description:   "The Great Gatsby, F. Scott Fitzgerald's third book, stands as the supreme achievement of his career.",
		CoverImage:    "https://upload.wikimedia.org/wikipedia/commons/7/7a/The_Great_Gatsby_Cover_1925_Retouched.jpg",
	},
	{
		Title:         "Pride and Prejudice",
		Author:        "Jane Austen",
		ISBN:          "978-0141439518",
		PublishedYear: 1813,
		Genre:         "Romance",
		Description:   "Few have failed to be charmed by the witty and independent spirit of Elizabeth Bennet in Austen's beloved classic Pride and Prejudice.",
		CoverImage:    "https://upload.wikimedia.org/wikipedia/commons/1/17/PrideAndPrejudiceTitlePage.jpg",
	},
	{
		Title:         "The Hobbit",
		Author:        "J.R.R. Tolkien",
		ISBN:          "978-0547928227",
		PublishedYear: 1937,
		Genre:         "Fantasy",
		Description:   "A glorious account of a magnificent adventure, filled with suspense and seasoned with a quiet humor that is irresistible.",
		CoverImage:    "https://upload.wikimedia.org/wikipedia/en/4/4a/TheHobbit_FirstEdition.jpg",
	},
}

// Seeder writes the demo data through the regular services so passwords are
// hashed and books validated the same way as over HTTP.
type Seeder struct {
	auth    ports.AuthService
	users   ports.UserService
	catalog ports.CatalogService
	log     zerolog.Logger
}

func NewSeeder(auth ports.AuthService, users ports.UserService, catalog ports.CatalogService, log zerolog.Logger) *Seeder {
	return &Seeder{auth: auth, users: users, catalog: catalog, log: log}
}

// Run seeds the store unless it already holds books or users. It reports
// whether anything was written.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	books, err := s.catalog.ListBooks(ctx, domain.BookFilter{})
	if err != nil {
		return false, fmt.Errorf("seed: list books: %w", err)
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: list users: %w", err)
	}
	if len(books) > 0 || len(users) > 0 {
		s.log.Info().
			Int("books", len(books)).
			Int("users", len(users)).
			Msg("store already has data, skipping seed")
		return false, nil
	}

	for _, a := range Accounts {
		u, err := s.auth.Register(ctx, a.Name, a.Email, a.Password)
		if err != nil {
			return false, fmt.Errorf("seed: register %s: %w", a.Email, err)
		}
		if a.Role != domain.RoleUser {
			role := string(a.Role)
			if _, err := s.users.UpdateUser(ctx, u.ID, ports.UserPatch{Role: &role}); err != nil {
				return false, fmt.Errorf("seed: set role of %s: %w", a.Email, err)
			}
		}
	}

	for _, b := range Books {
		if _, err := s.catalog.AddBook(ctx, b); err != nil {
			return false, fmt.Errorf("seed: add %q: %w", b.Title, err)
		}
	}

	s.log.Info().
		Int("books", len(Books)).
		Int("users", len(Accounts)).
		Msg("store seeded")
	return true, nil
}
