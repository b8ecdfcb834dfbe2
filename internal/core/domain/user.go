package domain

import (
	"slices"
	"time"
)

// Role names an authorization level.
type Role string

const (
	RoleUser      Role = "user"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

// CanManageLoans reports whether the role may act on other members' loans.
func (r Role) CanManageLoans() bool {
	return r == RoleLibrarian || r == RoleAdmin
}

// User models a library member or staff account.
//
// BorrowedBooks always equals the set of book ids whose BorrowedBy is this user.
type User struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Name          string    `json:"name" bson:"name"`
	Email         string    `json:"email" bson:"email"`
	PasswordHash  string    `json:"-" bson:"password_hash"`
	Role          Role      `json:"role" bson:"role"`
	BorrowedBooks []string  `json:"borrowed_books" bson:"borrowed_books"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// HasBorrowed reports whether bookID is in the user's borrowed list.
func (u *User) HasBorrowed(bookID string) bool {
	return slices.Contains(u.BorrowedBooks, bookID)
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	c := *u
	c.BorrowedBooks = slices.Clone(u.BorrowedBooks)
	return &c
}

// Actor is the authenticated caller on whose behalf an operation runs.
type Actor struct {
	ID   string
	Role Role
}

// SystemActor is used by background jobs and the CLI.
var SystemActor = Actor{ID: "system", Role: RoleAdmin}
