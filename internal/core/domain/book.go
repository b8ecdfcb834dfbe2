package domain

import (
	"strings"
	"time"
)

// Book is a catalog entry together with its current loan state.
//
// Available is false exactly when BorrowedBy is set, and BorrowDate/ReturnDate
// are present exactly when BorrowedBy is set. Only the loan service writes the
// loan fields.
type Book struct {
	ID            string     `json:"id" bson:"_id,omitempty"`
	Title         string     `json:"title" bson:"title"`
	Author        string     `json:"author" bson:"author"`
	ISBN          string     `json:"isbn" bson:"isbn"`
	PublishedYear int        `json:"published_year" bson:"published_year"`
	Genre         string     `json:"genre" bson:"genre"`
	Description   string     `json:"description" bson:"description"`
	CoverImage    string     `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	Available     bool       `json:"available" bson:"available"`
	BorrowedBy    string     `json:"borrowed_by,omitempty" bson:"borrowed_by,omitempty"`
	BorrowDate    *time.Time `json:"borrow_date,omitempty" bson:"borrow_date,omitempty"`
	ReturnDate    *time.Time `json:"return_date,omitempty" bson:"return_date,omitempty"` // due date of the current loan
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
}

// Lend puts the book on loan to userID.
func (b *Book) Lend(userID string, borrowDate, dueDate time.Time) {
	b.Available = false
	b.BorrowedBy = userID
	b.BorrowDate = &borrowDate
	b.ReturnDate = &dueDate
	b.UpdatedAt = borrowDate
}

// Release clears the loan fields and makes the book available again.
func (b *Book) Release(at time.Time) {
	b.Available = true
	b.BorrowedBy = ""
	b.BorrowDate = nil
	b.ReturnDate = nil
	b.UpdatedAt = at
}

// LoanConsistent reports whether the availability flag agrees with the loan fields.
func (b *Book) LoanConsistent() bool {
	onLoan := b.BorrowedBy != ""
	return b.Available != onLoan &&
		(b.BorrowDate != nil) == onLoan &&
		(b.ReturnDate != nil) == onLoan
}

// Clone returns a deep copy.
func (b *Book) Clone() *Book {
	c := *b
	if b.BorrowDate != nil {
		t := *b.BorrowDate
		c.BorrowDate = &t
	}
	if b.ReturnDate != nil {
		t := *b.ReturnDate
		c.ReturnDate = &t
	}
	return &c
}

// BookFilter selects books for ListBooks. Nil fields impose no constraint.
type BookFilter struct {
	Title     *string // case-insensitive substring
	Author    *string // case-insensitive substring
	Genre     *string // case-insensitive exact match
	Available *bool
}

// Matches reports whether b satisfies every set field of the filter.
func (f BookFilter) Matches(b *Book) bool {
	if f.Title != nil && !containsFold(b.Title, *f.Title) {
		return false
	}
	if f.Author != nil && !containsFold(b.Author, *f.Author) {
		return false
	}
	if f.Genre != nil && !strings.EqualFold(b.Genre, *f.Genre) {
		return false
	}
	if f.Available != nil && b.Available != *f.Available {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
