package domain

import "time"

// BorrowStatus is the lifecycle state of a BorrowRecord.
type BorrowStatus string

const (
	StatusActive   BorrowStatus = "active"
	StatusReturned BorrowStatus = "returned"
	StatusOverdue  BorrowStatus = "overdue"
)

// LoanPeriod is the fixed window from borrow to due date.
const LoanPeriod = 14 * 24 * time.Hour

// Valid reports whether s is a known status.
func (s BorrowStatus) Valid() bool {
	switch s {
	case StatusActive, StatusReturned, StatusOverdue:
		return true
	}
	return false
}

// Open reports whether a record in this status still holds the book.
func (s BorrowStatus) Open() bool {
	return s == StatusActive || s == StatusOverdue
}

// BorrowRecord is the log entry of a single loan. BookTitle and UserName are
// captured at borrow time and never follow later edits.
type BorrowRecord struct {
	ID         string       `json:"id" bson:"_id,omitempty"`
	BookID     string       `json:"book_id" bson:"book_id"`
	UserID     string       `json:"user_id" bson:"user_id"`
	BookTitle  string       `json:"book_title" bson:"book_title"`
	UserName   string       `json:"user_name" bson:"user_name"`
	BorrowDate time.Time    `json:"borrow_date" bson:"borrow_date"`
	DueDate    time.Time    `json:"due_date" bson:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty" bson:"return_date,omitempty"`
	Status     BorrowStatus `json:"status" bson:"status"`
}

// OverdueAt reports whether an active record is past due at now.
func (r *BorrowRecord) OverdueAt(now time.Time) bool {
	return r.Status == StatusActive && r.DueDate.Before(now)
}

// Clone returns a deep copy.
func (r *BorrowRecord) Clone() *BorrowRecord {
	c := *r
	if r.ReturnDate != nil {
		t := *r.ReturnDate
		c.ReturnDate = &t
	}
	return &c
}

// RecordFilter selects borrow records. Empty fields impose no constraint.
type RecordFilter struct {
	Status BorrowStatus
	UserID string
	BookID string
}

// Matches reports whether r satisfies the filter.
func (f RecordFilter) Matches(r *BorrowRecord) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.BookID != "" && r.BookID != f.BookID {
		return false
	}
	return true
}
