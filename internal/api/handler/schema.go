package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type bookRequest struct {
	Title         string `json:"title"          validate:"required"`
	Author        string `json:"author"         validate:"required"`
	ISBN          string `json:"isbn"`
	PublishedYear int    `json:"published_year" validate:"gte=0"`
	Genre         string `json:"genre"`
	Description   string `json:"description"`
	CoverImage    string `json:"cover_image"    validate:"omitempty,url"`
}

// bookPatchRequest leaves absent fields untouched.
type bookPatchRequest struct {
	Title         *string `json:"title"          validate:"omitempty,min=1"`
	Author        *string `json:"author"         validate:"omitempty,min=1"`
	ISBN          *string `json:"isbn"`
	PublishedYear *int    `json:"published_year" validate:"omitempty,gte=0"`
	Genre         *string `json:"genre"`
	Description   *string `json:"description"`
	CoverImage    *string `json:"cover_image"    validate:"omitempty,url"`
}

// loanRequest names the member a librarian or admin acts for. Members
// acting for themselves send an empty body.
type loanRequest struct {
	UserID string `json:"user_id"`
}

type userPatchRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract does not follow
// internal changes.

type bookResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	ISBN          string     `json:"isbn"`
	PublishedYear int        `json:"published_year"`
	Genre         string     `json:"genre"`
	Description   string     `json:"description"`
	CoverImage    string     `json:"cover_image,omitempty"`
	Available     bool       `json:"available"`
	BorrowedBy    string     `json:"borrowed_by,omitempty"`
	BorrowDate    *time.Time `json:"borrow_date,omitempty"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type userResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	BorrowedBooks []string  `json:"borrowed_books"`
	CreatedAt     time.Time `json:"created_at"`
}

type recordResponse struct {
	ID         string     `json:"id"`
	BookID     string     `json:"book_id"`
	UserID     string     `json:"user_id"`
	BookTitle  string     `json:"book_title"`
	UserName   string     `json:"user_name"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}

type listResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

type sweepResponse struct {
	Updated int       `json:"updated"`
	At      time.Time `json:"at"`
}
