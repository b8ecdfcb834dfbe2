package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these so
// callers can branch on the kind with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrBookNotFound   = fmt.Errorf("book %w", ErrNotFound)
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)
	ErrRecordNotFound = fmt.Errorf("borrow record %w", ErrNotFound)

	ErrBookNotAvailable = fmt.Errorf("%w: book is not available", ErrConflict)
	ErrBookNotBorrowed  = fmt.Errorf("%w: book is not borrowed", ErrConflict)
	ErrBookOnLoan       = fmt.Errorf("%w: book is currently borrowed", ErrConflict)
	ErrUserHasLoans     = fmt.Errorf("%w: user has borrowed books", ErrConflict)
	ErrUserExists       = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrRecordNotOpen    = fmt.Errorf("%w: borrow record is not open", ErrConflict)

	ErrInvalidRole   = fmt.Errorf("%w: unknown role", ErrValidation)
	ErrInvalidStatus = fmt.Errorf("%w: unknown borrow status", ErrValidation)
	ErrInvalidBook   = fmt.Errorf("%w: title and author are required", ErrValidation)

	ErrWrongBorrower      = fmt.Errorf("%w: book is not borrowed by this user", ErrUnauthorized)
	ErrForbidden          = fmt.Errorf("%w: access forbidden", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
)
