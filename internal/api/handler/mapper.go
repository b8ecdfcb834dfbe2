package handler

import (
	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// --- Request → Service input ---

func toBookInput(req bookRequest) ports.BookInput {
	return ports.BookInput{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		PublishedYear: req.PublishedYear,
		Genre:         req.Genre,
		Description:   req.Description,
		CoverImage:    req.CoverImage,
	}
}

func toBookPatch(req bookPatchRequest) ports.BookPatch {
	return ports.BookPatch{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		PublishedYear: req.PublishedYear,
		Genre:         req.Genre,
		Description:   req.Description,
		CoverImage:    req.CoverImage,
	}
}

func toUserPatch(req userPatchRequest) ports.UserPatch {
	return ports.UserPatch{Name: req.Name, Email: req.Email, Role: req.Role}
}

// --- Domain → HTTP response ---

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedYear: b.PublishedYear,
		Genre:         b.Genre,
		Description:   b.Description,
		CoverImage:    b.CoverImage,
		Available:     b.Available,
		BorrowedBy:    b.BorrowedBy,
		BorrowDate:    b.BorrowDate,
		ReturnDate:    b.ReturnDate,
		CreatedAt:     b.CreatedAt.UTC(),
		UpdatedAt:     b.UpdatedAt.UTC(),
	}
}

func toUserResponse(u *domain.User) *userResponse {
	borrowed := u.BorrowedBooks
	if borrowed == nil {
		borrowed = []string{}
	}
	return &userResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		BorrowedBooks: borrowed,
		CreatedAt:     u.CreatedAt.UTC(),
	}
}

func toRecordResponse(r *domain.BorrowRecord) recordResponse {
	return recordResponse{
		ID:         r.ID,
		BookID:     r.BookID,
		UserID:     r.UserID,
		BookTitle:  r.BookTitle,
		UserName:   r.UserName,
		BorrowDate: r.BorrowDate.UTC(),
		DueDate:    r.DueDate.UTC(),
		ReturnDate: r.ReturnDate,
		Status:     string(r.Status),
	}
}

func mapList[S any, T any](items []S, fn func(S) T) listResponse[T] {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return listResponse[T]{Data: out, Count: len(out)}
}
