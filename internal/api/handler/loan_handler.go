package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-system/internal/core/ports"
)

// LoanHandler serves borrow and return. The loan service behind it is the
// sharded dispatcher in production.
type LoanHandler struct {
	loans ports.LoanService
}

func NewLoanHandler(loans ports.LoanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

// Borrow lends the book to the caller, or to user_id when a librarian or
// admin borrows on a member's behalf.
//
// @Summary      Borrow a book
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true   "Book id"
// @Param        body  body      loanRequest  false  "Member to borrow for"
// @Success      200   {object}  bookResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/books/{id}/borrow [post]
func (h *LoanHandler) Borrow(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	req, err := bindLoan(c)
	if err != nil {
		return err
	}
	userID := req.UserID
	if userID == "" {
		userID = actor.ID
	}

	book, err := h.loans.Borrow(c.Request().Context(), ports.BorrowInput{
		BookID: c.Param("id"),
		UserID: userID,
		Actor:  actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Return ends the current loan of the book. Members return their own books;
// librarians and admins may return for the borrower.
//
// @Summary      Return a book
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true   "Book id"
// @Param        body  body      loanRequest  false  "Borrower, for staff returns"
// @Success      200   {object}  bookResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/books/{id}/return [post]
func (h *LoanHandler) Return(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	req, err := bindLoan(c)
	if err != nil {
		return err
	}
	userID := req.UserID
	if userID == "" && !actor.Role.CanManageLoans() {
		userID = actor.ID
	}

	book, err := h.loans.Return(c.Request().Context(), ports.ReturnInput{
		BookID: c.Param("id"),
		UserID: userID,
		Actor:  actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// bindLoan accepts an empty body.
func bindLoan(c echo.Context) (loanRequest, error) {
	var req loanRequest
	if c.Request().ContentLength == 0 {
		return req, nil
	}
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return req, nil
}
