package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-system/internal/api/metrics"
	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// BookHandler serves the catalog.
type BookHandler struct {
	catalog ports.CatalogService
}

func NewBookHandler(catalog ports.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

// List returns the books matching the query filters in insertion order.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Param        title      query     string  false  "Case-insensitive title substring"
// @Param        author     query     string  false  "Case-insensitive author substring"
// @Param        genre      query     string  false  "Genre, case-insensitive exact match"
// @Param        available  query     bool    false  "Availability"
// @Success      200        {object}  listResponse[bookResponse]
// @Failure      400        {object}  errorResponse
// @Router       /v1/books [get]
func (h *BookHandler) List(c echo.Context) error {
	filter, err := bookFilterFromQuery(c)
	if err != nil {
		return err
	}

	books, err := h.catalog.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapList(books, toBookResponse))
}

// Get returns a single book.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.catalog.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Create adds a book to the catalog.
//
// @Summary      Add a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book details"
// @Success      201   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.catalog.AddBook(c.Request().Context(), toBookInput(req))
	if err != nil {
		return err
	}

	metrics.BooksCreatedTotal.Inc()
	c.Response().Header().Set(echo.HeaderLocation, "/v1/books/"+book.ID)
	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// Update changes the descriptive fields of a book.
//
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Book id"
// @Param        body  body      bookPatchRequest  true  "Fields to change"
// @Success      200   {object}  bookResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	var req bookPatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.catalog.UpdateBook(c.Request().Context(), c.Param("id"), toBookPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Delete removes a book that is not on loan.
//
// @Summary      Delete a book
// @Tags         books
// @Security     BearerAuth
// @Param        id   path  string  true  "Book id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	if err := h.catalog.DeleteBook(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bookFilterFromQuery(c echo.Context) (domain.BookFilter, error) {
	var f domain.BookFilter
	if v := c.QueryParam("title"); v != "" {
		f.Title = &v
	}
	if v := c.QueryParam("author"); v != "" {
		f.Author = &v
	}
	if v := c.QueryParam("genre"); v != "" {
		f.Genre = &v
	}
	if v := c.QueryParam("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "available must be true or false")
		}
		f.Available = &b
	}
	return f, nil
}
