package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/infrastructure/queue"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// specific errors whose message is safe to show as is.
var publicErrors = []error{
	domain.ErrBookNotFound,
	domain.ErrUserNotFound,
	domain.ErrRecordNotFound,
	domain.ErrBookNotAvailable,
	domain.ErrBookNotBorrowed,
	domain.ErrBookOnLoan,
	domain.ErrUserHasLoans,
	domain.ErrUserExists,
	domain.ErrRecordNotOpen,
	domain.ErrInvalidRole,
	domain.ErrInvalidStatus,
	domain.ErrInvalidBook,
	domain.ErrWrongBorrower,
	domain.ErrForbidden,
	domain.ErrInvalidCredentials,
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Domain error kinds → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, publicMessage(err)
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, publicMessage(err)
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, validationMessage(err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, publicMessage(err)
	case errors.Is(err, queue.ErrStopped):
		return http.StatusServiceUnavailable, "service is shutting down"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// publicMessage returns the message of the most specific known error, without
// the operation prefixes added while it travelled up the stack.
func publicMessage(err error) string {
	for _, known := range publicErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "request failed"
}

// validationMessage keeps the field details of request validator errors.
func validationMessage(err error) string {
	if msg := publicMessage(err); msg != "request failed" {
		return msg
	}
	return err.Error()
}
