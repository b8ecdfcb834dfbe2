package metrics

import (
	"errors"

	"github.com/bookhaven/library-system/internal/core/domain"
)

// Reason maps an error to the low-cardinality reason label.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	}
	return "internal"
}
