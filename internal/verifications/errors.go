package verifications

import (
	"errors"
	"net/http"

	"github.com/vigiapix/vigia/internal/evidence"
)

// Domain errors for verification operations.
var (
	ErrNotFound        = errors.New("verification not found")
	ErrDuplicate       = errors.New("verification already exists")
	ErrSaveFailed      = errors.New("verification save failed")
	ErrUnauthenticated = errors.New("authentication required")
)

// MapHTTPStatus maps verification domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, evidence.ErrInvalidKind), errors.Is(err, evidence.ErrEmptyBundle):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
