package uploads

import (
	"errors"
	"net/http"

	"github.com/vigiapix/vigia/pkg/storage"
)

// Domain errors for upload operations.
var (
	ErrInvalidFile  = errors.New("invalid or missing file")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
)

// MapHTTPStatus maps upload domain errors to HTTP status codes,
// delegating storage errors to the storage package mapping.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidFile) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return storage.MapHTTPStatus(err)
}
