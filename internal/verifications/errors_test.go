package verifications_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/vigiapix/vigia/internal/evidence"
	"github.com/vigiapix/vigia/internal/verifications"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", verifications.ErrNotFound, http.StatusNotFound},
		{"duplicate", verifications.ErrDuplicate, http.StatusConflict},
		{"unauthenticated", verifications.ErrUnauthenticated, http.StatusUnauthorized},
		{"invalid kind", evidence.ErrInvalidKind, http.StatusBadRequest},
		{"empty bundle", evidence.ErrEmptyBundle, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("find: %w", verifications.ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := verifications.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
