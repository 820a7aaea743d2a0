package api

import (
	"github.com/vigiapix/vigia/internal/verifications"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Verifications verifications.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	verificationsSystem := verifications.New(
		runtime.Database.Connection(),
		runtime.Scoring,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Verifications: verificationsSystem,
	}
}
