package evidence

import "errors"

// Input errors for evidence bundles.
var (
	ErrInvalidKind = errors.New("invalid evidence kind")
	ErrEmptyBundle = errors.New("evidence bundle has no text, payload, or url")
)
