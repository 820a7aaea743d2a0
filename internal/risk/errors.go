package risk

import "errors"

// ErrInvalidLevel indicates an unrecognized risk level value.
var ErrInvalidLevel = errors.New("invalid risk level")
