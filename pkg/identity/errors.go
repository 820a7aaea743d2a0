package identity

import "errors"

var (
	// ErrNotReady indicates provider discovery has not completed.
	ErrNotReady = errors.New("identity provider not ready")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("missing bearer token")
)
