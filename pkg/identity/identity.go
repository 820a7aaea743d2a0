// Package identity provides bearer token verification backed by an
// OpenID Connect provider.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/vigiapix/vigia/pkg/lifecycle"
)

// Identity describes the authenticated caller of a request.
type Identity struct {
	Subject string `json:"subject"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

// System verifies raw bearer tokens and resolves them to an Identity.
type System interface {
	// Start registers a startup hook that performs provider discovery.
	Start(lc *lifecycle.Coordinator) error
	// Verify validates a raw ID token and returns the caller identity.
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

type oidcSystem struct {
	cfg    *Config
	logger *slog.Logger

	mu       sync.RWMutex
	verifier *oidc.IDTokenVerifier
}

// New creates an identity system from the given configuration.
// Provider discovery is deferred until Start.
func New(cfg *Config, logger *slog.Logger) System {
	return &oidcSystem{
		cfg:    cfg,
		logger: logger.With("system", "identity"),
	}
}

func (s *oidcSystem) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting identity system", "issuer", s.cfg.Issuer)

	lc.OnStartup(func() {
		provider, err := oidc.NewProvider(lc.Context(), s.cfg.Issuer)
		if err != nil {
			s.logger.Error("provider discovery failed", "issuer", s.cfg.Issuer, "error", err)
			return
		}

		s.mu.Lock()
		s.verifier = provider.Verifier(&oidc.Config{ClientID: s.cfg.Audience})
		s.mu.Unlock()

		s.logger.Info("identity provider ready", "issuer", s.cfg.Issuer)
	})

	return nil
}

func (s *oidcSystem) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	s.mu.RLock()
	verifier := s.verifier
	s.mu.RUnlock()

	if verifier == nil {
		return nil, ErrNotReady
	}

	token, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}

	return &Identity{
		Subject: token.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}
