// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/vigiapix/vigia/internal/config"
	"github.com/vigiapix/vigia/internal/infrastructure"
	"github.com/vigiapix/vigia/pkg/middleware"
	"github.com/vigiapix/vigia/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every API route requires an authenticated caller; without a configured
// token issuer a fixed local identity is injected instead.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	if runtime.Identity != nil {
		m.Use(middleware.Authenticate(runtime.Identity, runtime.Logger))
	} else {
		m.Use(middleware.LocalIdentity("local"))
	}

	return m, nil
}
