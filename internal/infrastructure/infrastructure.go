// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, identity, scoring)
// that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/vigiapix/vigia/internal/config"
	"github.com/vigiapix/vigia/internal/scoring"
	"github.com/vigiapix/vigia/pkg/database"
	"github.com/vigiapix/vigia/pkg/identity"
	"github.com/vigiapix/vigia/pkg/lifecycle"
	"github.com/vigiapix/vigia/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, file storage, token verification, and the
// risk scoring engine. Identity is nil when no token issuer is
// configured.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Identity  identity.System
	Scoring   *scoring.Engine
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	var ids identity.System
	if cfg.Identity.Enabled() {
		ids = identity.New(&cfg.Identity, logger)
	} else {
		logger.Warn("no token issuer configured, running unauthenticated")
	}

	engine, err := newEngine(&cfg.Scoring, logger)
	if err != nil {
		return nil, fmt.Errorf("scoring init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Identity:  ids,
		Scoring:   engine,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database, storage, and identity hooks are registered for startup and
// shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if i.Identity != nil {
		if err := i.Identity.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("identity start failed: %w", err)
		}
	}
	return nil
}

// newEngine builds the scoring engine, attaching the external
// classifier only when an API key is configured. Without one the engine
// runs heuristic-only.
func newEngine(cfg *scoring.Config, logger *slog.Logger) (*scoring.Engine, error) {
	var classifier scoring.Classifier

	if cfg.Enabled() {
		c, err := scoring.NewGeminiClassifier(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		classifier = c
	} else {
		logger.Warn("no classifier API key configured, scoring runs heuristic-only")
	}

	return scoring.NewEngine(classifier, cfg.TimeoutDuration(), logger), nil
}
