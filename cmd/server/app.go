package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/studytask/studytask-api/internal/config"
	"github.com/studytask/studytask-api/internal/platform/postgres"
	"github.com/studytask/studytask-api/internal/platform/securetoken"
	"github.com/studytask/studytask-api/internal/service"
	"github.com/studytask/studytask-api/internal/service/identity"
	"github.com/studytask/studytask-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	accountStore store.AccountStore
	taskStore    store.TaskStore

	// Service interfaces
	resolver    identity.Resolver
	taskService service.TaskService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.accountStore = postgres.NewPostgresAccountStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	provider, err := setupIdentityProvider(cfg.Identity, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity provider: %w", err)
	}
	logger.Info("Identity provider initialized", "mode", cfg.Identity.Mode)

	verifier := identity.NewVerifier(provider, logger)
	app.resolver = identity.NewResolver(verifier, app.accountStore, logger)
	app.taskService = service.NewTaskService(app.taskStore, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupIdentityProvider selects the token verification backend from config:
// a remote verification endpoint in production, locally verified HS256
// tokens for development.
func setupIdentityProvider(cfg config.IdentityConfig, logger *slog.Logger) (identity.Provider, error) {
	switch cfg.Mode {
	case "remote":
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		return securetoken.NewClient(cfg.VerifyURL, cfg.Audience, timeout, logger)
	case "hmac":
		return identity.NewHMACProvider(cfg.HMACSecret, cfg.Issuer, cfg.Audience)
	default:
		return nil, fmt.Errorf("unknown identity mode %q", cfg.Mode)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
