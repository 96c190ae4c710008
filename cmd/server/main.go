// Package main implements the entry point for the StudyTask API server,
// a multi-tenant task tracker behind an external identity provider.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/studytask/studytask-api/internal/config"
	"github.com/studytask/studytask-api/internal/platform/logger"
	"github.com/studytask/studytask-api/internal/platform/postgres"
	"github.com/studytask/studytask-api/internal/service"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run database migrations (up|down|status|version) and exit")
	purgeAccount := flag.Int64("purge-account", 0,
		"administratively remove the account with this ID and all its tasks, then exit")
	flag.Parse()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrations(db, *migrateCmd, appLogger); err != nil {
			appLogger.Error("Migration failed", "command", *migrateCmd, "error", err)
			log.Fatalf("Migration failed: %v", err)
		}
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", "error", err)
		}
		return
	}

	if *purgeAccount > 0 {
		if err := purgeAccountByID(db, *purgeAccount, appLogger); err != nil {
			appLogger.Error("Account purge failed", "account_id", *purgeAccount, "error", err)
			log.Fatalf("Account purge failed: %v", err)
		}
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", "error", err)
		}
		return
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		appLogger.Error("Failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		appLogger.Error("Server error", "error", err)
		log.Fatalf("Server error: %v", err)
	}
}

// purgeAccountByID runs the administrative account removal against the
// connected database.
func purgeAccountByID(db *sql.DB, accountID int64, logger *slog.Logger) error {
	accounts := postgres.NewPostgresAccountStore(db, logger)
	tasks := postgres.NewPostgresTaskStore(db, logger)
	accountService := service.NewAccountService(db, accounts, tasks, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return accountService.Remove(ctx, accountID)
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"identity_mode", cfg.Identity.Mode)

	return cfg, appLogger, nil
}
