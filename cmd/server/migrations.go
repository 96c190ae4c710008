package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

// migrationsDir is the on-disk location of the goose SQL migrations,
// relative to the server's working directory.
const migrationsDir = "migrations"

// gooseLogger adapts goose's logger interface to slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// runMigrations executes the requested goose command against the connected
// database. Each run gets a correlation ID so its log lines can be tied
// together in aggregated output.
func runMigrations(db *sql.DB, command string, logger *slog.Logger) error {
	runID := uuid.New().String()
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("migration_run_id", runID),
	)

	goose.SetLogger(&gooseLogger{logger: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info("Running migration command", "command", command)

	switch command {
	case "up":
		if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("goose up failed: %w", err)
		}
	case "down":
		if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("goose down failed: %w", err)
		}
	case "status":
		if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("goose status failed: %w", err)
		}
	case "version":
		version, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("goose version failed: %w", err)
		}
		log.Info("Current migration version", "version", version)
	default:
		return fmt.Errorf("unknown migration command %q (want up|down|status|version)", command)
	}

	log.Info("Migration command completed", "command", command)
	return nil
}
