package logger_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studytask/studytask-api/internal/config"
	"github.com/studytask/studytask-api/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	// Not parallel: Setup mutates the process-wide default logger.
	original := slog.Default()
	defer slog.SetDefault(original)

	tests := []struct {
		name     string
		logLevel string
	}{
		{name: "debug_level", logLevel: "debug"},
		{name: "info_level", logLevel: "info"},
		{name: "warn_level", logLevel: "warn"},
		{name: "error_level", logLevel: "error"},
		{name: "mixed_case", logLevel: "INFO"},
		{name: "invalid_level_falls_back_to_info", logLevel: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: tt.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.Same(t, log, slog.Default())
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns_stored_logger", func(t *testing.T) {
		t.Parallel()

		stored := slog.New(slog.NewTextHandler(os.Stderr, nil))
		ctx := logger.WithLogger(context.Background(), stored)
		assert.Same(t, stored, logger.FromContext(ctx))
	})

	t.Run("falls_back_to_default", func(t *testing.T) {
		t.Parallel()

		assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	})
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	stored := slog.New(slog.NewTextHandler(os.Stderr, nil))
	fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("prefers_context_logger", func(t *testing.T) {
		t.Parallel()

		ctx := logger.WithLogger(context.Background(), stored)
		assert.Same(t, stored, logger.FromContextOrDefault(ctx, fallback))
	})

	t.Run("uses_provided_default", func(t *testing.T) {
		t.Parallel()

		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("never_returns_nil", func(t *testing.T) {
		t.Parallel()

		assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
	})
}
