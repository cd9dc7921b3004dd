package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/faqhub/faq-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		logger, err := Setup(config.ServerConfig{LogLevel: level})
		require.NoError(t, err, "Setup should succeed for level %q", level)
		require.NotNil(t, logger, "Setup should return a logger for level %q", level)
	}
}

func TestSetupInvalidLevelFallsBack(t *testing.T) {
	logger, err := Setup(config.ServerConfig{LogLevel: "verbose"})
	require.NoError(t, err, "Setup should not fail for an unknown level")
	require.NotNil(t, logger)

	// Falls back to info: debug is filtered, info is not.
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestWithLoggerRoundTrip(t *testing.T) {
	base := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := WithLogger(context.Background(), base)

	assert.Same(t, base, FromContext(ctx))
	assert.Same(t, base, FromContextOrDefault(ctx, nil))
}

func TestFromContextFallbacks(t *testing.T) {
	ctx := context.Background()

	assert.NotNil(t, FromContext(ctx), "FromContext should fall back to the default logger")

	def := slog.New(slog.NewTextHandler(os.Stderr, nil))
	assert.Same(t, def, FromContextOrDefault(ctx, def))
}
