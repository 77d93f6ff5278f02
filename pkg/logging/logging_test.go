package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.DebugLevel))

	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")

	assert.Contains(t, buf.String(), "info message")
	assert.Contains(t, buf.String(), "warning message")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithRunID(ctx, "run-123")
	ctx = logging.WithAttempt(ctx, 2)
	ctx = logging.WithPage(ctx, 7)
	ctx = logging.WithSource(ctx, "https://shop.example.com")
	ctx = logging.WithOperation(ctx, "sync")

	logging.FromContext(ctx).Info().Msg("page fetched")

	testLogger.AssertContains(t, `"run_id":"run-123"`)
	testLogger.AssertContains(t, `"attempt":2`)
	testLogger.AssertContains(t, `"page":7`)
	testLogger.AssertContains(t, `"source":"https://shop.example.com"`)
	testLogger.AssertContains(t, `"operation":"sync"`)
	testLogger.AssertContains(t, "page fetched")
	assert.Equal(t, "run-123", logging.RunID(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Empty(t, logging.RunID(context.Background()))
}

func TestWithFields(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithFields(ctx, map[string]any{
		"source": "example.com",
		"pages":  3,
		"dry":    true,
	})

	logging.FromContext(ctx).Info().Msg("configured")

	testLogger.AssertContains(t, `"source":"example.com"`)
	testLogger.AssertContains(t, `"pages":3`)
	testLogger.AssertContains(t, `"dry":true`)
}

func TestNewLoggerFromConfig(t *testing.T) {
	t.Run("file output writes json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shelf.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "warn",
			Format: "json",
			Output: path,
			Fields: map[string]any{"service": "shelf"},
		})

		logger.Info().Msg("hidden")
		logger.Warn().Msg("shown")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "shown")
		assert.Contains(t, string(data), `"service":"shelf"`)
		assert.NotContains(t, string(data), "hidden")
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(nil)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("disabled level", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "off", Output: "discard"})
		assert.Equal(t, zerolog.Disabled, logger.GetLevel())
	})
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)

	logging.Warn().Int("unique", 40).Msg("snapshot below threshold")

	assert.Equal(t, 1, captured.Count())
	require.Len(t, captured.Lines(), 1)
	assert.Contains(t, captured.Lines()[0], `"unique":40`)
	captured.AssertContains(t, "snapshot below threshold")
	captured.AssertNotContains(t, "accepted")
}
