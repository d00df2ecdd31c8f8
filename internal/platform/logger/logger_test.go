package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		name     string
		level    string
		logDebug bool
		logInfo  bool
		logWarn  bool
	}{
		{"debug", "debug", true, true, true},
		{"info", "INFO", false, true, true},
		{"warn", "warn", false, false, true},
		{"invalid falls back to info", "verbose", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tt.level}, &buf)
			require.NoError(t, err)
			require.NotNil(t, log)

			ctx := context.Background()
			assert.Equal(t, tt.logDebug, log.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.logInfo, log.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.logWarn, log.Enabled(ctx, slog.LevelWarn))
			assert.Same(t, log, slog.Default())
		})
	}
}

func TestSetupWritesJSON(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	log, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info", AppName: "taskboard"}, &buf)
	require.NoError(t, err)

	log.Info("hello", "task_id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "taskboard", entry["service"])
	assert.Equal(t, "abc", entry["task_id"])
}

func TestContextLogger(t *testing.T) {
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))

	var buf bytes.Buffer
	custom := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := logger.WithLogger(context.Background(), custom)
	assert.Same(t, custom, logger.FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))

	custom := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx := logger.WithLogger(context.Background(), custom)
	assert.Same(t, custom, logger.FromContextOrDefault(ctx, fallback))
}
