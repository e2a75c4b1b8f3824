package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	testCases := []struct {
		level        string
		debugVisible bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"DEBUG", true}, // case-insensitive
		{"bogus", false},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := setupWithWriter(tc.level, &buf)
			require.NoError(t, err)

			logger.Debug("debug message")
			logger.Info("info message")

			output := buf.String()
			assert.Equal(t, tc.debugVisible, strings.Contains(output, "debug message"))
			if tc.level != "error" {
				assert.Contains(t, output, "info message")
			}
		})
	}
}

func TestSetupEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := setupWithWriter("info", &buf)
	require.NoError(t, err)

	logger.Info("hello", slog.String("component", "test"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
}

func TestContextCarrier(t *testing.T) {
	base := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), base)

	assert.Same(t, base, FromContext(ctx))
	assert.Same(t, base, FromContextOrDefault(ctx, nil))

	// Without a stored logger, the fallback wins.
	fallback := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))

	// Without a stored logger or fallback, the default is returned.
	assert.NotNil(t, FromContext(context.Background()))
}
