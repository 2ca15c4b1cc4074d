package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-service/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("Warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" ERROR "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.ConfigLogger{Level: "warn", Format: "json"}, &buf)

	log.Info("hidden")
	log.Warn("shown", "id", "42")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "42", entry["id"])
}

func TestNewWithWriter_TextAndNilConfig(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&config.ConfigLogger{Format: "text"}, &buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	NewWithWriter(nil, &buf).Debug("dropped")
	assert.Empty(t, buf.String())
}
