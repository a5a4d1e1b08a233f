package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentapi/internal/config"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LogConfig{Level: "info", Format: "json"}, "contentapi", &buf)

	logger.Debug("hidden")
	logger.Info("store opened", slog.String("backend", "file"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "store opened", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "contentapi", entry["service"])
	assert.Equal(t, "file", entry["backend"])
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LogConfig{Level: "debug", Format: "text"}, "contentapi", &buf)

	logger.Debug("loaded", slog.Int("items", 3))

	assert.Contains(t, buf.String(), "msg=loaded")
	assert.Contains(t, buf.String(), "items=3")
}

func TestNewWithWriter_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LogConfig{Level: "info", Format: "json"}, "contentapi", &buf)

	logger.Info("connecting", slog.String("password", "hunter2"), slog.String("user", "editor"))

	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), "editor")
}

func TestNew_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closer := New(config.LogConfig{
		Level:          "info",
		Format:         "json",
		File:           path,
		FileMaxSizeMB:  1,
		FileMaxBackups: 1,
	}, "contentapi")

	logger.Info("written to file")
	require.NoError(t, closer.Close())

	assert.FileExists(t, path)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("unknown"))
}
