package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level, format string) (*Logger, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	l, err := New(&Config{
		Level:      level,
		Format:     format,
		TimeFormat: time.RFC3339,
		writer:     output,
	})
	require.NoError(t, err)
	require.NotNil(t, l)

	return l, output
}

func decodeLines(t *testing.T, output *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(output.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		wantLevel string
	}{
		{level: "debug", wantLevel: "DEBUG"},
		{level: "info", wantLevel: "INFO"},
		{level: "warn", wantLevel: "WARN"},
		{level: "error", wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, output := newBufferLogger(t, tt.level, "json")

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message", slog.String("job_id", "abc"))

			entries := decodeLines(t, output)
			require.NotEmpty(t, entries)
			assert.Equal(t, tt.wantLevel, entries[0]["level"])
			assert.Equal(t, "ERROR", entries[len(entries)-1]["level"])
			assert.Equal(t, "abc", entries[len(entries)-1]["job_id"])
		})
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	l, output := newBufferLogger(t, "info", "console")

	l.Info("listing jobs", slog.Int("page", 2))

	// tint abbreviates levels
	assert.Contains(t, output.String(), "INF")
	assert.Contains(t, output.String(), "listing jobs")
	assert.Contains(t, output.String(), "page")
}

func TestNew_SourceLocation(t *testing.T) {
	output := &bytes.Buffer{}
	l, err := New(&Config{Level: "info", Format: "json", EnableSource: true, writer: output})
	require.NoError(t, err)

	l.Info("message with source")

	entries := decodeLines(t, output)
	require.Len(t, entries, 1)
	source, ok := entries[0]["source"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, source, "function")
	assert.Contains(t, source, "file")
	assert.Contains(t, source, "line")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")

	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("written to file", slog.String("user_id", "u-1"))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), "u-1")
}

func TestNew_FileOutputError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "api.log")

	l, err := New(&Config{Output: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log file")
	assert.Nil(t, l)
}

func TestNewDefault(t *testing.T) {
	l := NewDefault()
	require.NotNil(t, l)
	assert.NotNil(t, l.Logger)
	assert.NoError(t, l.Close())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelInfo}, // case-sensitive
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestLogger_WithGroup(t *testing.T) {
	l, output := newBufferLogger(t, "info", "json")

	l.WithGroup("job").Info("created", slog.String("id", "42"))

	entries := decodeLines(t, output)
	require.Len(t, entries, 1)
	group, ok := entries[0]["job"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "42", group["id"])
}

func TestLogger_WithAttrs(t *testing.T) {
	l, output := newBufferLogger(t, "info", "json")

	l.WithAttrs(
		slog.String("request_id", "12345"),
		slog.String("user_id", "user-67890"),
	).Info("test message")

	entries := decodeLines(t, output)
	require.Len(t, entries, 1)
	assert.Equal(t, "12345", entries[0]["request_id"])
	assert.Equal(t, "user-67890", entries[0]["user_id"])
	assert.Equal(t, "test message", entries[0]["msg"])
}

func TestLogger_With(t *testing.T) {
	l, output := newBufferLogger(t, "info", "json")

	l.With(slog.String("service", "api"), slog.Int("version", 1)).Info("operation complete")

	entries := decodeLines(t, output)
	require.Len(t, entries, 1)
	assert.Equal(t, "api", entries[0]["service"])
	assert.Equal(t, float64(1), entries[0]["version"]) // JSON numbers are float64
}
