package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetup_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, cleanup, err := setup(&console, "", slog.LevelInfo)
	require.NoError(t, err)
	defer cleanup()

	logger.Debug("hidden")
	logger.Info("split", "path", "a.pyi")

	out := console.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=split")
	assert.Contains(t, out, "path=a.pyi")
}

func TestSetup_TeesToJSONFile(t *testing.T) {
	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "stubsplit.log")

	logger, cleanup, err := setup(&console, logFile, slog.LevelInfo)
	require.NoError(t, err)

	logger.With("op", "combine").Info("merged", "matched", 2)
	cleanup()

	assert.Contains(t, console.String(), "msg=merged")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "merged", record["msg"])
	assert.Equal(t, "combine", record["op"])
	assert.Equal(t, float64(2), record["matched"])
}
