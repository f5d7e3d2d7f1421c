package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "login_page", sanitize("login page"))
	assert.Equal(t, "run", sanitize("///"))
	assert.Len(t, sanitize(strings.Repeat("a", 100)), 60)
}

func TestFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("hello", "page", "login", "count", 2, "error", errors.New("boom"), "dangling")

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "login", ctx["page"])
	assert.EqualValues(t, 2, ctx["count"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "dangling", ctx["!BADKEY"])
}

func TestWithFieldIsScoped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	root := NewFromZap(zap.New(core))

	child := root.WithField("page", "checkout").WithFields(map[string]any{"run": "r1"})
	child.Warn("slow")
	root.Warn("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "checkout", entries[0].ContextMap()["page"])
	assert.Equal(t, "r1", entries[0].ContextMap()["run"])
	assert.NotContains(t, entries[1].ContextMap(), "page")
}

func TestNewLoggerAdapter_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Dir = dir

	l, err := NewLoggerAdapter("smoke run", cfg)
	require.NoError(t, err)

	l.Info("page loaded", "page", "login")
	l.Debug("filtered out")
	require.NoError(t, l.Close())

	files, err := filepath.Glob(filepath.Join(dir, "*_smoke_run.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "page loaded", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "login", entry["page"])
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Error("ignored", "k", "v")
	assert.NoError(t, l.Close())
}
