package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := NewLogger(LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", zap.String("model", "wiki"))
	require.NoError(t, closeFn())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "wiki")
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "langprof.log")
	logger, closeFn, err := NewLogger(LogConfig{File: path, MaxSizeMB: 1}, nil)
	require.NoError(t, err)

	logger.Info("model trained", zap.Int("profile_grams", 7))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "model trained", line["msg"])
	assert.EqualValues(t, 7, line["profile_grams"])
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, _, err := NewLogger(LogConfig{Level: "loud"}, nil)
	assert.ErrorContains(t, err, "log.level")
}
