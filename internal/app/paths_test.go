package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/project")
	assert.Equal(t, filepath.Join("/project", ".langprof"), p.Root)
	assert.Equal(t, filepath.Join("/project", ".langprof", "models.db"), p.DB)
	assert.Equal(t, filepath.Join("/project", ".langprof", "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join("/project", ".langprof", "status.json"), p.Status)
	assert.Equal(t, filepath.Join("/project", ".langprof", "log"), p.LogDir)
	assert.Equal(t, filepath.Join("/project", ".langprof", "export"), p.ExportDir)
	assert.Equal(t, filepath.Join("/project", ".langprof", "export", "wiki.msgpack"), p.ExportPath("wiki"))
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)

	// First call creates directories.
	require.NoError(t, p.EnsureDirs())
	for _, d := range []string{p.Root, p.LogDir, p.ExportDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}

	// Second call is idempotent.
	require.NoError(t, p.EnsureDirs())
}
