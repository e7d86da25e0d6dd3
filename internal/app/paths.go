package app

import (
	"os"
	"path/filepath"

	"github.com/corey/langprof/internal/domain/status"
)

// Paths holds all resolved filesystem paths for the .langprof/ workspace directory.
// All fields are pre-computed strings.
type Paths struct {
	Root   string // .langprof/
	DB     string // .langprof/models.db
	Config string // .langprof/config.yaml
	Status string // .langprof/status.json

	LogDir string // .langprof/log/, base for relative log.file values

	ExportDir string // .langprof/export/
}

// NewPaths constructs all resolved paths from a workspace root directory.
func NewPaths(workspaceRoot string) *Paths {
	root := filepath.Join(workspaceRoot, ".langprof")
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "models.db"),
		Config: filepath.Join(root, "config.yaml"),
		Status: filepath.Join(root, status.StatusFile),

		LogDir: filepath.Join(root, "log"),

		ExportDir: filepath.Join(root, "export"),
	}
}

// EnsureDirs creates all subdirectories under .langprof/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.ExportDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// ExportPath is the default destination for "export" when no -o is given.
func (p *Paths) ExportPath(model string) string {
	return filepath.Join(p.ExportDir, model+".msgpack")
}
