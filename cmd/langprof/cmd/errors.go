package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corey/langprof/internal/adapters/bbolt"
	"github.com/corey/langprof/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// openStore opens the workspace model store, creating .langprof/ on first use.
// A lock timeout is turned into actionable guidance.
func openStore(paths *app.Paths) (*bbolt.Store, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}
	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		if isDBLockError(err) {
			return nil, errors.New(diagnoseDBLock(paths.DB))
		}
		return nil, err
	}
	return store, nil
}

// diagnoseDBLock explains a held model database lock. The usual holder is a
// "langprof train --watch" left running in another terminal.
func diagnoseDBLock(dbPath string) string {
	return fmt.Sprintf("model database %s is locked by another process\n"+
		"  → a running 'langprof train --watch' holds it; stop it first\n"+
		"  → find the process:  ps aux | grep 'langprof'\n"+
		"  → then retry your command", dbPath)
}
