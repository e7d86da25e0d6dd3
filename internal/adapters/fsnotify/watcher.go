// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches a corpus file or a corpus directory tree, filters out editor temp files
// and hidden directories, and debounces bursts (editors and dump tools often write a
// file several times in quick succession) so each settled change fires once.
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before onChange fires.
const DefaultDebounce = 500 * time.Millisecond

// Temp-file suffixes written by editors and download tools.
var ignoreSuffixes = []string{".swp", ".swx", ".tmp", ".part", ".crdownload", "~"}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex

	pending map[string]*time.Timer
	pmu     sync.Mutex
}

// NewWatcher creates a new file system watcher. A non-positive debounce
// selects DefaultDebounce.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fw:       fw,
		debounce: debounce,
		done:     make(chan struct{}),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring path. For a file, its parent directory is watched
// and only events for that file are reported, so atomic replace-by-rename
// saves are seen. For a directory, the whole tree is watched.
// onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(path string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}

	var only string
	if info.IsDir() {
		err = filepath.Walk(absPath, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return nil // skip inaccessible paths
			}
			if fi.IsDir() {
				if shouldIgnoreDir(fi.Name()) && p != absPath {
					return filepath.SkipDir
				}
				return w.fw.Add(p)
			}
			return nil
		})
	} else {
		only = absPath
		err = w.fw.Add(filepath.Dir(absPath))
	}
	if err != nil {
		return err
	}

	go w.loop(absPath, only, onChange)
	return nil
}

func (w *Watcher) loop(root, only string, onChange func(string)) {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			p := event.Name

			// New directories in a watched tree get watched too.
			if only == "" && event.Has(fsnotify.Create) {
				if fi, err := os.Stat(p); err == nil && fi.IsDir() {
					if !shouldIgnoreDir(fi.Name()) {
						w.fw.Add(p)
					}
					continue
				}
			}

			// An explicitly watched file is never filtered; tree events are
			// filtered on their path below the watched root only.
			if only != "" {
				if p != only {
					continue
				}
			} else if shouldIgnorePath(root, p) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.schedule(p, onChange)
			}

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Errors are swallowed; fsnotify recovers on its own.

		case <-w.done:
			return
		}
	}
}

// schedule (re)arms the per-path timer; onChange fires once the path has
// been quiet for the debounce interval.
func (w *Watcher) schedule(p string, onChange func(string)) {
	w.pmu.Lock()
	defer w.pmu.Unlock()
	if t, ok := w.pending[p]; ok {
		t.Stop()
	}
	w.pending[p] = time.AfterFunc(w.debounce, func() {
		w.pmu.Lock()
		delete(w.pending, p)
		w.pmu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		onChange(p)
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)

	w.pmu.Lock()
	for p, t := range w.pending {
		t.Stop()
		delete(w.pending, p)
	}
	w.pmu.Unlock()

	return w.fw.Close()
}

// shouldIgnoreDir returns true for hidden directories (.git, .langprof, ...).
func shouldIgnoreDir(name string) bool {
	return strings.HasPrefix(name, ".")
}

// shouldIgnorePath returns true if path, an event below the watched root,
// should not trigger onChange. Directories above root are not considered.
func shouldIgnorePath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return true
	}
	base := filepath.Base(rel)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, suffix := range ignoreSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	for _, part := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
		if part != "." && shouldIgnoreDir(part) {
			return true
		}
	}
	return false
}
