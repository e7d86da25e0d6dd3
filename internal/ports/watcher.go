package ports

// Watcher monitors a corpus location for changes and triggers retraining.
// The adapter (fsnotify) debounces editor bursts and filters temporary files
// before invoking onChange. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring path, which may be a single corpus file or a
	// directory. onChange is called with the absolute path of each changed
	// file. The callback may be invoked from any goroutine. Returns an error
	// if the path doesn't exist or permissions are insufficient.
	Watch(path string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
