package ports

import "context"

// CorpusSource yields labeled training text. The concrete implementations
// (delimited files, JSON Lines, SQLite) live in internal/adapters/corpus.
// Rows whose label is not a supported language are still returned; filtering
// is the trainer's job.
type CorpusSource interface {
	// Examples reads the whole corpus into memory. Returns an error naming the
	// row when the label or input column is missing.
	Examples(ctx context.Context) ([]TrainingExample, error)

	// Location describes where the corpus lives (a file path or DSN), for logs
	// and for the watcher.
	Location() string
}
