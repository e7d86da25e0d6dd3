// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces and value types, never on concrete implementations.
package ports

import (
	"errors"
	"time"
)

// ErrModelNotFound is returned by callers that require a stored model to exist.
// ModelStore implementations themselves return nil, nil for a missing model.
var ErrModelNotFound = errors.New("model not found")

// ModelStore persists trained language models under a name.
// Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveModel must be transactional. A crash mid-write must not
// corrupt previously committed models.
type ModelStore interface {
	// SaveModel persists a model under name, overwriting any prior model.
	SaveModel(name string, model *LanguageModel) error

	// LoadModel retrieves a model by name.
	// Returns nil, nil if no model exists under that name.
	LoadModel(name string) (*LanguageModel, error)

	// ListModels returns summary information for every stored model,
	// sorted by name.
	ListModels() ([]ModelInfo, error)

	// DeleteModel removes a model. Idempotent: deleting a nonexistent
	// model is not an error.
	DeleteModel(name string) error
}

// ModelInfo summarizes a stored model without decoding its profile.
type ModelInfo struct {
	Name        string    `json:"name"`
	Languages   []string  `json:"languages"`
	GramLengths []int     `json:"gram_lengths"`
	Grams       int       `json:"grams"`
	TrainedAt   time.Time `json:"trained_at"`
}
