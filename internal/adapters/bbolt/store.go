// Package bbolt implements the ports.ModelStore interface using bbolt (embedded B+ tree).
// Every model gets its own sub-bucket under the top-level "models" bucket, holding a
// JSON "meta" summary and the binary-encoded "profile". Writes are transactional: a
// crash mid-write cannot corrupt previously committed models.
//
// Decoded models are kept in a small LRU so repeated loads skip decoding.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/corey/langprof/internal/ports"
)

// Bucket keys
var (
	bucketModels = []byte("models")
	keyMeta      = []byte("meta")
	keyProfile   = []byte("profile")
)

// DefaultCacheSize is the number of decoded models kept in memory.
const DefaultCacheSize = 8

// Store implements ports.ModelStore backed by bbolt.
type Store struct {
	db    *bolt.DB
	cache *lru.Cache[string, *ports.LanguageModel]
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	cache, err := lru.New[string, *ports.LanguageModel](DefaultCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("model cache: %w", err)
	}
	return &Store{db: db, cache: cache}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveModel persists a model under name, replacing any prior model.
func (s *Store) SaveModel(name string, model *ports.LanguageModel) error {
	if name == "" {
		return fmt.Errorf("empty model name")
	}
	if model == nil {
		return fmt.Errorf("nil model")
	}

	metaJSON, err := json.Marshal(model.Info(name))
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	profile, err := encodeModel(model)
	if err != nil {
		return fmt.Errorf("encode model %q: %w", name, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(bucketModels)
		if err != nil {
			return err
		}
		// Replace wholesale so no stale key from an older layout survives.
		if err := root.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		mb, err := root.CreateBucket([]byte(name))
		if err != nil {
			return err
		}
		if err := mb.Put(keyMeta, metaJSON); err != nil {
			return err
		}
		return mb.Put(keyProfile, profile)
	})
	if err != nil {
		return err
	}
	s.cache.Add(name, model)
	return nil
}

// LoadModel retrieves a model by name.
// Returns nil, nil if no model exists under that name.
func (s *Store) LoadModel(name string) (*ports.LanguageModel, error) {
	if m, ok := s.cache.Get(name); ok {
		return m, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		mb := modelBucket(tx, name)
		if mb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := mb.Get(keyProfile); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	model, err := decodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("decode model %q: %w", name, err)
	}
	s.cache.Add(name, model)
	return model, nil
}

// ListModels returns the stored model summaries sorted by name.
// bbolt iterates keys in byte order, which gives the sort for free.
func (s *Store) ListModels() ([]ports.ModelInfo, error) {
	var infos []ports.ModelInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketModels)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(k []byte) error {
			v := root.Bucket(k).Get(keyMeta)
			if v == nil {
				return fmt.Errorf("model %q has no meta", k)
			}
			var info ports.ModelInfo
			if err := json.Unmarshal(v, &info); err != nil {
				return fmt.Errorf("unmarshal meta for %q: %w", k, err)
			}
			infos = append(infos, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// DeleteModel removes a model.
// Idempotent: deleting a nonexistent model is not an error.
func (s *Store) DeleteModel(name string) error {
	s.cache.Remove(name)
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketModels)
		if root == nil {
			return nil
		}
		if err := root.DeleteBucket([]byte(name)); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}

func modelBucket(tx *bolt.Tx, name string) *bolt.Bucket {
	root := tx.Bucket(bucketModels)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(name))
}
