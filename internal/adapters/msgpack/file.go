// Package msgpack reads and writes portable model files. Unlike the bbolt blob
// format, a model file is self-describing MessagePack, so other tools can load
// a profile without this code base.
package msgpack

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/corey/langprof/internal/ports"
)

// FileVersion is written into every model file.
const FileVersion = 1

// modelFile is the on-disk layout. Grams are []byte so non-UTF-8 grams
// survive as MessagePack bin values instead of invalid str values.
type modelFile struct {
	Version     int         `msgpack:"version"`
	Name        string      `msgpack:"name"`
	TrainedAt   time.Time   `msgpack:"trained_at"`
	Languages   []string    `msgpack:"languages"`
	GramLengths []int       `msgpack:"gram_lengths"`
	Entries     []fileEntry `msgpack:"entries"`
}

type fileEntry struct {
	Gram   []byte    `msgpack:"gram"`
	Scores []float64 `msgpack:"scores"`
}

// Encode writes model to w. Entries are in gram byte order.
func Encode(w io.Writer, name string, model *ports.LanguageModel) error {
	f := modelFile{
		Version:     FileVersion,
		Name:        name,
		TrainedAt:   model.TrainedAt(),
		Languages:   model.Languages(),
		GramLengths: model.GramLengths(),
		Entries:     make([]fileEntry, 0, model.Len()),
	}
	model.Range(func(g string, scores []float64) bool {
		f.Entries = append(f.Entries, fileEntry{Gram: []byte(g), Scores: append([]float64(nil), scores...)})
		return true
	})
	return msgpack.NewEncoder(w).Encode(&f)
}

// Decode reads a model file and returns the stored name with the model.
func Decode(r io.Reader) (string, *ports.LanguageModel, error) {
	var f modelFile
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return "", nil, fmt.Errorf("decode model file: %w", err)
	}
	if f.Version != FileVersion {
		return "", nil, fmt.Errorf("unsupported model file version %d", f.Version)
	}
	profile := make(map[string][]float64, len(f.Entries))
	for _, e := range f.Entries {
		if len(e.Scores) != len(f.Languages) {
			return "", nil, fmt.Errorf("gram %q: %d scores for %d languages", e.Gram, len(e.Scores), len(f.Languages))
		}
		if _, dup := profile[string(e.Gram)]; dup {
			return "", nil, fmt.Errorf("gram %q listed twice", e.Gram)
		}
		profile[string(e.Gram)] = e.Scores
	}
	return f.Name, ports.NewLanguageModel(f.GramLengths, f.Languages, profile, f.TrainedAt), nil
}

// WriteFile encodes model to path, replacing it atomically.
func WriteFile(path, name string, model *ports.LanguageModel) error {
	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := Encode(out, name, model); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode model: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ReadFile decodes the model file at path.
func ReadFile(path string) (string, *ports.LanguageModel, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer in.Close()
	return Decode(in)
}
