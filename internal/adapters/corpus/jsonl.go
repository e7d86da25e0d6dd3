package corpus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/corey/langprof/internal/ports"
)

// maxLineBytes bounds a single JSON Lines record. Dump articles can be long.
const maxLineBytes = 64 << 20

// JSONLines reads one JSON object per line. Blank lines are skipped.
type JSONLines struct {
	Path string
	opts Options
}

// Location returns the file path.
func (j *JSONLines) Location() string { return j.Path }

// Examples reads every record.
func (j *JSONLines) Examples(ctx context.Context) ([]ports.TrainingExample, error) {
	f, err := os.Open(j.Path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return j.read(ctx, f)
}

func (j *JSONLines) read(ctx context.Context, r io.Reader) ([]ports.TrainingExample, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var out []ports.TrainingExample
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		var row map[string]json.RawMessage
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", j.Path, line, err)
		}
		lang, err := stringField(row, j.opts.LabelColumn)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", j.Path, line, err)
		}
		text, err := stringField(row, j.opts.InputColumn)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", j.Path, line, err)
		}
		out = append(out, ports.TrainingExample{Lang: lang, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", j.Path, err)
	}
	return out, nil
}

func stringField(row map[string]json.RawMessage, key string) (string, error) {
	raw, ok := row[key]
	if !ok {
		return "", fmt.Errorf("missing %q field", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q is not a string", key)
	}
	return s, nil
}
