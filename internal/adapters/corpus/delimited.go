package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/corey/langprof/internal/ports"
)

// Delimited reads a TSV or CSV file whose first row names the columns.
// Extra columns are ignored.
type Delimited struct {
	Path  string
	Comma rune
	opts  Options
}

// Location returns the file path.
func (d *Delimited) Location() string { return d.Path }

// Examples reads every data row.
func (d *Delimited) Examples(ctx context.Context) ([]ports.TrainingExample, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return d.read(ctx, f)
}

func (d *Delimited) read(ctx context.Context, r io.Reader) ([]ports.TrainingExample, error) {
	cr := csv.NewReader(r)
	cr.Comma = d.Comma
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	if d.Comma == '\t' {
		// Tabular dumps rarely quote; a stray quote is text, not syntax.
		cr.LazyQuotes = true
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty corpus, no header row", d.Path)
		}
		return nil, fmt.Errorf("%s: read header: %w", d.Path, err)
	}
	labelIdx := slices.Index(header, d.opts.LabelColumn)
	inputIdx := slices.Index(header, d.opts.InputColumn)
	if labelIdx < 0 {
		return nil, fmt.Errorf("%s: header has no %q column", d.Path, d.opts.LabelColumn)
	}
	if inputIdx < 0 {
		return nil, fmt.Errorf("%s: header has no %q column", d.Path, d.opts.InputColumn)
	}
	need := max(labelIdx, inputIdx) + 1

	var out []ports.TrainingExample
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Path, err)
		}
		if len(out)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if len(rec) < need {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%s:%d: row has %d fields, need %d", d.Path, line, len(rec), need)
		}
		out = append(out, ports.TrainingExample{Lang: rec[labelIdx], Text: rec[inputIdx]})
	}
	return out, nil
}
