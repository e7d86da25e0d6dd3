// Package corpus implements ports.CorpusSource for the on-disk corpus formats:
// delimited text with a header row (TSV, CSV), JSON Lines, and SQLite tables.
// Every source reads the label and text from named columns, "lang" and
// "fulltext" unless configured otherwise.
package corpus

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/corey/langprof/internal/ports"
)

// Default column names.
const (
	DefaultLabelColumn = "lang"
	DefaultInputColumn = "fulltext"
	DefaultTable       = "corpus"
)

// Supported formats.
const (
	FormatTSV    = "tsv"
	FormatCSV    = "csv"
	FormatJSONL  = "jsonl"
	FormatSQLite = "sqlite"
)

// Options selects columns (and the table, for SQLite).
type Options struct {
	LabelColumn string
	InputColumn string
	Table       string
}

func (o Options) withDefaults() Options {
	if o.LabelColumn == "" {
		o.LabelColumn = DefaultLabelColumn
	}
	if o.InputColumn == "" {
		o.InputColumn = DefaultInputColumn
	}
	if o.Table == "" {
		o.Table = DefaultTable
	}
	return o
}

// Open returns the source for path. An empty format is inferred from the
// file extension.
func Open(path, format string, opts Options) (ports.CorpusSource, error) {
	if path == "" {
		return nil, fmt.Errorf("corpus path not set")
	}
	if format == "" {
		format = InferFormat(path)
		if format == "" {
			return nil, fmt.Errorf("cannot infer corpus format from %q; set corpus.format", path)
		}
	}
	opts = opts.withDefaults()
	if opts.LabelColumn == opts.InputColumn {
		return nil, fmt.Errorf("label and input column are both %q", opts.LabelColumn)
	}

	switch format {
	case FormatTSV:
		return &Delimited{Path: path, Comma: '\t', opts: opts}, nil
	case FormatCSV:
		return &Delimited{Path: path, Comma: ',', opts: opts}, nil
	case FormatJSONL:
		return &JSONLines{Path: path, opts: opts}, nil
	case FormatSQLite:
		return &SQLite{Path: path, opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown corpus format %q", format)
	}
}

// InferFormat maps a file extension to a format, or "" if unknown.
func InferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".csv":
		return FormatCSV
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return ""
	}
}
