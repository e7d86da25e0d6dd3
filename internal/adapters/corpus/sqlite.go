package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/corey/langprof/internal/ports"
)

// SQLite reads the label and input columns of one table. The database is
// opened read-only; NULL values are an error naming the row.
type SQLite struct {
	Path string
	opts Options
}

// Location returns the database path.
func (s *SQLite) Location() string { return s.Path }

// Examples runs a full scan of the configured table in rowid order.
func (s *SQLite) Examples(ctx context.Context) ([]ports.TrainingExample, error) {
	dsn, err := sqliteDSN(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open corpus database: %w", err)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open corpus database: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT rowid, %s, %s FROM %s ORDER BY rowid",
		quoteIdent(s.opts.LabelColumn), quoteIdent(s.opts.InputColumn), quoteIdent(s.opts.Table))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: query table %q: %w", s.Path, s.opts.Table, err)
	}
	defer rows.Close()

	var out []ports.TrainingExample
	for rows.Next() {
		var (
			rowid      int64
			lang, text sql.NullString
		)
		if err := rows.Scan(&rowid, &lang, &text); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", s.Path, err)
		}
		if !lang.Valid || !text.Valid {
			return nil, fmt.Errorf("%s: table %q rowid %d: NULL label or text", s.Path, s.opts.Table, rowid)
		}
		out = append(out, ports.TrainingExample{Lang: lang.String, Text: text.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return out, nil
}

// sqliteDSN builds a read-only SQLite URI for path. The path is made absolute
// and percent-escaped so '?', '#' and '%' in file names stay part of the path.
func sqliteDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "mode=ro&_busy_timeout=5000",
	}
	return u.String(), nil
}

// quoteIdent quotes an SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
