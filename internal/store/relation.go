package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/ddverify/internal/table"
)

// ErrTableNotFound is returned by LoadRelation for a missing table or view.
var ErrTableNotFound = errors.New("table not found")

// Tables returns the names of user tables and views in name order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LoadRelation reads every row of the named table in rowid order.
//
// SQL NULL becomes a null cell; text values are additionally matched against
// opts.NullTokens. Delimiter and NoHeader are ignored.
func (s *Store) LoadRelation(ctx context.Context, name string, opts table.LoadOptions) (*table.Relation, error) {
	kind, err := s.objectType(ctx, name)
	if err != nil {
		return nil, err
	}

	query := "SELECT * FROM " + quoteIdent(name)
	if kind == "table" {
		query += " ORDER BY rowid ASC"
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load relation %q: %w", name, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("load relation %q: %w", name, err)
	}

	var data [][]*string
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("load relation %q: %w", name, err)
		}

		row := make([]*string, len(names))
		for i, v := range values {
			row[i] = rawText(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load relation %q: %w", name, err)
	}

	rel, err := table.NewRelationFromNullable(names, data, opts)
	if err != nil {
		return nil, fmt.Errorf("load relation %q: %w", name, err)
	}
	return rel, nil
}

func (s *Store) objectType(ctx context.Context, name string) (string, error) {
	var kind string
	err := s.db.QueryRowContext(ctx, `
		SELECT type FROM sqlite_master
		WHERE type IN ('table', 'view') AND name = ?
	`, name).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("lookup table %q: %w", name, err)
	}
	return kind, nil
}

// rawText renders a driver value as the text a CSV export would contain.
// nil (SQL NULL) maps to nil.
func rawText(v any) *string {
	var s string
	switch x := v.(type) {
	case nil:
		return nil
	case int64:
		s = strconv.FormatInt(x, 10)
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(x)
	case []byte:
		s = string(x)
	case string:
		s = x
	case time.Time:
		// go-sqlite3 parses DATE/DATETIME columns into time.Time.
		if x.Equal(x.Truncate(24 * time.Hour)) {
			s = x.UTC().Format(table.DateLayout)
		} else {
			s = x.UTC().Format(time.RFC3339Nano)
		}
	default:
		s = fmt.Sprint(x)
	}
	return &s
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
