package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a lookup by route key matches nothing.
var ErrNotFound = errors.New("record not found")

// Insert adds one record of typ and returns its primary key.
// An "id" entry in values sets the primary key explicitly; otherwise
// SQLite assigns the next one.
//
// Columns are written in sorted order so the statement text is stable.
// Unknown columns are rejected before anything reaches the database.
func (s *Store) Insert(ctx context.Context, typ string, values map[string]any) (int64, error) {
	e, ok := s.reg.Lookup(typ)
	if !ok {
		return 0, fmt.Errorf("insert: unknown resource type %q", typ)
	}

	cols := make([]string, 0, len(values))
	for col := range values {
		if !e.HasColumn(col) {
			return 0, fmt.Errorf("insert %s: unknown column %q", typ, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = values[col]
	}

	var query string
	if len(cols) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", e.Table())
	} else {
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			e.Table(),
			strings.Join(cols, ", "),
			strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", typ, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", typ, err)
	}
	return id, nil
}
