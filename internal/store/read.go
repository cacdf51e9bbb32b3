package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
	"github.com/roach88/listq/internal/querysql"
)

// Record is one row of an entity table.
type Record struct {
	Type   string
	Fields map[string]any // column -> value; nil for SQL NULL
}

// ID returns the primary key.
func (r Record) ID() int64 {
	id, _ := r.Fields[metadata.PrimaryKey].(int64)
	return id
}

// Key formats a column value as it appears in URLs and relationship ids.
// NULL formats as "".
func (r Record) Key(column string) string {
	switch v := r.Fields[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Query returns the records a select matches, in its order.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Query(ctx context.Context, sel queryir.Select) ([]Record, error) {
	query, params, err := s.compiler.Compile(sel)
	if err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, sel.From, query, params)
}

// Count returns how many records a select's filter matches, ignoring its
// sort and paging.
func (s *Store) Count(ctx context.Context, sel queryir.Select) (int, error) {
	query, params, err := s.compiler.CompileCount(sel)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", sel.From, err)
	}
	return n, nil
}

// FindIn returns the records of typ whose column holds one of values,
// ordered by primary key.
func (s *Store) FindIn(ctx context.Context, typ, column string, values []any) ([]Record, error) {
	if len(values) == 0 {
		return []Record{}, nil
	}
	query, params, err := s.compiler.CompileLookup(typ, column, values)
	if err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, typ, query, params)
}

// Find returns the record of typ whose route key is key.
// Returns ErrNotFound when there is none.
func (s *Store) Find(ctx context.Context, typ, key string) (Record, error) {
	e, ok := s.reg.Lookup(typ)
	if !ok {
		return Record{}, fmt.Errorf("unknown resource type %q", typ)
	}

	routeKey := e.RouteKeyName()
	param := querysql.RouteKeyParam(e.FieldType(routeKey), key)
	records, err := s.FindIn(ctx, typ, routeKey, []any{param})
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, fmt.Errorf("%s %q: %w", typ, key, ErrNotFound)
	}
	return records[0], nil
}

func (s *Store) queryRecords(ctx context.Context, typ, query string, params []any) ([]Record, error) {
	e, ok := s.reg.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("unknown resource type %q", typ)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", typ, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, e)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", typ, err)
	}

	return records, nil
}

// scanRecord reads one row selected with e.Columns() in order.
func scanRecord(rows *sql.Rows, e *metadata.Entity) (Record, error) {
	cols := e.Columns()
	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return Record{}, fmt.Errorf("scan %s: %w", e.Type(), err)
	}

	fields := make(map[string]any, len(cols))
	for i, col := range cols {
		fields[col] = normalize(e, col, dest[i])
	}
	return Record{Type: e.Type(), Fields: fields}, nil
}

// normalize converts driver values to the Go type of the column's field
// type: int64, float64, bool or string.
func normalize(e *metadata.Entity, col string, v any) any {
	if v == nil {
		return nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if !e.HasAttribute(col) {
		return v
	}

	switch e.FieldType(col) {
	case metadata.FieldBoolean:
		switch b := v.(type) {
		case int64:
			return b != 0
		case float64:
			return b != 0
		}
	case metadata.FieldFloat:
		if n, ok := v.(int64); ok {
			return float64(n)
		}
	case metadata.FieldInteger:
		if f, ok := v.(float64); ok {
			return int64(f)
		}
	}
	return v
}
