package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/listq/internal/metadata"
)

// EnsureSchema creates a table for every registered entity, plus an index
// on every belongs-to foreign key. Existing tables are left alone.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, e := range s.reg.Entities() {
		for _, stmt := range tableDDL(s.reg, e) {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create %s: %w", e.Table(), err)
			}
		}
	}
	return nil
}

// tableDDL returns the CREATE statements for one entity.
//
//	CREATE TABLE IF NOT EXISTS posts (
//		id INTEGER PRIMARY KEY,
//		title TEXT,
//		author_id INTEGER REFERENCES users(id)
//	)
func tableDDL(reg *metadata.Registry, e *metadata.Entity) []string {
	refs := make(map[string]string)
	for _, name := range e.RelationNames() {
		rel, _ := e.Relation(name)
		if rel.Kind != metadata.BelongsTo {
			continue
		}
		if target, ok := reg.Lookup(rel.Target); ok {
			refs[rel.ForeignKey] = target.Table()
		}
	}

	defs := []string{metadata.PrimaryKey + " INTEGER PRIMARY KEY"}
	for _, col := range e.Columns()[1:] {
		def := col + " " + columnType(e, col)
		if target, ok := refs[col]; ok {
			def += " REFERENCES " + target + "(" + metadata.PrimaryKey + ")"
		}
		defs = append(defs, def)
	}

	stmts := []string{fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", e.Table(), strings.Join(defs, ",\n\t"))}
	for _, fk := range e.ForeignKeys() {
		stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)", e.Table(), fk, e.Table(), fk))
	}
	return stmts
}

// columnType maps a column to its SQLite declared type. Dates are stored
// as ISO-8601 TEXT so they compare lexically and scan back as strings.
func columnType(e *metadata.Entity, col string) string {
	if !e.HasAttribute(col) {
		return "INTEGER"
	}
	switch e.FieldType(col) {
	case metadata.FieldInteger:
		return "INTEGER"
	case metadata.FieldFloat:
		return "REAL"
	case metadata.FieldBoolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}
