package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
)

// Compiler compiles queryir.Select values to parameterized SQLite SQL.
//
// CRITICAL: every SELECT ends with the primary key as a tiebreaker, so
// pagination over equal sort keys is deterministic.
type Compiler struct {
	reg *metadata.Registry
}

// NewCompiler creates a compiler resolving types against reg.
func NewCompiler(reg *metadata.Registry) *Compiler {
	return &Compiler{reg: reg}
}

// Compile converts a select to SQL and its parameters.
//
//	SELECT posts.id, posts.title FROM posts
//	WHERE listq_lower(posts.title) LIKE ? ESCAPE '\'
//	ORDER BY posts.views DESC, posts.id ASC LIMIT ? OFFSET ?
func (c *Compiler) Compile(sel queryir.Select) (string, []any, error) {
	b, err := c.build(sel)
	if err != nil {
		return "", nil, err
	}
	if err := queryir.ApplySort(b, sel.Sort); err != nil {
		return "", nil, fmt.Errorf("compile %s: %w", sel.From, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", c.selectList(b.entity), b.entity.Table())

	where, params := b.WhereClause()
	if where != "" {
		sb.WriteString(" WHERE " + where)
	}
	sb.WriteString(" ORDER BY " + b.OrderClause())

	switch {
	case sel.Limit > 0:
		sb.WriteString(" LIMIT ? OFFSET ?")
		params = append(params, int64(sel.Limit), int64(sel.Offset))
	case sel.Offset > 0:
		// SQLite needs a LIMIT before OFFSET; -1 means unbounded.
		sb.WriteString(" LIMIT -1 OFFSET ?")
		params = append(params, int64(sel.Offset))
	}

	return sb.String(), params, nil
}

// CompileCount converts a select to a COUNT(*) over its filter. Sort and
// paging are ignored.
func (c *Compiler) CompileCount(sel queryir.Select) (string, []any, error) {
	b, err := c.build(sel)
	if err != nil {
		return "", nil, err
	}

	sql := "SELECT COUNT(*) FROM " + b.entity.Table()
	where, params := b.WhereClause()
	if where != "" {
		sql += " WHERE " + where
	}
	return sql, params, nil
}

// CompileLookup selects the records of typ whose column is one of values.
// It loads included resources by route key or foreign key.
func (c *Compiler) CompileLookup(typ, column string, values []any) (string, []any, error) {
	e, ok := c.reg.Lookup(typ)
	if !ok {
		return "", nil, fmt.Errorf("unknown resource type %q", typ)
	}
	if !e.HasColumn(column) {
		return "", nil, fmt.Errorf("unknown field %q on %s", column, typ)
	}

	where := "1 = 0"
	if len(values) > 0 {
		where = e.Table() + "." + column + " IN " + placeholders(len(values))
	}
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s.%s ASC",
		c.selectList(e), e.Table(), where, e.Table(), metadata.PrimaryKey)
	return sql, values, nil
}

func (c *Compiler) build(sel queryir.Select) (*Builder, error) {
	e, ok := c.reg.Lookup(sel.From)
	if !ok {
		return nil, fmt.Errorf("unknown resource type %q", sel.From)
	}

	b := NewBuilder(c.reg, e)
	if err := queryir.Apply(b, sel.Filter); err != nil {
		return nil, fmt.Errorf("compile %s filter: %w", sel.From, err)
	}
	return b, nil
}

// selectList qualifies every column of e, in Columns order.
func (c *Compiler) selectList(e *metadata.Entity) string {
	cols := e.Columns()
	for i, col := range cols {
		cols[i] = e.Table() + "." + col
	}
	return strings.Join(cols, ", ")
}
