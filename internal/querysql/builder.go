package querysql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
)

// Builder accumulates a WHERE clause and ORDER BY terms against one entity.
// It implements queryir.Queryable.
//
// CRITICAL: values are always bound as ? parameters, never interpolated.
// Identifiers come only from the registry, whose names are validated when
// the schema is loaded; unknown fields are rejected.
type Builder struct {
	reg    *metadata.Registry
	entity *metadata.Entity

	conds []condition
	order *ordering // shared with nested builders
}

var _ queryir.Queryable = (*Builder)(nil)

type condition struct {
	logic  queryir.Logic
	sql    string
	params []any
}

type ordering struct {
	terms []string
	hasID bool
}

// NewBuilder creates an empty builder for entity.
func NewBuilder(reg *metadata.Registry, entity *metadata.Entity) *Builder {
	return &Builder{reg: reg, entity: entity, order: &ordering{}}
}

// WhereClause returns the accumulated condition without the WHERE keyword
// and its parameters. An empty builder returns "".
func (b *Builder) WhereClause() (string, []any) {
	var sb strings.Builder
	var params []any
	for i, c := range b.conds {
		if i > 0 {
			sb.WriteString(" " + c.logic.String() + " ")
		}
		sb.WriteString(c.sql)
		params = append(params, c.params...)
	}
	return sb.String(), params
}

// OrderClause returns the ORDER BY terms followed by the primary key
// tiebreaker, so every ordering is total.
func (b *Builder) OrderClause() string {
	terms := b.order.terms
	if !b.order.hasID {
		terms = append(terms[:len(terms):len(terms)], b.column(metadata.PrimaryKey)+" ASC")
	}
	return strings.Join(terms, ", ")
}

func (b *Builder) add(l queryir.Logic, sql string, params ...any) error {
	b.conds = append(b.conds, condition{logic: l, sql: sql, params: params})
	return nil
}

// Nest implements queryir.Queryable.
func (b *Builder) Nest(l queryir.Logic, fn func(queryir.Queryable) error) error {
	inner := &Builder{reg: b.reg, entity: b.entity, order: b.order}
	if err := fn(inner); err != nil {
		return err
	}
	sql, params := inner.WhereClause()
	if sql == "" {
		return nil
	}
	return b.add(l, "("+sql+")", params...)
}

// Where implements queryir.Queryable.
func (b *Builder) Where(l queryir.Logic, field string, op queryir.Operator, v queryir.Value) error {
	col, err := b.valueColumn(field)
	if err != nil {
		return err
	}

	switch v.(type) {
	case queryir.Null, queryir.Set, nil:
		return fmt.Errorf("where %s: %s value needs a dedicated condition", field, describe(v))
	}

	if op.IsPattern() {
		return b.whereLike(l, col, op, v)
	}

	sym, ok := comparisonSQL[op]
	if !ok {
		return fmt.Errorf("where %s: unsupported operator %s", field, op)
	}
	return b.add(l, fmt.Sprintf("%s %s ?", col, sym), queryir.Native(v))
}

var comparisonSQL = map[queryir.Operator]string{
	queryir.OpEq:       "=",
	queryir.OpNotEq:    "!=",
	queryir.OpNotEqAlt: "<>",
	queryir.OpLt:       "<",
	queryir.OpGt:       ">",
	queryir.OpLte:      "<=",
	queryir.OpGte:      ">=",
}

func (b *Builder) whereLike(l queryir.Logic, col string, op queryir.Operator, v queryir.Value) error {
	s, ok := v.(queryir.String)
	if !ok {
		return fmt.Errorf("pattern operator %s needs a text value, got %s", op, v)
	}
	lit := escapeLike(string(s))

	var pattern, verb string
	switch op {
	case queryir.OpStartsWith:
		pattern, verb = lit+"%", "LIKE"
	case queryir.OpEndsWith:
		pattern, verb = "%"+lit, "LIKE"
	case queryir.OpContains:
		pattern, verb = "%"+lit+"%", "LIKE"
	case queryir.OpNotStartsWith:
		pattern, verb = lit+"%", "NOT LIKE"
	case queryir.OpNotEndsWith:
		pattern, verb = "%"+lit, "NOT LIKE"
	case queryir.OpNotContains:
		pattern, verb = "%"+lit+"%", "NOT LIKE"
	}
	return b.add(l, fmt.Sprintf("%s %s ? ESCAPE '\\'", col, verb), pattern)
}

// escapeLike makes LIKE wildcards in a literal match themselves.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// WhereIn implements queryir.Queryable.
func (b *Builder) WhereIn(l queryir.Logic, field string, values []queryir.Value) error {
	col, err := b.valueColumn(field)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return b.add(l, "1 = 0")
	}
	return b.add(l, col+" IN "+placeholders(len(values)), natives(values)...)
}

// WhereNotIn implements queryir.Queryable.
func (b *Builder) WhereNotIn(l queryir.Logic, field string, values []queryir.Value) error {
	col, err := b.valueColumn(field)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return b.add(l, "1 = 1")
	}
	return b.add(l, col+" NOT IN "+placeholders(len(values)), natives(values)...)
}

// WhereNull implements queryir.Queryable. On a belongs-to relation it
// checks the foreign key; on a has-many relation it matches records with
// no related record.
func (b *Builder) WhereNull(l queryir.Logic, field string) error {
	if rel, ok := b.entity.Relation(field); ok {
		if rel.Kind == metadata.BelongsTo {
			return b.add(l, b.column(rel.ForeignKey)+" IS NULL")
		}
		sub, params, err := b.existsSubquery(rel, nil)
		if err != nil {
			return err
		}
		return b.add(l, "NOT "+sub, params...)
	}

	if !b.entity.HasColumn(field) {
		return fmt.Errorf("unknown field %q on %s", field, b.entity.Type())
	}
	return b.add(l, b.column(field)+" IS NULL")
}

// WhereNotNull implements queryir.Queryable.
func (b *Builder) WhereNotNull(l queryir.Logic, field string) error {
	if rel, ok := b.entity.Relation(field); ok {
		if rel.Kind == metadata.BelongsTo {
			return b.add(l, b.column(rel.ForeignKey)+" IS NOT NULL")
		}
		sub, params, err := b.existsSubquery(rel, nil)
		if err != nil {
			return err
		}
		return b.add(l, sub, params...)
	}

	if !b.entity.HasColumn(field) {
		return fmt.Errorf("unknown field %q on %s", field, b.entity.Type())
	}
	return b.add(l, b.column(field)+" IS NOT NULL")
}

// WhereHasRelation implements queryir.Queryable.
//
//	EXISTS (SELECT 1 FROM users AS r_author
//	        WHERE r_author.id = posts.author_id AND r_author.id IN (?))
func (b *Builder) WhereHasRelation(l queryir.Logic, relation string, ids []string) error {
	rel, ok := b.entity.Relation(relation)
	if !ok {
		return fmt.Errorf("unknown relation %q on %s", relation, b.entity.Type())
	}
	sub, params, err := b.existsSubquery(rel, ids)
	if err != nil {
		return err
	}
	return b.add(l, sub, params...)
}

// WhereDoesntHaveRelation implements queryir.Queryable.
func (b *Builder) WhereDoesntHaveRelation(l queryir.Logic, relation string, ids []string) error {
	rel, ok := b.entity.Relation(relation)
	if !ok {
		return fmt.Errorf("unknown relation %q on %s", relation, b.entity.Type())
	}
	sub, params, err := b.existsSubquery(rel, ids)
	if err != nil {
		return err
	}
	return b.add(l, "NOT "+sub, params...)
}

// existsSubquery correlates the related table with this one. A nil ids
// slice matches any related record; otherwise the related route key must
// be one of ids.
func (b *Builder) existsSubquery(rel metadata.Relation, ids []string) (string, []any, error) {
	target, ok := b.reg.Lookup(rel.Target)
	if !ok {
		return "", nil, fmt.Errorf("relation %s targets unknown type %q", rel.Name, rel.Target)
	}
	alias := "r_" + rel.Name

	var join string
	if rel.Kind == metadata.BelongsTo {
		join = fmt.Sprintf("%s.%s = %s", alias, metadata.PrimaryKey, b.column(rel.ForeignKey))
	} else {
		join = fmt.Sprintf("%s.%s = %s", alias, rel.ForeignKey, b.column(metadata.PrimaryKey))
	}

	sql := fmt.Sprintf("EXISTS (SELECT 1 FROM %s AS %s WHERE %s", target.Table(), alias, join)
	var params []any
	if ids != nil {
		if len(ids) == 0 {
			sql += " AND 1 = 0"
		} else {
			routeKey := target.RouteKeyName()
			sql += fmt.Sprintf(" AND %s.%s IN %s", alias, routeKey, placeholders(len(ids)))
			for _, id := range ids {
				params = append(params, RouteKeyParam(target.FieldType(routeKey), id))
			}
		}
	}
	return sql + ")", params, nil
}

// RouteKeyParam converts a route key from a URL or filter to the value
// bound for it. Integer route keys bind as integers so SQLite compares
// numerically.
func RouteKeyParam(ft metadata.FieldType, id string) any {
	if ft == metadata.FieldInteger {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			return n
		}
	}
	return id
}

// OrderBy implements queryir.Queryable.
func (b *Builder) OrderBy(field string, dir queryir.Direction) error {
	if !b.entity.HasAttribute(field) {
		return fmt.Errorf("unknown field %q on %s", field, b.entity.Type())
	}
	if field == metadata.PrimaryKey {
		b.order.hasID = true
	}
	b.order.terms = append(b.order.terms, b.column(field)+" "+directionSQL(dir))
	return nil
}

// CallScope implements queryir.Queryable.
func (b *Builder) CallScope(name string, dir queryir.Direction) error {
	expr, ok := b.entity.Scope(name)
	if !ok {
		return fmt.Errorf("unknown scope %q on %s", name, b.entity.Type())
	}
	b.order.terms = append(b.order.terms, "("+expr+") "+directionSQL(dir))
	return nil
}

func directionSQL(dir queryir.Direction) string {
	if dir == queryir.Desc {
		return "DESC"
	}
	return "ASC"
}

// column qualifies a column with the entity's table.
func (b *Builder) column(name string) string {
	return b.entity.Table() + "." + name
}

// LowerFunc is the SQL function text attributes are folded with. The store
// registers it on every connection; SQLite's LOWER() only folds ASCII.
const LowerFunc = "listq_lower"

// valueColumn returns the expression a literal is compared with: text
// attributes compare through LowerFunc because literals arrive folded.
func (b *Builder) valueColumn(field string) (string, error) {
	if !b.entity.HasColumn(field) {
		return "", fmt.Errorf("unknown field %q on %s", field, b.entity.Type())
	}
	col := b.column(field)
	if b.entity.HasAttribute(field) && b.entity.FieldType(field) == metadata.FieldString {
		return LowerFunc + "(" + col + ")", nil
	}
	return col, nil
}

func placeholders(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

func natives(values []queryir.Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = queryir.Native(v)
	}
	return out
}

func describe(v queryir.Value) string {
	switch v.(type) {
	case queryir.Null:
		return "null"
	case queryir.Set:
		return "set"
	default:
		return "missing"
	}
}
