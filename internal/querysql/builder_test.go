package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/listq/internal/queryir"
	"github.com/roach88/listq/internal/testutil"
)

func whereFor(t *testing.T, typ string, p queryir.Predicate) (string, []any) {
	t.Helper()
	reg := testutil.Blog()
	e, ok := reg.Lookup(typ)
	require.True(t, ok)

	b := NewBuilder(reg, e)
	require.NoError(t, queryir.Apply(b, p))
	return b.WhereClause()
}

func cmp(field string, op queryir.Operator, v queryir.Value) queryir.Comparison {
	return queryir.Comparison{Field: field, Op: op, Value: v}
}

func TestBuilder_Conditions(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		pred   queryir.Predicate
		sql    string
		params []any
	}{
		{
			name:   "integer comparison",
			typ:    "users",
			pred:   cmp("age", queryir.OpLt, queryir.Int(30)),
			sql:    "users.age < ?",
			params: []any{int64(30)},
		},
		{
			name:   "not equal alt spelling",
			typ:    "users",
			pred:   cmp("score", queryir.OpNotEqAlt, queryir.Float(1.5)),
			sql:    "users.score <> ?",
			params: []any{1.5},
		},
		{
			name:   "date compares raw",
			typ:    "users",
			pred:   cmp("born_on", queryir.OpGte, queryir.String("2000-01-01")),
			sql:    "users.born_on >= ?",
			params: []any{"2000-01-01"},
		},
		{
			name:   "starts with",
			typ:    "users",
			pred:   cmp("name", queryir.OpStartsWith, queryir.String("al")),
			sql:    `listq_lower(users.name) LIKE ? ESCAPE '\'`,
			params: []any{"al%"},
		},
		{
			name:   "not ends with",
			typ:    "users",
			pred:   cmp("name", queryir.OpNotEndsWith, queryir.String("son")),
			sql:    `listq_lower(users.name) NOT LIKE ? ESCAPE '\'`,
			params: []any{"%son"},
		},
		{
			name:   "contains escapes wildcards",
			typ:    "posts",
			pred:   cmp("title", queryir.OpContains, queryir.String(`50%_off\`)),
			sql:    `listq_lower(posts.title) LIKE ? ESCAPE '\'`,
			params: []any{`%50\%\_off\\%`},
		},
		{
			name:   "not contains",
			typ:    "posts",
			pred:   cmp("title", queryir.OpNotContains, queryir.String("draft")),
			sql:    `listq_lower(posts.title) NOT LIKE ? ESCAPE '\'`,
			params: []any{"%draft%"},
		},
		{
			name: "attribute null",
			typ:  "users",
			pred: cmp("age", queryir.OpEq, queryir.Null{}),
			sql:  "users.age IS NULL",
		},
		{
			name: "attribute not null",
			typ:  "users",
			pred: cmp("age", queryir.OpNotEq, queryir.Null{}),
			sql:  "users.age IS NOT NULL",
		},
		{
			name:   "in list",
			typ:    "users",
			pred:   cmp("age", queryir.OpEq, queryir.Set{queryir.Int(1), queryir.Int(2)}),
			sql:    "users.age IN (?, ?)",
			params: []any{int64(1), int64(2)},
		},
		{
			name:   "not in list",
			typ:    "users",
			pred:   cmp("status", queryir.OpNotEq, queryir.Set{queryir.String("banned")}),
			sql:    "listq_lower(users.status) NOT IN (?)",
			params: []any{"banned"},
		},
		{
			name: "empty in list matches nothing",
			typ:  "users",
			pred: cmp("age", queryir.OpEq, queryir.Set{}),
			sql:  "1 = 0",
		},
		{
			name: "empty not in list matches everything",
			typ:  "users",
			pred: cmp("age", queryir.OpNotEq, queryir.Set{}),
			sql:  "1 = 1",
		},
		{
			name: "belongs-to null",
			typ:  "posts",
			pred: queryir.RelationNull{Relation: "author"},
			sql:  "posts.author_id IS NULL",
		},
		{
			name: "belongs-to not null",
			typ:  "posts",
			pred: queryir.RelationNull{Relation: "author", Negated: true},
			sql:  "posts.author_id IS NOT NULL",
		},
		{
			name: "has-many null",
			typ:  "posts",
			pred: queryir.RelationNull{Relation: "comments"},
			sql:  "NOT EXISTS (SELECT 1 FROM comments AS r_comments WHERE r_comments.post_id = posts.id)",
		},
		{
			name: "has-many not null",
			typ:  "posts",
			pred: queryir.RelationNull{Relation: "comments", Negated: true},
			sql:  "EXISTS (SELECT 1 FROM comments AS r_comments WHERE r_comments.post_id = posts.id)",
		},
		{
			name:   "belongs-to with string route key",
			typ:    "comments",
			pred:   queryir.RelationIn{Relation: "post", IDs: []string{"hello-world", "42"}},
			sql:    "EXISTS (SELECT 1 FROM posts AS r_post WHERE r_post.id = comments.post_id AND r_post.slug IN (?, ?))",
			params: []any{"hello-world", "42"},
		},
		{
			name:   "has-many with integer route key",
			typ:    "users",
			pred:   queryir.RelationIn{Relation: "children", IDs: []string{"3", "x"}},
			sql:    "EXISTS (SELECT 1 FROM users AS r_children WHERE r_children.parent_id = users.id AND r_children.id IN (?, ?))",
			params: []any{int64(3), "x"},
		},
		{
			name:   "negated relation",
			typ:    "users",
			pred:   queryir.RelationIn{Relation: "posts", IDs: []string{"intro"}, Negated: true},
			sql:    "NOT EXISTS (SELECT 1 FROM posts AS r_posts WHERE r_posts.author_id = users.id AND r_posts.slug IN (?))",
			params: []any{"intro"},
		},
		{
			name: "relation with empty id list",
			typ:  "posts",
			pred: queryir.RelationIn{Relation: "author", IDs: []string{}},
			sql:  "EXISTS (SELECT 1 FROM users AS r_author WHERE r_author.id = posts.author_id AND 1 = 0)",
		},
		{
			name: "or at the root",
			typ:  "users",
			pred: queryir.Or{Predicates: []queryir.Predicate{
				cmp("age", queryir.OpGt, queryir.Int(1)),
				cmp("age", queryir.OpLt, queryir.Int(0)),
			}},
			sql:    "(users.age > ? OR users.age < ?)",
			params: []any{int64(1), int64(0)},
		},
		{
			name: "and inside or",
			typ:  "users",
			pred: queryir.Or{Predicates: []queryir.Predicate{
				queryir.And{Predicates: []queryir.Predicate{
					cmp("active", queryir.OpEq, queryir.Bool(true)),
					cmp("age", queryir.OpGte, queryir.Int(18)),
				}},
				cmp("status", queryir.OpEq, queryir.String("admin")),
			}},
			sql:    "((users.active = ? AND users.age >= ?) OR listq_lower(users.status) = ?)",
			params: []any{true, int64(18), "admin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params := whereFor(t, tt.typ, tt.pred)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestBuilder_EmptyNestAddsNothing(t *testing.T) {
	reg := testutil.Blog()
	b := NewBuilder(reg, testutil.BlogEntity("users"))

	err := b.Nest(queryir.LogicAnd, func(queryir.Queryable) error { return nil })
	require.NoError(t, err)

	sql, params := b.WhereClause()
	assert.Empty(t, sql)
	assert.Empty(t, params)
}

func TestBuilder_Rejects(t *testing.T) {
	reg := testutil.Blog()
	users := testutil.BlogEntity("users")

	tests := []struct {
		name string
		fn   func(b *Builder) error
		msg  string
	}{
		{
			name: "null through Where",
			fn: func(b *Builder) error {
				return b.Where(queryir.LogicAnd, "age", queryir.OpEq, queryir.Null{})
			},
			msg: "null value needs a dedicated condition",
		},
		{
			name: "set through Where",
			fn: func(b *Builder) error {
				return b.Where(queryir.LogicAnd, "age", queryir.OpEq, queryir.Set{queryir.Int(1)})
			},
			msg: "set value needs a dedicated condition",
		},
		{
			name: "unknown column",
			fn: func(b *Builder) error {
				return b.WhereIn(queryir.LogicAnd, "shoe_size", nil)
			},
			msg: `unknown field "shoe_size"`,
		},
		{
			name: "unknown null column",
			fn: func(b *Builder) error {
				return b.WhereNull(queryir.LogicAnd, "shoe_size")
			},
			msg: `unknown field "shoe_size"`,
		},
		{
			name: "unknown relation",
			fn: func(b *Builder) error {
				return b.WhereHasRelation(queryir.LogicAnd, "friends", []string{"1"})
			},
			msg: `unknown relation "friends"`,
		},
		{
			name: "order by foreign key column",
			fn: func(b *Builder) error {
				return b.OrderBy("parent_id", queryir.Asc)
			},
			msg: `unknown field "parent_id"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(reg, users)
			err := tt.fn(b)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestBuilder_ForeignKeyColumnFilterable(t *testing.T) {
	sql, params := whereFor(t, "comments", cmp("post_id", queryir.OpEq, queryir.Int(7)))
	assert.Equal(t, "comments.post_id = ?", sql)
	assert.Equal(t, []any{int64(7)}, params)
}

func TestBuilder_OrderClause(t *testing.T) {
	reg := testutil.Blog()
	b := NewBuilder(reg, testutil.BlogEntity("users"))

	assert.Equal(t, "users.id ASC", b.OrderClause())

	require.NoError(t, b.OrderBy("name", queryir.Asc))
	require.NoError(t, b.CallScope("age", queryir.Desc))
	assert.Equal(t, "users.name ASC, (COALESCE(users.age, 0)) DESC, users.id ASC", b.OrderClause())

	// Calling twice does not grow the tiebreaker.
	assert.Equal(t, "users.name ASC, (COALESCE(users.age, 0)) DESC, users.id ASC", b.OrderClause())
}
