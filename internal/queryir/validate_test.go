package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Nil(t *testing.T) {
	result := Validate(nil)

	assert.True(t, result.IsWellFormed)
	assert.Empty(t, result.Problems)
	assert.Zero(t, result.Leaves)
}

func TestValidate_WellFormedTree(t *testing.T) {
	pred := &And{Predicates: []Predicate{
		Comparison{Field: "views", Op: OpGte, Value: Int(18)},
		&Or{Predicates: []Predicate{
			Comparison{Field: "status", Op: OpEq, Value: String("active")},
			&Comparison{Field: "status", Op: OpEq, Value: Set{String("a"), String("b")}},
			RelationNull{Relation: "author"},
		}},
		&RelationIn{Relation: "comments", IDs: []string{"1"}},
	}}

	result := Validate(pred)

	assert.True(t, result.IsWellFormed, "problems: %v", result.Problems)
	assert.Equal(t, 5, result.Leaves)
	assert.Equal(t, 2, result.Depth)
}

func TestValidate_SingleChildGroup(t *testing.T) {
	pred := Or{Predicates: []Predicate{
		Comparison{Field: "views", Op: OpEq, Value: Int(1)},
	}}

	result := Validate(pred)

	assert.False(t, result.IsWellFormed)
	require.Len(t, result.Problems, 1)
	assert.Contains(t, result.Problems[0], "should have collapsed")
}

func TestValidate_NilChild(t *testing.T) {
	pred := And{Predicates: []Predicate{
		Comparison{Field: "views", Op: OpEq, Value: Int(1)},
		nil,
	}}

	result := Validate(pred)

	assert.False(t, result.IsWellFormed)
	assert.Contains(t, result.Problems, "nil child in and group")
}

func TestValidate_ComparisonShapes(t *testing.T) {
	tests := []struct {
		name    string
		pred    Comparison
		problem string
	}{
		{
			name:    "null with ordering operator",
			pred:    Comparison{Field: "views", Op: OpGt, Value: Null{}},
			problem: "null compared with gt on views",
		},
		{
			name:    "set with pattern operator",
			pred:    Comparison{Field: "title", Op: OpStartsWith, Value: Set{String("a")}},
			problem: "set compared with starts_with on title",
		},
		{
			name:    "empty set",
			pred:    Comparison{Field: "title", Op: OpEq, Value: Set{}},
			problem: "empty set on title",
		},
		{
			name:    "pattern on integer",
			pred:    Comparison{Field: "views", Op: OpContains, Value: Int(3)},
			problem: "pattern operator contains on non-text value for views",
		},
		{
			name:    "missing value",
			pred:    Comparison{Field: "views", Op: OpEq},
			problem: "comparison on views has no value",
		},
		{
			name:    "missing field",
			pred:    Comparison{Op: OpEq, Value: Int(1)},
			problem: "comparison without field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.pred)
			assert.False(t, result.IsWellFormed)
			assert.Contains(t, result.Problems, tt.problem)
		})
	}
}

func TestValidate_PatternOnString(t *testing.T) {
	result := Validate(Comparison{Field: "title", Op: OpNotContains, Value: String("go")})

	assert.True(t, result.IsWellFormed)
	assert.Equal(t, 1, result.Leaves)
}

func TestValidate_RelationLeaves(t *testing.T) {
	result := Validate(And{Predicates: []Predicate{
		RelationIn{Relation: "author"},
		&RelationNull{},
	}})

	assert.False(t, result.IsWellFormed)
	assert.Equal(t, []string{
		"relation filter on author has no ids",
		"relation null check without relation name",
	}, result.Problems)
}
