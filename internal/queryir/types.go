package queryir

import "fmt"

// Predicate represents a filter condition in the IR.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - And: all children must hold
//   - Or: at least one child must hold
//   - Comparison: field <op> value
//   - RelationIn: related record exists with route key in IDs
//   - RelationNull: belongs-to link is absent (or present, when Negated)
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
	String() string
}

// Operator is a comparison operator selected by a literal prefix in the
// filter language.
type Operator int

const (
	OpEq Operator = iota
	OpNotEq
	OpNotEqAlt // "<>" spelling of not-equal
	OpLt
	OpGt
	OpLte
	OpGte
	OpStartsWith
	OpEndsWith
	OpContains
	OpNotStartsWith
	OpNotEndsWith
	OpNotContains
)

var operatorInfo = map[Operator]struct{ name, symbol string }{
	OpEq:            {"eq", "="},
	OpNotEq:         {"not_eq", "!="},
	OpNotEqAlt:      {"not_eq_alt", "<>"},
	OpLt:            {"lt", "<"},
	OpGt:            {"gt", ">"},
	OpLte:           {"lte", "<="},
	OpGte:           {"gte", ">="},
	OpStartsWith:    {"starts_with", "^"},
	OpEndsWith:      {"ends_with", "$"},
	OpContains:      {"contains", "^$"},
	OpNotStartsWith: {"not_starts_with", "!^"},
	OpNotEndsWith:   {"not_ends_with", "!$"},
	OpNotContains:   {"not_contains", "!^$"},
}

// String returns the operator's stable name (e.g. "gte").
func (o Operator) String() string {
	if info, ok := operatorInfo[o]; ok {
		return info.name
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Symbol returns the filter-language prefix that selects the operator.
func (o Operator) Symbol() string {
	if info, ok := operatorInfo[o]; ok {
		return info.symbol
	}
	return "?"
}

// IsPattern reports whether the operator is a LIKE-style text match.
func (o Operator) IsPattern() bool {
	return o >= OpStartsWith && o <= OpNotContains
}

// IsNotEqual reports whether the operator is either spelling of not-equal.
func (o Operator) IsNotEqual() bool {
	return o == OpNotEq || o == OpNotEqAlt
}

// And represents a conjunction of predicates (all must be true).
//
// Semantics:
//
//	<predicate1> AND <predicate2> AND ... AND <predicateN>
//
// The filter compiler only produces And with two or more children; a
// single-child group collapses to that child.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or represents a disjunction of predicates (at least one must be true).
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Comparison compares an attribute with a literal.
//
// Value shapes:
//   - Null with OpEq / not-equal: IS NULL / IS NOT NULL
//   - Set with OpEq / not-equal: IN / NOT IN
//   - String with a pattern operator: LIKE / NOT LIKE on the raw literal
//   - anything else: <field> <op> <value>
type Comparison struct {
	Field string
	Op    Operator
	Value Value
}

func (Comparison) predicateNode() {}

// RelationIn matches records with a related record whose route key is one
// of IDs. Negated matches records with no such related record.
type RelationIn struct {
	Relation string
	IDs      []string
	Negated  bool
}

func (RelationIn) predicateNode() {}

// RelationNull matches records whose belongs-to link is empty.
// Negated matches records whose link is set.
type RelationNull struct {
	Relation string
	Negated  bool
}

func (RelationNull) predicateNode() {}
