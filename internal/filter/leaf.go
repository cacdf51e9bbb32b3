package filter

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
)

// ResolvePair compiles one key:value pair into a leaf predicate.
//
// The key is canonicalised first. Relation keys become RelationIn or
// RelationNull leaves; attribute keys become a Comparison. The second
// result is false when the pair is dropped: a hidden or unknown key, an
// operator that cannot apply to the value, or an empty literal. Dropping
// is not an error.
func ResolvePair(pair Pair, provider metadata.Provider) (queryir.Predicate, bool) {
	key := metadata.CanonicalKey(pair.Key)

	if provider.IsRelation(key) {
		return resolveRelation(key, pair, provider)
	}
	if !provider.IsVisible(key) {
		return drop(pair, "key is not queryable")
	}

	ft := provider.FieldType(key)
	if pair.HasList {
		return resolveList(key, ft, pair)
	}

	op, literal := ParseOperator(pair.Value)
	if literal == "null" {
		if op == queryir.OpEq || op.IsNotEqual() {
			return queryir.Comparison{Field: key, Op: op, Value: queryir.Null{}}, true
		}
		return drop(pair, "null cannot be compared with "+op.String())
	}
	if literal == "" {
		return drop(pair, "empty value")
	}

	if op.IsPattern() {
		if ft == metadata.FieldString {
			literal = lower(literal)
		}
		return queryir.Comparison{Field: key, Op: op, Value: queryir.String(literal)}, true
	}
	return queryir.Comparison{Field: key, Op: op, Value: Coerce(ft, literal)}, true
}

func resolveRelation(key string, pair Pair, provider metadata.Provider) (queryir.Predicate, bool) {
	rel, _ := provider.Relation(key)
	value, negated := peelNegation(pair.Value)

	if pair.HasList {
		if value != "" {
			return drop(pair, "unsupported operator on relation id list")
		}
		if len(pair.List) == 0 {
			return drop(pair, "empty id list")
		}
		return queryir.RelationIn{Relation: key, IDs: slices.Clone(pair.List), Negated: negated}, true
	}

	switch value {
	case "null":
		// Only a belongs-to link can be empty; has-many null is a no-op.
		if rel.Kind != metadata.BelongsTo {
			return drop(pair, "null on has-many relation")
		}
		return queryir.RelationNull{Relation: key, Negated: negated}, true
	case "":
		return drop(pair, "empty id")
	}
	return queryir.RelationIn{Relation: key, IDs: []string{value}, Negated: negated}, true
}

// peelNegation strips "!", "!=", "<>" (negated) or "=" from a relation value.
func peelNegation(value string) (string, bool) {
	for _, prefix := range []string{"!=", "<>", "!"} {
		if rest, ok := strings.CutPrefix(value, prefix); ok {
			return strings.TrimSpace(rest), true
		}
	}
	if rest, ok := strings.CutPrefix(value, "="); ok {
		return strings.TrimSpace(rest), false
	}
	return value, false
}

func resolveList(key string, ft metadata.FieldType, pair Pair) (queryir.Predicate, bool) {
	var op queryir.Operator
	switch pair.Value {
	case "", "=":
		op = queryir.OpEq
	case "!", "!=":
		op = queryir.OpNotEq
	case "<>":
		op = queryir.OpNotEqAlt
	default:
		return drop(pair, "unsupported operator on value list")
	}
	if len(pair.List) == 0 {
		return drop(pair, "empty value list")
	}

	set := make(queryir.Set, len(pair.List))
	for i, literal := range pair.List {
		set[i] = Coerce(ft, literal)
	}
	return queryir.Comparison{Field: key, Op: op, Value: set}, true
}

func drop(pair Pair, reason string) (queryir.Predicate, bool) {
	slog.Debug("dropping filter pair", "pair", pair.String(), "reason", reason)
	return nil, false
}
