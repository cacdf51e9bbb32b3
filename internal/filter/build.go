package filter

import (
	"log/slog"

	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
)

// Build resolves an extracted level, and every level nested in it, into a
// predicate tree.
//
// A level joined only by ',' becomes And, one joined only by '|' becomes
// Or; a level using both fails with an AmbiguousExpression error. Items
// that are not a single pair or group are dropped, as are pairs
// ResolvePair rejects. A group left with one child collapses to it. A nil
// predicate with a nil error means no condition survived.
func Build(expr *RawExpression, provider metadata.Provider) (queryir.Predicate, error) {
	var ands, ors int
	for _, t := range expr.tokens {
		switch t.kind {
		case tokAnd:
			ands++
		case tokOr:
			ors++
		}
	}
	if ands > 0 && ors > 0 {
		return nil, NewAmbiguousError(expr.String())
	}

	sep := tokAnd
	if ors > 0 {
		sep = tokOr
	}

	var children []queryir.Predicate
	for _, item := range split(expr.tokens, sep) {
		child, err := buildItem(expr, item, provider)
		if err != nil {
			return nil, err
		}
		if child != nil {
			children = append(children, child)
		}
	}

	switch len(children) {
	case 0:
		return nil, nil
	case 1:
		return children[0], nil
	}
	if sep == tokOr {
		return queryir.Or{Predicates: children}, nil
	}
	return queryir.And{Predicates: children}, nil
}

func buildItem(expr *RawExpression, item []token, provider metadata.Provider) (queryir.Predicate, error) {
	if len(item) == 1 {
		switch t := item[0]; t.kind {
		case tokPair:
			pred, ok := ResolvePair(expr.arena.pairs[t.id], provider)
			if !ok {
				return nil, nil
			}
			return pred, nil
		case tokExpr:
			return Build(expr.arena.exprs[t.id], provider)
		}
	}

	if len(item) > 0 {
		slog.Debug("dropping filter item", "item", render(item))
	}

	// A dropped item still may not hide a broken group.
	for _, t := range item {
		if t.kind != tokExpr {
			continue
		}
		if _, err := Build(expr.arena.exprs[t.id], provider); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// split cuts toks at every sep token. Empty items are kept so trailing
// separators show up as (dropped) empty items.
func split(toks []token, sep tokenKind) [][]token {
	items := [][]token{}
	start := 0
	for i, t := range toks {
		if t.kind == sep {
			items = append(items, toks[start:i])
			start = i + 1
		}
	}
	return append(items, toks[start:])
}
