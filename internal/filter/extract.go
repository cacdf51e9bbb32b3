package filter

import (
	"fmt"
	"slices"
	"strings"
)

type tokenKind int

const (
	tokText tokenKind = iota
	tokOpen
	tokClose
	tokAnd // ','
	tokOr  // '|'
	tokIn
	tokPair
	tokExpr
)

// token is one lexical unit of a filter level. Placeholder tokens (in,
// pair, expr) carry an arena id instead of text, so they can never collide
// with anything the client wrote.
type token struct {
	kind tokenKind
	text string
	id   int
}

func (t token) String() string {
	switch t.kind {
	case tokOpen:
		return "("
	case tokClose:
		return ")"
	case tokAnd:
		return ","
	case tokOr:
		return "|"
	case tokIn:
		return fmt.Sprintf("{{in-%04d}}", t.id)
	case tokPair:
		return fmt.Sprintf("{{pair-%04d}}", t.id)
	case tokExpr:
		return fmt.Sprintf("{{expr-%04d}}", t.id)
	default:
		return t.text
	}
}

func render(toks []token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.String())
	}
	return b.String()
}

// Pair is a key:value leaf as the client wrote it.
type Pair struct {
	Key   string
	Value string

	// List holds the literals of an IN-list written directly after the
	// value, as in "status:(a|b)" or "status:!(a|b)". HasList tells an
	// empty list "()" apart from no list at all.
	List    []string
	HasList bool
}

func (p Pair) String() string {
	s := p.Key + ":" + p.Value
	if p.HasList {
		s += "(" + strings.Join(p.List, "|") + ")"
	}
	return s
}

// arena holds the symbol tables shared by every level of one filter.
// Ids come from a single counter, so they are unique per compilation.
type arena struct {
	next    int
	inLists map[int][]string
	pairs   map[int]Pair
	exprs   map[int]*RawExpression
}

func newArena() *arena {
	return &arena{
		inLists: make(map[int][]string),
		pairs:   make(map[int]Pair),
		exprs:   make(map[int]*RawExpression),
	}
}

func (a *arena) alloc() int {
	a.next++
	return a.next
}

// RawExpression is one filter level after extraction: pair and
// sub-expression placeholders joined by ',' and '|'. It never contains
// parentheses. RawExpression is immutable once Extract returns.
type RawExpression struct {
	tokens []token
	arena  *arena
}

// String renders the level with placeholders, e.g. "{{pair-0002}},{{expr-0005}}".
func (e *RawExpression) String() string {
	return render(e.tokens)
}

// InList returns the literals recorded for an in-list placeholder.
func (e *RawExpression) InList(id int) ([]string, bool) {
	list, ok := e.arena.inLists[id]
	return list, ok
}

// Pair returns the pair recorded for a pair placeholder.
func (e *RawExpression) Pair(id int) (Pair, bool) {
	p, ok := e.arena.pairs[id]
	return p, ok
}

// Subexpression returns the nested level recorded for an expr placeholder.
func (e *RawExpression) Subexpression(id int) (*RawExpression, bool) {
	sub, ok := e.arena.exprs[id]
	return sub, ok
}

// Extract partitions a raw filter string into placeholders, innermost
// first:
//
//  1. strip one outer pair of parentheses wrapping the whole filter
//  2. replace IN-lists "(a|b|c)" with in placeholders
//  3. replace "key:value" text with pair placeholders, absorbing an
//     IN-list that directly follows the value
//  4. replace innermost parenthesised groups with expr placeholders
//     until no parentheses remain
//
// Extract fails with a MalformedFilter error when parentheses are
// unbalanced or cannot be grouped, or when a pair has an empty key.
func Extract(raw string) (*RawExpression, error) {
	opening, closing := strings.Count(raw, "("), strings.Count(raw, ")")
	if opening != closing {
		return nil, NewMalformedError(
			fmt.Sprintf("unbalanced parentheses (%d opening, %d closing)", opening, closing), raw)
	}

	a := newArena()
	toks := stripOuter(lex(raw))
	toks = extractInLists(a, toks)

	toks, err := extractPairs(a, toks)
	if err != nil {
		return nil, err
	}

	toks, err = extractGroups(a, toks)
	if err != nil {
		return nil, err
	}

	return &RawExpression{tokens: toks, arena: a}, nil
}

// lex splits raw into delimiters and trimmed text runs. Whitespace-only
// runs are dropped.
func lex(raw string) []token {
	var toks []token
	start := 0
	flush := func(end int) {
		if text := strings.TrimSpace(raw[start:end]); text != "" {
			toks = append(toks, token{kind: tokText, text: text})
		}
	}

	for i := 0; i < len(raw); i++ {
		var kind tokenKind
		switch raw[i] {
		case '(':
			kind = tokOpen
		case ')':
			kind = tokClose
		case ',':
			kind = tokAnd
		case '|':
			kind = tokOr
		default:
			continue
		}
		flush(i)
		toks = append(toks, token{kind: kind})
		start = i + 1
	}
	flush(len(raw))

	return toks
}

// stripOuter removes one pair of parentheses when it wraps the whole stream.
func stripOuter(toks []token) []token {
	n := len(toks)
	if n < 2 || toks[0].kind != tokOpen || toks[n-1].kind != tokClose {
		return toks
	}

	depth := 0
	for i, t := range toks {
		switch t.kind {
		case tokOpen:
			depth++
		case tokClose:
			depth--
			if depth == 0 && i != n-1 {
				return toks
			}
		}
	}
	return toks[1 : n-1]
}

func extractInLists(a *arena, toks []token) []token {
	out := make([]token, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		if toks[i].kind == tokOpen {
			if end, ok := inListEnd(toks, i); ok {
				id := a.alloc()
				a.inLists[id] = literals(toks[i+1 : end])
				out = append(out, token{kind: tokIn, id: id})
				i = end
				continue
			}
		}
		out = append(out, toks[i])
	}
	return out
}

// inListEnd returns the index of the ')' closing an IN-list opened at
// start. An IN-list holds only literals and '|'; no literal contains ':'.
func inListEnd(toks []token, start int) (int, bool) {
	for j := start + 1; j < len(toks); j++ {
		switch t := toks[j]; t.kind {
		case tokClose:
			return j, true
		case tokOr:
		case tokText:
			if strings.Contains(t.text, ":") {
				return 0, false
			}
		default:
			return 0, false
		}
	}
	return 0, false
}

// literals collects the non-empty literals between '|' separators.
func literals(toks []token) []string {
	out := []string{}
	for _, t := range toks {
		if t.kind == tokText {
			out = append(out, t.text)
		}
	}
	return out
}

func extractPairs(a *arena, toks []token) ([]token, error) {
	out := make([]token, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind != tokText || !strings.Contains(t.text, ":") {
			out = append(out, t)
			continue
		}

		key, value, _ := strings.Cut(t.text, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, NewMalformedError("pair without key", t.text)
		}

		pair := Pair{Key: key, Value: strings.TrimSpace(value)}
		if i+1 < len(toks) && toks[i+1].kind == tokIn {
			pair.List = a.inLists[toks[i+1].id]
			pair.HasList = true
			i++
		}

		id := a.alloc()
		a.pairs[id] = pair
		out = append(out, token{kind: tokPair, id: id})
	}
	return out, nil
}

// extractGroups replaces parenthesised groups with expr placeholders in one
// left-to-right pass. Each ')' closes the innermost open group, so groups
// are allocated innermost first and every token is copied once.
func extractGroups(a *arena, toks []token) ([]token, error) {
	out := make([]token, 0, len(toks))
	var opens []int // indexes into out of unclosed '('

	for _, t := range toks {
		switch t.kind {
		case tokOpen:
			opens = append(opens, len(out))
			out = append(out, t)
		case tokClose:
			if len(opens) == 0 {
				return nil, NewMalformedError("closing parenthesis without opening", render(toks))
			}
			openAt := opens[len(opens)-1]
			opens = opens[:len(opens)-1]

			id := a.alloc()
			a.exprs[id] = &RawExpression{tokens: slices.Clone(out[openAt+1:]), arena: a}
			out = append(out[:openAt], token{kind: tokExpr, id: id})
		default:
			out = append(out, t)
		}
	}

	if len(opens) > 0 {
		return nil, NewMalformedError("unclosed parenthesis", render(toks))
	}
	return out, nil
}
