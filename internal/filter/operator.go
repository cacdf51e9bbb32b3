package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
)

// operatorPrefixes is ordered longest first so "!^$" wins over "!^" and "!".
var operatorPrefixes = []struct {
	prefix string
	op     queryir.Operator
}{
	{"!^$", queryir.OpNotContains},
	{"!=", queryir.OpNotEq},
	{"<=", queryir.OpLte},
	{">=", queryir.OpGte},
	{"<>", queryir.OpNotEqAlt},
	{"!^", queryir.OpNotStartsWith},
	{"!$", queryir.OpNotEndsWith},
	{"^$", queryir.OpContains},
	{"=", queryir.OpEq},
	{"!", queryir.OpNotEq},
	{"<", queryir.OpLt},
	{">", queryir.OpGt},
	{"^", queryir.OpStartsWith},
	{"$", queryir.OpEndsWith},
}

// ParseOperator splits a value into its operator prefix and the trimmed
// literal after it. A value without a prefix compares with OpEq.
func ParseOperator(value string) (queryir.Operator, string) {
	for _, p := range operatorPrefixes {
		if rest, ok := strings.CutPrefix(value, p.prefix); ok {
			return p.op, strings.TrimSpace(rest)
		}
	}
	return queryir.OpEq, value
}

// Coerce converts a literal to the value type of an attribute.
//
//	boolean   "true"/"false" in any case, otherwise "" and "0" are false
//	integer   parsed; real literals truncate; anything else is 0
//	float     parsed; anything else is 0
//	date      passed through
//	string    lowercased
func Coerce(ft metadata.FieldType, literal string) queryir.Value {
	switch ft {
	case metadata.FieldBoolean:
		switch strings.ToLower(literal) {
		case "true":
			return queryir.Bool(true)
		case "false":
			return queryir.Bool(false)
		}
		return queryir.Bool(literal != "" && literal != "0")
	case metadata.FieldInteger:
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return queryir.Int(i)
		}
		if f, ok := parseFloat(literal); ok && f > math.MinInt64 && f < math.MaxInt64 {
			return queryir.Int(int64(f))
		}
		return queryir.Int(0)
	case metadata.FieldFloat:
		if f, ok := parseFloat(literal); ok {
			return queryir.Float(f)
		}
		return queryir.Float(0)
	case metadata.FieldDate, metadata.FieldDateTime:
		return queryir.String(literal)
	default:
		return queryir.String(lower(literal))
	}
}

// parseFloat accepts finite reals only; "NaN" and "Inf" count as non-numeric.
func parseFloat(literal string) (float64, bool) {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// lower case-folds a literal the same way the store folds text columns.
func lower(s string) string {
	return metadata.FoldCase(s)
}
