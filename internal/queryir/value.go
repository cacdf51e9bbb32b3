package queryir

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Value is a sealed interface over the literal types a comparison can hold.
type Value interface {
	queryValue() // Sealed - only these types implement it
	String() string
}

// String is a text literal.
type String string

func (String) queryValue() {}

func (s String) String() string { return strconv.Quote(string(s)) }

// Int is an integer literal.
type Int int64

func (Int) queryValue() {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a real-number literal.
type Float float64

func (Float) queryValue() {}

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// Bool is a boolean literal.
type Bool bool

func (Bool) queryValue() {}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Null is the literal null. Comparisons against Null become IS [NOT] NULL.
type Null struct{}

func (Null) queryValue() {}

func (Null) String() string { return "null" }

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Set is a list of literals for set membership.
type Set []Value

func (Set) queryValue() {}

func (s Set) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MarshalJSON implements json.Marshaler for Set.
func (s Set) MarshalJSON() ([]byte, error) {
	elems := make([]any, len(s))
	for i, v := range s {
		elems[i] = Native(v)
	}
	return json.Marshal(elems)
}

// Native converts a Value to the Go type a database driver expects.
// Sets convert element-wise to []any.
func Native(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Null, nil:
		return nil
	case Set:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Native(elem)
		}
		return out
	default:
		return nil
	}
}
