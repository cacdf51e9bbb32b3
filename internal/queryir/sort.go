package queryir

import (
	"encoding/json"
	"strings"
)

// Direction is an ordering direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// SortKind says how a sort key is applied.
type SortKind int

const (
	// PlainField orders by a visible column.
	PlainField SortKind = iota
	// ScopeCall orders through a named scope declared on the entity.
	ScopeCall
)

func (k SortKind) String() string {
	if k == ScopeCall {
		return "scope"
	}
	return "field"
}

// SortSpec is one ordering term.
type SortSpec struct {
	Field     string
	Direction Direction
	Kind      SortKind
}

func (s SortSpec) String() string {
	prefix := ""
	if s.Direction == Desc {
		prefix = "-"
	}
	if s.Kind == ScopeCall {
		return prefix + "scope:" + s.Field
	}
	return prefix + s.Field
}

// MarshalJSON renders {"field":..,"direction":"asc","kind":"field"}.
func (s SortSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Field     string `json:"field"`
		Direction string `json:"direction"`
		Kind      string `json:"kind"`
	}{s.Field, s.Direction.String(), s.Kind.String()})
}

// FormatSort renders sort specs back in sort-expression form.
func FormatSort(specs []SortSpec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// Select is a list query against one resource type.
//
// Semantics:
//
//	SELECT <columns> FROM <from> WHERE <filter> ORDER BY <sort> LIMIT <limit> OFFSET <offset>
//
// A nil Filter matches every record. Limit 0 means no limit.
type Select struct {
	From   string // resource type
	Filter Predicate
	Sort   []SortSpec
	Limit  int
	Offset int
}
