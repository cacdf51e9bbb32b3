package queryir

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Format renders a predicate tree as a single deterministic line.
// Two trees are structurally equal exactly when their formats are equal.
//
//	and(views >= 18, or(status = "active", status = "pending"))
func Format(p Predicate) string {
	if p == nil {
		return "true"
	}
	return p.String()
}

func (a And) String() string { return formatGroup("and", a.Predicates) }

func (o Or) String() string { return formatGroup("or", o.Predicates) }

func formatGroup(name string, preds []Predicate) string {
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = Format(p)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

func (c Comparison) String() string {
	switch v := c.Value.(type) {
	case Null:
		if c.Op == OpEq {
			return c.Field + " is null"
		}
		return c.Field + " is not null"
	case Set:
		if c.Op == OpEq {
			return c.Field + " in " + v.String()
		}
		return c.Field + " not in " + v.String()
	case nil:
		return fmt.Sprintf("%s %s <nil>", c.Field, c.Op.Symbol())
	default:
		return fmt.Sprintf("%s %s %s", c.Field, c.Op.Symbol(), v.String())
	}
}

func (r RelationIn) String() string {
	ids := make([]string, len(r.IDs))
	for i, id := range r.IDs {
		ids[i] = strconv.Quote(id)
	}
	verb := "has"
	if r.Negated {
		verb = "has no"
	}
	return fmt.Sprintf("%s %s [%s]", r.Relation, verb, strings.Join(ids, ", "))
}

func (r RelationNull) String() string {
	if r.Negated {
		return r.Relation + " is set"
	}
	return r.Relation + " is empty"
}

// MarshalJSON renders And as {"type":"and","predicates":[...]}.
func (a And) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string      `json:"type"`
		Predicates []Predicate `json:"predicates"`
	}{"and", a.Predicates})
}

// MarshalJSON renders Or as {"type":"or","predicates":[...]}.
func (o Or) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string      `json:"type"`
		Predicates []Predicate `json:"predicates"`
	}{"or", o.Predicates})
}

// MarshalJSON renders a Comparison with its operator name and native value.
func (c Comparison) MarshalJSON() ([]byte, error) {
	var value any = Native(c.Value)
	if set, ok := c.Value.(Set); ok {
		value = set
	}
	return json.Marshal(struct {
		Type  string `json:"type"`
		Field string `json:"field"`
		Op    string `json:"op"`
		Value any    `json:"value"`
	}{"comparison", c.Field, c.Op.String(), value})
}

// MarshalJSON renders a RelationIn node.
func (r RelationIn) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string   `json:"type"`
		Relation string   `json:"relation"`
		IDs      []string `json:"ids"`
		Negated  bool     `json:"negated,omitempty"`
	}{"relation_in", r.Relation, r.IDs, r.Negated})
}

// MarshalJSON renders a RelationNull node.
func (r RelationNull) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Relation string `json:"relation"`
		Negated  bool   `json:"negated,omitempty"`
	}{"relation_null", r.Relation, r.Negated})
}
