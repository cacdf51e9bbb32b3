package queryir

//go:generate mockgen -source=queryable.go -destination=mocks/mock_queryable.go -package=mocks Queryable

import "fmt"

// Logic is the connective joining a condition to the conditions already
// added at the same level.
type Logic int

const (
	LogicAnd Logic = iota
	LogicOr
)

func (l Logic) String() string {
	if l == LogicOr {
		return "OR"
	}
	return "AND"
}

// Queryable is the sink a compiled filter and sort are applied to.
//
// Every condition method takes the Logic joining it to its preceding
// siblings. Nest opens a parenthesised group; conditions added to the
// Queryable passed to fn land inside that group.
type Queryable interface {
	Nest(l Logic, fn func(Queryable) error) error
	Where(l Logic, field string, op Operator, v Value) error
	WhereIn(l Logic, field string, values []Value) error
	WhereNotIn(l Logic, field string, values []Value) error
	WhereNull(l Logic, field string) error
	WhereNotNull(l Logic, field string) error
	WhereHasRelation(l Logic, relation string, ids []string) error
	WhereDoesntHaveRelation(l Logic, relation string, ids []string) error
	OrderBy(field string, dir Direction) error
	CallScope(name string, dir Direction) error
}

// Apply adds a whole filter tree to q. A root And is flattened into q's
// top level; any other group is nested.
func Apply(q Queryable, p Predicate) error {
	switch root := p.(type) {
	case And:
		return applyChildren(q, LogicAnd, root.Predicates)
	case *And:
		return applyChildren(q, LogicAnd, root.Predicates)
	default:
		return ApplyAnd(q, p)
	}
}

// ApplyAnd adds p to q joined with AND.
func ApplyAnd(q Queryable, p Predicate) error {
	return apply(q, LogicAnd, p)
}

// ApplyOr adds p to q joined with OR.
func ApplyOr(q Queryable, p Predicate) error {
	return apply(q, LogicOr, p)
}

// ApplySort adds ordering terms to q in order.
func ApplySort(q Queryable, specs []SortSpec) error {
	for _, s := range specs {
		var err error
		switch s.Kind {
		case PlainField:
			err = q.OrderBy(s.Field, s.Direction)
		case ScopeCall:
			err = q.CallScope(s.Field, s.Direction)
		default:
			err = fmt.Errorf("unsupported sort kind: %v", s.Kind)
		}
		if err != nil {
			return fmt.Errorf("sort %s: %w", s, err)
		}
	}
	return nil
}

func apply(q Queryable, l Logic, p Predicate) error {
	switch pred := p.(type) {
	case nil:
		return nil
	case And:
		return q.Nest(l, func(inner Queryable) error {
			return applyChildren(inner, LogicAnd, pred.Predicates)
		})
	case *And:
		return apply(q, l, *pred)
	case Or:
		return q.Nest(l, func(inner Queryable) error {
			return applyChildren(inner, LogicOr, pred.Predicates)
		})
	case *Or:
		return apply(q, l, *pred)
	case Comparison:
		return applyComparison(q, l, pred)
	case *Comparison:
		return applyComparison(q, l, *pred)
	case RelationIn:
		if pred.Negated {
			return q.WhereDoesntHaveRelation(l, pred.Relation, pred.IDs)
		}
		return q.WhereHasRelation(l, pred.Relation, pred.IDs)
	case *RelationIn:
		return apply(q, l, *pred)
	case RelationNull:
		if pred.Negated {
			return q.WhereNotNull(l, pred.Relation)
		}
		return q.WhereNull(l, pred.Relation)
	case *RelationNull:
		return apply(q, l, *pred)
	default:
		return fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func applyChildren(q Queryable, l Logic, preds []Predicate) error {
	for _, child := range preds {
		if err := apply(q, l, child); err != nil {
			return err
		}
	}
	return nil
}

func applyComparison(q Queryable, l Logic, c Comparison) error {
	switch v := c.Value.(type) {
	case Null:
		switch {
		case c.Op == OpEq:
			return q.WhereNull(l, c.Field)
		case c.Op.IsNotEqual():
			return q.WhereNotNull(l, c.Field)
		}
		return fmt.Errorf("operator %s cannot compare %s with null", c.Op, c.Field)
	case Set:
		switch {
		case c.Op == OpEq:
			return q.WhereIn(l, c.Field, v)
		case c.Op.IsNotEqual():
			return q.WhereNotIn(l, c.Field, v)
		}
		return fmt.Errorf("operator %s cannot compare %s with a set", c.Op, c.Field)
	case nil:
		return fmt.Errorf("comparison on %s has no value", c.Field)
	default:
		return q.Where(l, c.Field, c.Op, c.Value)
	}
}
