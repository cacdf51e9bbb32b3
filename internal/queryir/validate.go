package queryir

import (
	"fmt"
)

// ValidationResult contains the structural analysis of a predicate tree.
type ValidationResult struct {
	// IsWellFormed is true when no problems were found.
	IsWellFormed bool

	// Problems lists structural defects, in tree order.
	Problems []string

	// Leaves counts non-group nodes.
	Leaves int

	// Depth is the deepest group nesting (0 for a single leaf).
	Depth int
}

// Validate checks the invariants the filter compiler guarantees:
//  1. Groups have at least two children (single children collapse)
//  2. No nil children
//  3. Null and Set values only pair with equal / not-equal
//  4. Pattern operators only carry String values
//  5. Relation leaves name a relation and carry at least one id
//
// A nil predicate is well formed (no filter).
// Validate is a pure function with no side effects.
func Validate(p Predicate) ValidationResult {
	v := &validator{problems: []string{}}
	v.validate(p, 0)

	return ValidationResult{
		IsWellFormed: len(v.problems) == 0,
		Problems:     v.problems,
		Leaves:       v.leaves,
		Depth:        v.depth,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
	leaves   int
	depth    int
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validate(p Predicate, depth int) {
	if depth > v.depth {
		v.depth = depth
	}

	switch pred := p.(type) {
	case nil:
		if depth > 0 {
			v.addProblem("nil child at depth %d", depth)
		}
	case And:
		v.validateGroup("and", pred.Predicates, depth)
	case *And:
		v.validateGroup("and", pred.Predicates, depth)
	case Or:
		v.validateGroup("or", pred.Predicates, depth)
	case *Or:
		v.validateGroup("or", pred.Predicates, depth)
	case Comparison:
		v.validateComparison(pred)
	case *Comparison:
		v.validateComparison(*pred)
	case RelationIn:
		v.leaves++
		if pred.Relation == "" {
			v.addProblem("relation filter without relation name")
		}
		if len(pred.IDs) == 0 {
			v.addProblem("relation filter on %s has no ids", pred.Relation)
		}
	case *RelationIn:
		v.validate(*pred, depth)
	case RelationNull:
		v.leaves++
		if pred.Relation == "" {
			v.addProblem("relation null check without relation name")
		}
	case *RelationNull:
		v.validate(*pred, depth)
	default:
		v.addProblem("unknown predicate type: %T", p)
	}
}

func (v *validator) validateGroup(name string, children []Predicate, depth int) {
	if len(children) < 2 {
		v.addProblem("%s group with %d child(ren) should have collapsed", name, len(children))
	}
	for _, child := range children {
		if child == nil {
			v.addProblem("nil child in %s group", name)
			continue
		}
		v.validate(child, depth+1)
	}
}

func (v *validator) validateComparison(c Comparison) {
	v.leaves++

	if c.Field == "" {
		v.addProblem("comparison without field")
	}

	switch val := c.Value.(type) {
	case nil:
		v.addProblem("comparison on %s has no value", c.Field)
	case Null:
		if c.Op != OpEq && !c.Op.IsNotEqual() {
			v.addProblem("null compared with %s on %s", c.Op, c.Field)
		}
	case Set:
		if c.Op != OpEq && !c.Op.IsNotEqual() {
			v.addProblem("set compared with %s on %s", c.Op, c.Field)
		}
		if len(val) == 0 {
			v.addProblem("empty set on %s", c.Field)
		}
	case String:
	default:
		if c.Op.IsPattern() {
			v.addProblem("pattern operator %s on non-text value for %s", c.Op, c.Field)
		}
	}
}
