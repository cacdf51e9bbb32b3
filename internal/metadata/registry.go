package metadata

import (
	"fmt"
	"sort"
)

// Registry holds the entities of one API, keyed by type.
// It is immutable after NewRegistry returns.
type Registry struct {
	entities map[string]*Entity
}

// NewRegistry indexes entities and checks that every relation points at a
// registered type.
func NewRegistry(entities ...*Entity) (*Registry, error) {
	r := &Registry{entities: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		if _, dup := r.entities[e.Type()]; dup {
			return nil, fmt.Errorf("duplicate entity type %q", e.Type())
		}
		r.entities[e.Type()] = e
	}

	for _, e := range entities {
		for _, name := range e.RelationNames() {
			rel, _ := e.Relation(name)
			target, ok := r.entities[rel.Target]
			if !ok {
				return nil, fmt.Errorf("entity %s: relation %q targets unknown type %q", e.Type(), name, rel.Target)
			}
			if rel.Kind == HasMany && !target.HasColumn(rel.ForeignKey) {
				return nil, fmt.Errorf("entity %s: relation %q needs foreign key %q on %s", e.Type(), name, rel.ForeignKey, target.Type())
			}
		}
	}

	return r, nil
}

// Lookup returns the entity registered under typ.
func (r *Registry) Lookup(typ string) (*Entity, bool) {
	e, ok := r.entities[typ]
	return e, ok
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.entities))
	for t := range r.entities {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Entities returns the registered entities sorted by type.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.entities))
	for _, t := range r.Types() {
		out = append(out, r.entities[t])
	}
	return out
}
