package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/listq/internal/include"
	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/store"
)

// resourcePath returns the canonical path of a resource.
func resourcePath(typ, id string) string {
	return "/" + typ + "/" + id
}

// newResource renders a record of e. Attributes are the visible
// attributes; every relation gets a related link, and data only once the
// relation is included.
func newResource(e *metadata.Entity, rec store.Record) *Resource {
	id := rec.Key(e.RouteKeyName())
	self := resourcePath(e.Type(), id)

	attrs := make(map[string]any)
	for _, attr := range e.Attributes() {
		if e.IsVisible(attr.Name) {
			attrs[attr.Name] = rec.Fields[attr.Name]
		}
	}

	var rels map[string]Relationship
	if names := e.RelationNames(); len(names) > 0 {
		rels = make(map[string]Relationship, len(names))
		for _, name := range names {
			rels[name] = Relationship{Links: &Links{Related: self + "/" + name}}
		}
	}

	return &Resource{
		Type:          e.Type(),
		ID:            id,
		Attributes:    attrs,
		Relationships: rels,
		Links:         &Links{Self: self},
	}
}

// node pairs a record with the resource rendered for it.
type node struct {
	rec store.Record
	res *Resource
}

// expander loads included relations and collects the included resources.
//
// Every (type, id) is rendered once. A record reached through several
// paths, or that is also a primary resource, shares one Resource so the
// relationships included along each path are merged on it.
type expander struct {
	store *store.Store
	reg   *metadata.Registry

	resources map[Identifier]*Resource
	included  []*Resource
}

func newExpander(st *store.Store, reg *metadata.Registry) *expander {
	return &expander{
		store:     st,
		reg:       reg,
		resources: make(map[Identifier]*Resource),
	}
}

// primary renders the primary records of a response. Primary resources
// never appear in included.
func (x *expander) primary(e *metadata.Entity, recs []store.Record) []node {
	nodes := make([]node, 0, len(recs))
	for _, rec := range recs {
		res := newResource(e, rec)
		x.resources[Identifier{Type: res.Type, ID: res.ID}] = res
		nodes = append(nodes, node{rec: rec, res: res})
	}
	return nodes
}

// related returns the shared resource for rec, adding it to included the
// first time it is seen.
func (x *expander) related(e *metadata.Entity, rec store.Record) node {
	key := Identifier{Type: e.Type(), ID: rec.Key(e.RouteKeyName())}
	if res, ok := x.resources[key]; ok {
		return node{rec: rec, res: res}
	}
	res := newResource(e, rec)
	x.resources[key] = res
	x.included = append(x.included, res)
	return node{rec: rec, res: res}
}

// Included returns the included resources in the order they were loaded.
func (x *expander) Included() []Resource {
	if len(x.included) == 0 {
		return nil
	}
	out := make([]Resource, len(x.included))
	for i, res := range x.included {
		out[i] = *res
	}
	return out
}

// expand loads every relation of tree for parents, which are records of e,
// and recurses into the subtrees. Names that are not relations of e are
// skipped.
func (x *expander) expand(ctx context.Context, e *metadata.Entity, parents []node, tree include.Tree) error {
	if len(parents) == 0 {
		return nil
	}
	for _, name := range tree.Names() {
		rel, ok := e.Relation(name)
		if !ok {
			slog.Debug("include skipped", "type", e.Type(), "relation", name, "reason", "not a relation")
			continue
		}
		target, ok := x.reg.Lookup(rel.Target)
		if !ok {
			return fmt.Errorf("relation %s.%s: unknown target type %q", e.Type(), name, rel.Target)
		}

		var (
			children []node
			err      error
		)
		switch rel.Kind {
		case metadata.BelongsTo:
			children, err = x.belongsTo(ctx, target, rel, parents)
		case metadata.HasMany:
			children, err = x.hasMany(ctx, target, rel, parents)
		default:
			err = fmt.Errorf("relation %s.%s: unsupported kind %s", e.Type(), name, rel.Kind)
		}
		if err != nil {
			return err
		}

		if err := x.expand(ctx, target, children, tree[name]); err != nil {
			return err
		}
	}
	return nil
}

func (x *expander) belongsTo(ctx context.Context, target *metadata.Entity, rel metadata.Relation, parents []node) ([]node, error) {
	var fks []any
	seen := make(map[any]bool)
	for _, p := range parents {
		fk := p.rec.Fields[rel.ForeignKey]
		if fk == nil || seen[fk] {
			continue
		}
		seen[fk] = true
		fks = append(fks, fk)
	}

	recs, err := x.store.FindIn(ctx, target.Type(), metadata.PrimaryKey, fks)
	if err != nil {
		return nil, fmt.Errorf("include %s: %w", rel.Name, err)
	}

	byID := make(map[int64]node, len(recs))
	children := make([]node, 0, len(recs))
	for _, rec := range recs {
		n := x.related(target, rec)
		byID[rec.ID()] = n
		children = append(children, n)
	}

	for _, p := range parents {
		var data *Identifier
		if fk, ok := p.rec.Fields[rel.ForeignKey].(int64); ok {
			if n, ok := byID[fk]; ok {
				data = &Identifier{Type: n.res.Type, ID: n.res.ID}
			}
		}
		setIncluded(p.res, rel.Name, data)
	}
	return children, nil
}

func (x *expander) hasMany(ctx context.Context, target *metadata.Entity, rel metadata.Relation, parents []node) ([]node, error) {
	ids := make([]any, 0, len(parents))
	for _, p := range parents {
		ids = append(ids, p.rec.ID())
	}

	recs, err := x.store.FindIn(ctx, target.Type(), rel.ForeignKey, ids)
	if err != nil {
		return nil, fmt.Errorf("include %s: %w", rel.Name, err)
	}

	byParent := make(map[int64][]Identifier)
	children := make([]node, 0, len(recs))
	for _, rec := range recs {
		n := x.related(target, rec)
		children = append(children, n)
		if fk, ok := rec.Fields[rel.ForeignKey].(int64); ok {
			byParent[fk] = append(byParent[fk], Identifier{Type: n.res.Type, ID: n.res.ID})
		}
	}

	for _, p := range parents {
		data := byParent[p.rec.ID()]
		if data == nil {
			data = []Identifier{}
		}
		setIncluded(p.res, rel.Name, data)
	}
	return children, nil
}

// setIncluded records the linkage of an included relation on res.
func setIncluded(res *Resource, name string, data any) {
	r := res.Relationships[name]
	r.Data = data
	r.included = true
	res.Relationships[name] = r
}
