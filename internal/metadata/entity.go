package metadata

import (
	"fmt"
	"slices"
)

// PrimaryKey is the integer primary key column every entity table carries.
const PrimaryKey = "id"

// EntityConfig is the mutable input to NewEntity.
type EntityConfig struct {
	Type       string
	Table      string // defaults to Type with '-' replaced by '_'
	RouteKey   string // defaults to PrimaryKey
	Attributes []Attribute
	Visible    []string // empty means every attribute is visible
	Relations  []Relation
	Scopes     map[string]string // scope name -> SQL ordering expression
}

// Entity is an immutable Provider snapshot for one resource type.
type Entity struct {
	typ      string
	table    string
	routeKey string

	attrs     map[string]FieldType
	attrOrder []string
	visible   map[string]bool

	relations map[string]Relation
	relOrder  []string

	scopes map[string]string
}

var _ Provider = (*Entity)(nil)

// NewEntity validates cfg and returns a snapshot that never changes.
func NewEntity(cfg EntityConfig) (*Entity, error) {
	if !typePattern.MatchString(cfg.Type) {
		return nil, fmt.Errorf("invalid entity type %q", cfg.Type)
	}

	e := &Entity{
		typ:       cfg.Type,
		table:     cfg.Table,
		routeKey:  cfg.RouteKey,
		attrs:     make(map[string]FieldType, len(cfg.Attributes)+1),
		relations: make(map[string]Relation, len(cfg.Relations)),
		scopes:    make(map[string]string, len(cfg.Scopes)),
	}
	if e.table == "" {
		e.table = CanonicalKey(cfg.Type)
	}
	if !IsIdentifier(e.table) {
		return nil, fmt.Errorf("entity %s: invalid table name %q", cfg.Type, e.table)
	}

	e.attrs[PrimaryKey] = FieldInteger
	for _, attr := range cfg.Attributes {
		if !IsIdentifier(attr.Name) {
			return nil, fmt.Errorf("entity %s: invalid attribute name %q", cfg.Type, attr.Name)
		}
		if attr.Name == PrimaryKey {
			continue
		}
		if _, dup := e.attrs[attr.Name]; dup {
			return nil, fmt.Errorf("entity %s: duplicate attribute %q", cfg.Type, attr.Name)
		}
		e.attrs[attr.Name] = attr.Type
		e.attrOrder = append(e.attrOrder, attr.Name)
	}

	if e.routeKey == "" {
		e.routeKey = PrimaryKey
	}
	if _, ok := e.attrs[e.routeKey]; !ok {
		return nil, fmt.Errorf("entity %s: route key %q is not an attribute", cfg.Type, e.routeKey)
	}

	if len(cfg.Visible) > 0 {
		e.visible = make(map[string]bool, len(cfg.Visible))
		for _, name := range cfg.Visible {
			if _, ok := e.attrs[name]; !ok {
				return nil, fmt.Errorf("entity %s: visible key %q is not an attribute", cfg.Type, name)
			}
			e.visible[name] = true
		}
	}

	for _, rel := range cfg.Relations {
		if !IsIdentifier(rel.Name) {
			return nil, fmt.Errorf("entity %s: invalid relation name %q", cfg.Type, rel.Name)
		}
		if _, clash := e.attrs[rel.Name]; clash {
			return nil, fmt.Errorf("entity %s: relation %q shadows an attribute", cfg.Type, rel.Name)
		}
		if _, dup := e.relations[rel.Name]; dup {
			return nil, fmt.Errorf("entity %s: duplicate relation %q", cfg.Type, rel.Name)
		}
		if rel.ForeignKey == "" && rel.Kind == BelongsTo {
			rel.ForeignKey = rel.Name + "_id"
		}
		if !IsIdentifier(rel.ForeignKey) {
			return nil, fmt.Errorf("entity %s: relation %q has invalid foreign key %q", cfg.Type, rel.Name, rel.ForeignKey)
		}
		e.relations[rel.Name] = rel
		e.relOrder = append(e.relOrder, rel.Name)
	}

	for name, expr := range cfg.Scopes {
		if !IsIdentifier(name) {
			return nil, fmt.Errorf("entity %s: invalid scope name %q", cfg.Type, name)
		}
		if expr == "" {
			return nil, fmt.Errorf("entity %s: scope %q has no expression", cfg.Type, name)
		}
		e.scopes[name] = expr
	}

	return e, nil
}

// Type returns the resource type name.
func (e *Entity) Type() string { return e.typ }

// Table returns the backing table name.
func (e *Entity) Table() string { return e.table }

// IsRelation reports whether key names a relation.
func (e *Entity) IsRelation(key string) bool {
	_, ok := e.relations[key]
	return ok
}

// Relation returns the relation named key.
func (e *Entity) Relation(key string) (Relation, bool) {
	rel, ok := e.relations[key]
	return rel, ok
}

// HasAttribute reports whether key is a declared column (primary key included).
func (e *Entity) HasAttribute(key string) bool {
	_, ok := e.attrs[key]
	return ok
}

// FieldType returns the declared attribute type, FieldString when unknown.
func (e *Entity) FieldType(key string) FieldType {
	if t, ok := e.attrs[key]; ok {
		return t
	}
	return FieldString
}

// IsVisible reports whether key is an attribute clients may query.
func (e *Entity) IsVisible(key string) bool {
	if _, ok := e.attrs[key]; !ok {
		return false
	}
	if e.visible == nil {
		return true
	}
	return e.visible[key]
}

// RouteKeyName returns the attribute identifying resources in URLs.
func (e *Entity) RouteKeyName() string { return e.routeKey }

// HasScope reports whether an ordering scope named key exists.
func (e *Entity) HasScope(key string) bool {
	_, ok := e.scopes[key]
	return ok
}

// Scope returns the SQL ordering expression of a scope.
func (e *Entity) Scope(name string) (string, bool) {
	expr, ok := e.scopes[name]
	return expr, ok
}

// ScopeNames returns the scope names, sorted.
func (e *Entity) ScopeNames() []string {
	names := make([]string, 0, len(e.scopes))
	for name := range e.scopes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RelationNames returns relation names in declaration order.
func (e *Entity) RelationNames() []string {
	return slices.Clone(e.relOrder)
}

// Attributes returns the declared attributes in declaration order,
// excluding the primary key.
func (e *Entity) Attributes() []Attribute {
	out := make([]Attribute, 0, len(e.attrOrder))
	for _, name := range e.attrOrder {
		out = append(out, Attribute{Name: name, Type: e.attrs[name]})
	}
	return out
}

// HasColumn reports whether column exists on the entity's table.
func (e *Entity) HasColumn(column string) bool {
	for _, c := range e.Columns() {
		if c == column {
			return true
		}
	}
	return false
}

// ForeignKeys returns the foreign key columns stored on this entity's table.
func (e *Entity) ForeignKeys() []string {
	var keys []string
	for _, name := range e.relOrder {
		rel := e.relations[name]
		if rel.Kind == BelongsTo && !slices.Contains(keys, rel.ForeignKey) {
			keys = append(keys, rel.ForeignKey)
		}
	}
	return keys
}

// Columns returns every column of the table: primary key, attributes,
// then belongs-to foreign keys not already declared as attributes.
func (e *Entity) Columns() []string {
	cols := append([]string{PrimaryKey}, e.attrOrder...)
	for _, fk := range e.ForeignKeys() {
		if !slices.Contains(cols, fk) {
			cols = append(cols, fk)
		}
	}
	return cols
}
