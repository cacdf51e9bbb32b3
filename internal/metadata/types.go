package metadata

import (
	"fmt"
	"strings"
)

// FieldType drives value coercion for attribute comparisons.
type FieldType int

const (
	// FieldString compares case-insensitively; literals are lowercased.
	FieldString FieldType = iota
	FieldBoolean
	FieldInteger
	FieldFloat
	FieldDate
	FieldDateTime
)

var fieldTypeNames = map[FieldType]string{
	FieldString:   "string",
	FieldBoolean:  "boolean",
	FieldInteger:  "integer",
	FieldFloat:    "float",
	FieldDate:     "date",
	FieldDateTime: "datetime",
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// ParseFieldType maps a schema type name to a FieldType.
// Common aliases (int, bool, double, timestamp) are accepted.
func ParseFieldType(name string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "text":
		return FieldString, nil
	case "boolean", "bool":
		return FieldBoolean, nil
	case "integer", "int":
		return FieldInteger, nil
	case "float", "double", "number":
		return FieldFloat, nil
	case "date":
		return FieldDate, nil
	case "datetime", "timestamp":
		return FieldDateTime, nil
	default:
		return FieldString, fmt.Errorf("unknown field type %q", name)
	}
}

// RelationKind distinguishes where the foreign key lives.
type RelationKind int

const (
	// BelongsTo keeps the foreign key on the owning entity's table.
	BelongsTo RelationKind = iota
	// HasMany keeps the foreign key on the related entity's table.
	HasMany
)

func (k RelationKind) String() string {
	switch k {
	case BelongsTo:
		return "belongs_to"
	case HasMany:
		return "has_many"
	default:
		return fmt.Sprintf("RelationKind(%d)", int(k))
	}
}

// ParseRelationKind maps a schema relation kind to a RelationKind.
func ParseRelationKind(name string) (RelationKind, error) {
	switch CanonicalKey(name) {
	case "belongs_to":
		return BelongsTo, nil
	case "has_many":
		return HasMany, nil
	default:
		return BelongsTo, fmt.Errorf("unknown relation kind %q", name)
	}
}

// Attribute is a named, typed column of an entity.
type Attribute struct {
	Name string
	Type FieldType
}

// Relation links an entity to another entity type.
type Relation struct {
	Name   string
	Kind   RelationKind
	Target string // related entity type

	// ForeignKey is the column holding the link: on the owning table for
	// BelongsTo, on the target table for HasMany.
	ForeignKey string
}

// Provider answers key-level questions for one entity type.
// Implementations must be safe for concurrent read-only use.
type Provider interface {
	// Type returns the resource type name (e.g. "posts").
	Type() string

	// IsRelation reports whether key names a relation.
	IsRelation(key string) bool

	// Relation returns the relation named key.
	Relation(key string) (Relation, bool)

	// FieldType returns the declared type of an attribute.
	// Unknown keys report FieldString.
	FieldType(key string) FieldType

	// IsVisible reports whether clients may filter or sort on key.
	IsVisible(key string) bool

	// RouteKeyName returns the key that identifies a resource in URLs.
	RouteKeyName() string

	// HasScope reports whether a named ordering scope exists for key.
	HasScope(key string) bool

	// RelationNames returns every relation name in declaration order.
	RelationNames() []string
}
