package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/listq/internal/metadata"
)

// Compile builds a registry from every field of the top-level "entity"
// struct.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`entity: posts: attributes: title: string`)
//	reg, err := Compile(v)
func Compile(v cue.Value) (*metadata.Registry, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	entitiesVal := v.LookupPath(cue.ParsePath("entity"))
	if !entitiesVal.Exists() {
		return nil, &CompileError{
			Field:   "entity",
			Message: "no entities defined",
			Pos:     v.Pos(),
		}
	}

	iter, err := entitiesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var entities []*metadata.Entity
	for iter.Next() {
		e, err := CompileEntity(fieldName(iter), iter.Value())
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	if len(entities) == 0 {
		return nil, &CompileError{
			Field:   "entity",
			Message: "no entities defined",
			Pos:     entitiesVal.Pos(),
		}
	}

	reg, err := metadata.NewRegistry(entities...)
	if err != nil {
		return nil, &CompileError{Field: "relations", Message: err.Error(), Pos: entitiesVal.Pos()}
	}
	return reg, nil
}

// CompileEntity parses one entity definition.
//
//	entity: posts: {
//		table:     "posts"        // optional, defaults to the type
//		route_key: "slug"         // optional, defaults to id
//		attributes: {
//			title:        string
//			views:        int
//			published_at: "datetime"
//		}
//		visible: ["id", "title"]  // optional, defaults to every attribute
//		relations: author: {kind: "belongs_to", type: "users"}
//		scopes: popularity: "posts.views"
//	}
//
// Attribute types are either CUE kinds (string, int, float, number, bool)
// or a type name string ("date", "datetime", "boolean", ...).
func CompileEntity(name string, v cue.Value) (*metadata.Entity, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cfg := metadata.EntityConfig{Type: name}

	var err error
	if cfg.Table, err = optionalString(v, "table"); err != nil {
		return nil, err
	}
	if cfg.RouteKey, err = optionalString(v, "route_key"); err != nil {
		return nil, err
	}

	if cfg.Attributes, err = parseAttributes(v); err != nil {
		return nil, err
	}
	if cfg.Visible, err = parseVisible(v); err != nil {
		return nil, err
	}
	if cfg.Relations, err = parseRelations(v); err != nil {
		return nil, err
	}
	if cfg.Scopes, err = parseScopes(v); err != nil {
		return nil, err
	}

	e, err := metadata.NewEntity(cfg)
	if err != nil {
		return nil, &CompileError{Field: "entity", Message: err.Error(), Pos: v.Pos()}
	}
	return e, nil
}

func parseAttributes(v cue.Value) ([]metadata.Attribute, error) {
	attrsVal := v.LookupPath(cue.ParsePath("attributes"))
	if !attrsVal.Exists() {
		return nil, nil
	}

	iter, err := attrsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var attrs []metadata.Attribute
	for iter.Next() {
		ft, err := extractFieldType(iter.Value())
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, metadata.Attribute{Name: fieldName(iter), Type: ft})
	}
	return attrs, nil
}

// extractFieldType maps a CUE kind or a type name string to a FieldType.
func extractFieldType(v cue.Value) (metadata.FieldType, error) {
	if err := v.Err(); err != nil {
		return metadata.FieldString, formatCUEError(err)
	}
	if v.IsConcrete() && v.Kind() == cue.StringKind {
		name, err := v.String()
		if err != nil {
			return metadata.FieldString, formatCUEError(err)
		}
		ft, err := metadata.ParseFieldType(name)
		if err != nil {
			return metadata.FieldString, &CompileError{Field: "type", Message: err.Error(), Pos: v.Pos()}
		}
		return ft, nil
	}

	switch v.IncompleteKind() {
	case cue.StringKind:
		return metadata.FieldString, nil
	case cue.IntKind:
		return metadata.FieldInteger, nil
	case cue.FloatKind, cue.NumberKind:
		return metadata.FieldFloat, nil
	case cue.BoolKind:
		return metadata.FieldBoolean, nil
	default:
		return metadata.FieldString, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported attribute kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// parseVisible returns the visible keys. An absent or empty list restricts
// nothing.
func parseVisible(v cue.Value) ([]string, error) {
	visVal := v.LookupPath(cue.ParsePath("visible"))
	if !visVal.Exists() {
		return nil, nil
	}

	iter, err := visVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var visible []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		visible = append(visible, s)
	}
	return visible, nil
}

func parseRelations(v cue.Value) ([]metadata.Relation, error) {
	relsVal := v.LookupPath(cue.ParsePath("relations"))
	if !relsVal.Exists() {
		return nil, nil
	}

	iter, err := relsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rels []metadata.Relation
	for iter.Next() {
		name := fieldName(iter)
		relVal := iter.Value()

		kindName, err := requiredString(relVal, "kind", "relations."+name+".kind")
		if err != nil {
			return nil, err
		}
		kind, err := metadata.ParseRelationKind(kindName)
		if err != nil {
			return nil, &CompileError{Field: "relations." + name + ".kind", Message: err.Error(), Pos: relVal.Pos()}
		}

		target, err := requiredString(relVal, "type", "relations."+name+".type")
		if err != nil {
			return nil, err
		}

		fk, err := optionalString(relVal, "foreign_key")
		if err != nil {
			return nil, err
		}
		if kind == metadata.HasMany && fk == "" {
			return nil, &CompileError{
				Field:   "relations." + name + ".foreign_key",
				Message: "has_many relations need a foreign_key",
				Pos:     relVal.Pos(),
			}
		}

		rels = append(rels, metadata.Relation{Name: name, Kind: kind, Target: target, ForeignKey: fk})
	}
	return rels, nil
}

func parseScopes(v cue.Value) (map[string]string, error) {
	scopesVal := v.LookupPath(cue.ParsePath("scopes"))
	if !scopesVal.Exists() {
		return nil, nil
	}

	iter, err := scopesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	scopes := make(map[string]string)
	for iter.Next() {
		expr, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		scopes[fieldName(iter)] = expr
	}
	return scopes, nil
}

func optionalString(v cue.Value, path string) (string, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return "", nil
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func requiredString(v cue.Value, path, field string) (string, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return "", &CompileError{Field: field, Message: path + " is required", Pos: v.Pos()}
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// fieldName returns a field label without CUE quoting ("blog-posts", not
// "\"blog-posts\"").
func fieldName(iter *cue.Iterator) string {
	sel := iter.Selector()
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

// CompileError represents a schema error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
