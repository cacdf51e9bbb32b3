// Package schema compiles CUE entity definitions into a metadata.Registry.
//
// A schema is a CUE value with one top-level struct, "entity", keyed by
// resource type. Each entity declares attributes, which of them clients
// may query, its relations and its ordering scopes. Identifiers are
// checked by metadata.NewEntity, so everything that later reaches SQL text
// is a plain snake_case name or a scope expression written by the schema
// author.
package schema
