// Package metadata describes the queryable shape of each resource type.
//
// A Provider answers the questions the filter, sort, and include compilers
// ask about a key: is it a relation, what type does the attribute hold, may
// clients query it at all. Entity is the concrete Provider: an immutable
// snapshot built once (usually from the CUE schema, see internal/schema) and
// shared read-only by every request.
//
// Registry groups the entities of one API so relation targets can be
// resolved by type name.
//
// Keys coming from clients pass through CanonicalKey before any lookup, so
// "createdAt", "created-at" and "created_at" all address the same column.
package metadata
