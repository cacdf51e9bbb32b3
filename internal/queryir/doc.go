// Package queryir provides the intermediate representation produced by the
// filter, sort, and include compilers and consumed by query backends.
//
// ARCHITECTURE:
//
// The IR sits between the client-facing mini-languages and the store:
//
//	[filter string] -> internal/filter  -> Predicate  -\
//	[sort string]   -> internal/sorting -> []SortSpec --> Queryable (SQL backend)
//
// Backends never see the raw strings. They implement Queryable and are
// driven by Apply and ApplySort, so a new backend only needs the handful of
// Where*/OrderBy methods, not a parser.
//
// PREDICATE TREE:
//
//   - And, Or: groups; all direct children share the group's combinator
//   - Comparison: attribute <op> value, including null checks (Null value)
//     and set membership (Set value)
//   - RelationIn: "has a related record whose route key is one of ids"
//   - RelationNull: belongs-to foreign key is (not) null
//
// A group never mixes AND and OR. The filter compiler rejects input that
// would need an implicit precedence rule instead of guessing one.
//
// SEALED INTERFACES:
//
// Predicate and Value are sealed with marker methods. Only types in this
// package implement them, which keeps type switches in backends exhaustive:
//
//	switch p := pred.(type) {
//	case And:
//	case Or:
//	case Comparison:
//	case RelationIn:
//	case RelationNull:
//	}
//
// VALUES:
//
// Literal values are typed (String, Int, Float, Bool, Null, Set) after
// coercion against the attribute's declared FieldType. Backends bind them
// as parameters; they are never interpolated into query text.
package queryir
