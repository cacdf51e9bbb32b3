// Package filter compiles the filter query parameter into a predicate tree.
//
// # GRAMMAR
//
//	filter := item ((',' item)* | ('|' item)*)
//	item   := pair | '(' filter ')'
//	pair   := key ':' [operator] literal
//	        | key ':' [operator] '(' literal ('|' literal)* ')'
//
// ',' joins with AND, '|' joins with OR. One level may not use both;
// "a:1,b:2|c:3" is rejected as ambiguous and must be written with a group,
// e.g. "a:1,(b:2|c:3)".
//
// # PHASES
//
// Extract lexes the string and replaces IN-lists, pairs and parenthesised
// groups with placeholder tokens, innermost first. Placeholders are arena
// ids, not text, so no client input can forge one. Build then walks the
// levels recursively and ResolvePair turns each pair into a leaf using the
// entity's metadata.Provider.
//
// # ERRORS
//
// Structural errors (unbalanced parentheses, a pair with no key, mixed
// combinators) are fatal and returned as *Error. Pair-level problems
// (unknown or hidden keys, null with an ordering operator, empty
// literals) drop the pair and are logged at debug level.
package filter
