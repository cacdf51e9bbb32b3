package metadata

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// identPattern restricts schema identifiers (tables, columns) to names that
// are safe to place in SQL text without quoting.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// typePattern restricts resource type names, which double as URL segments.
var typePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// IsIdentifier reports whether s may be used as a table or column name.
func IsIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

// CanonicalKey converts a client-supplied key to snake_case.
//
//	createdAt  -> created_at
//	created-at -> created_at
//	Title      -> title
//
// Every upper-case letter that does not start the key or follow a separator
// gets an underscore in front of it, so "userID" becomes "user_i_d".
func CanonicalKey(key string) string {
	key = norm.NFC.String(strings.TrimSpace(key))

	var b strings.Builder
	b.Grow(len(key) + 4)

	prevSep := true
	for _, r := range key {
		switch {
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if !prevSep {
				b.WriteByte('_')
			}
			prevSep = true
		case unicode.IsUpper(r):
			if !prevSep {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevSep = false
		default:
			b.WriteRune(r)
			prevSep = false
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}
