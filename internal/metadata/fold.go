package metadata

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// FoldCase lowercases text attribute values for case-insensitive
// comparison. Filter literals and stored column values both go through
// it, so the two sides always agree, including outside ASCII.
//
// A Caser is stateful, hence one per call.
func FoldCase(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}
