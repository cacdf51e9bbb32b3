// Package sorting compiles the sort query parameter into ordering terms.
//
//	sort=-created_at,name   ->  created_at DESC, name ASC
//
// Keys are canonicalised like filter keys. A visible attribute or the
// route key orders by its column; a key naming a scope orders through the
// scope. A key that is both yields both terms, column first. Anything else
// is dropped.
package sorting

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
)

var keyPattern = regexp.MustCompile(`^(-)?([A-Za-z0-9_-]+)$`)

// Compile parses a comma-separated sort expression against one entity's
// metadata. It never fails; malformed and unknown keys are dropped.
func Compile(expr string, provider metadata.Provider) []queryir.SortSpec {
	var specs []queryir.SortSpec

	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		m := keyPattern.FindStringSubmatch(part)
		if m == nil {
			slog.Debug("dropping sort key", "key", part, "reason", "invalid syntax")
			continue
		}

		dir := queryir.Asc
		if m[1] == "-" {
			dir = queryir.Desc
		}
		key := metadata.CanonicalKey(m[2])

		matched := false
		if provider.IsVisible(key) || key == provider.RouteKeyName() {
			specs = append(specs, queryir.SortSpec{Field: key, Direction: dir, Kind: queryir.PlainField})
			matched = true
		}
		if provider.HasScope(key) {
			specs = append(specs, queryir.SortSpec{Field: key, Direction: dir, Kind: queryir.ScopeCall})
			matched = true
		}
		if !matched {
			slog.Debug("dropping sort key", "key", part, "reason", "not sortable")
		}
	}

	return specs
}
