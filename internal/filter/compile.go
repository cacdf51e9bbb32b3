package filter

import (
	"strings"

	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
)

// Compile parses a raw filter string against one entity's metadata.
//
// An empty or blank filter compiles to a nil predicate (no condition).
// Structural problems return a *Error and no predicate; problems confined
// to a single pair drop that pair and compilation continues.
func Compile(raw string, provider metadata.Provider) (queryir.Predicate, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	expr, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	return Build(expr, provider)
}
