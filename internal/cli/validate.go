package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/listq/internal/metadata"
)

// EntitySummary describes one compiled entity.
type EntitySummary struct {
	Type      string   `json:"type"`
	Table     string   `json:"table"`
	RouteKey  string   `json:"route_key"`
	Columns   []string `json:"columns"`
	Queryable []string `json:"queryable"`
	Relations []string `json:"relations"`
	Scopes    []string `json:"scopes,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool            `json:"valid"`
	Entities []EntitySummary `json:"entities"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Validate a CUE entity schema",
		Long: `Validate a CUE entity schema without touching a database.

Checks CUE syntax, attribute types, relation kinds and targets, foreign
keys, visible keys and identifiers, then lists what each entity exposes
to filter, sort and include parameters.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loaded, err := LoadSchema(schemaDir)
	if err != nil {
		_ = outputLoadError(formatter, err)
		// Schema problems are validation failures (exit code 1)
		return WrapExitError(ExitFailure, "schema invalid", err)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, schemaDir)

	result := ValidationResult{Valid: true}
	for _, e := range loaded.Registry.Entities() {
		formatter.VerboseLog("Validated entity: %s", e.Type())
		result.Entities = append(result.Entities, summarize(e))
	}

	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Schema valid: %d entit%s\n\n", len(result.Entities), plural(len(result.Entities), "y", "ies"))
		for _, s := range result.Entities {
			fmt.Fprintf(w, "  %s (table %s, route key %s)\n", s.Type, s.Table, s.RouteKey)
			fmt.Fprintf(w, "    queryable: %v\n", s.Queryable)
			fmt.Fprintf(w, "    relations: %v\n", s.Relations)
			if len(s.Scopes) > 0 {
				fmt.Fprintf(w, "    scopes:    %v\n", s.Scopes)
			}
		}
	})
}

func summarize(e *metadata.Entity) EntitySummary {
	s := EntitySummary{
		Type:      e.Type(),
		Table:     e.Table(),
		RouteKey:  e.RouteKeyName(),
		Columns:   e.Columns(),
		Queryable: []string{},
		Relations: e.RelationNames(),
	}
	for _, col := range append([]string{metadata.PrimaryKey}, attributeNames(e)...) {
		if e.IsVisible(col) {
			s.Queryable = append(s.Queryable, col)
		}
	}
	s.Scopes = e.ScopeNames()
	return s
}

func attributeNames(e *metadata.Entity) []string {
	attrs := e.Attributes()
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
