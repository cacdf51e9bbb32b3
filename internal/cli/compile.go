package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/listq/internal/config"
	"github.com/roach88/listq/internal/filter"
	"github.com/roach88/listq/internal/include"
	"github.com/roach88/listq/internal/queryir"
	"github.com/roach88/listq/internal/querysql"
	"github.com/roach88/listq/internal/sorting"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	SchemaDir string
	Filter    string
	Sort      string
	Include   string
	Page      int
	PerPage   int
}

// CompilationResult is what a list request compiles to.
type CompilationResult struct {
	Type        string             `json:"type"`
	Filter      queryir.Predicate  `json:"filter"`
	Sort        []queryir.SortSpec `json:"sort"`
	Include     []string           `json:"include"`
	SQL         string             `json:"sql"`
	Params      []any              `json:"params"`
	CountSQL    string             `json:"count_sql"`
	CountParams []any              `json:"count_params"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <type>",
		Short: "Show what list parameters compile to",
		Long: `Compile filter, sort and include parameters for one resource type and
print the predicate tree, the sort keys, the include paths and the SQL a
list request would run.

Structural filter errors (MALFORMED_FILTER, AMBIGUOUS_EXPRESSION) exit
with code 1. Pairs on hidden or unknown keys are dropped silently; run
with --verbose to see them in the log.

Example:
  listq compile users --filter 'status:(active|pending),age:>=18' --sort -created_at
  listq compile posts --schema ./schema --include author,comments.author --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SchemaDir, "schema", config.DefaultSchemaDir, "CUE schema directory")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter expression")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort expression")
	cmd.Flags().StringVar(&opts.Include, "include", "", "include expression")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", 0, "page size (0 means no limit)")

	return cmd
}

func runCompile(opts *CompileOptions, typ string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loaded, err := LoadSchema(opts.SchemaDir)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d CUE file(s) from %s", loaded.FileCount, opts.SchemaDir)

	entity, ok := loaded.Registry.Lookup(typ)
	if !ok {
		return outputCommandError(formatter, ErrCodeNotFound,
			fmt.Sprintf("unknown resource type %q (known: %v)", typ, loaded.Registry.Types()))
	}

	pred, err := filter.Compile(opts.Filter, entity)
	if err != nil {
		var ferr *filter.Error
		if errors.As(err, &ferr) {
			var details any
			if ferr.Token != "" {
				details = ferr.Token
			}
			_ = formatter.Error(string(ferr.Code), ferr.Message, details)
			return WrapExitError(ExitFailure, "filter rejected", err)
		}
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}

	sel := queryir.Select{
		From:   entity.Type(),
		Filter: pred,
		Sort:   sorting.Compile(opts.Sort, entity),
	}
	if opts.PerPage > 0 {
		sel.Limit = opts.PerPage
		sel.Offset = (max(opts.Page, 1) - 1) * opts.PerPage
	}

	compiler := querysql.NewCompiler(loaded.Registry)
	sql, params, err := compiler.Compile(sel)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	countSQL, countParams, err := compiler.CompileCount(sel)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}

	result := CompilationResult{
		Type:        entity.Type(),
		Filter:      pred,
		Sort:        sel.Sort,
		Include:     include.Parse(opts.Include, entity.RelationNames()).Paths(),
		SQL:         sql,
		Params:      params,
		CountSQL:    countSQL,
		CountParams: countParams,
	}
	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "type:     %s\n", result.Type)
		fmt.Fprintf(w, "filter:   %s\n", queryir.Format(result.Filter))
		fmt.Fprintf(w, "sort:     %s\n", queryir.FormatSort(result.Sort))
		fmt.Fprintf(w, "include:  %v\n", result.Include)
		fmt.Fprintf(w, "sql:      %s\n", result.SQL)
		fmt.Fprintf(w, "params:   %v\n", result.Params)
		fmt.Fprintf(w, "count:    %s\n", result.CountSQL)
	})
}

// outputLoadError reports a schema load failure (exit code 2).
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		var details any
		if loadErr.Pos.IsValid() {
			details = fmt.Sprintf("%s:%d:%d", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		_ = formatter.Error(loadErr.Code, loadErr.Message, details)
		return WrapExitError(ExitCommandError, "failed to load schema", err)
	}
	return outputCommandError(formatter, ErrCodeGeneric, err.Error())
}

// outputCommandError reports a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
