package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/listq/internal/config"
	"github.com/roach88/listq/internal/harness"
	"github.com/roach88/listq/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	SchemaDir string
	Database  string
}

// SeedCount is the number of records inserted for one type.
type SeedCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// SeedResult holds the outcome of a seed run.
type SeedResult struct {
	Database string      `json:"database"`
	Records  int         `json:"records"`
	Types    []SeedCount `json:"types"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <fixtures.yaml>",
		Short: "Insert fixture records into a database",
		Long: `Insert the records of a fixture file into a SQLite database, creating
the database and its tables from the CUE schema when they do not exist.

Records are inserted in file order, so foreign keys must point at records
listed earlier:

  records:
    - type: users
      values: {id: 1, name: alice}
    - type: posts
      values: {id: 1, slug: hello-world, author_id: 1}

Example:
  listq seed ./fixtures.yaml --schema ./schema --db ./blog.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SchemaDir, "schema", config.DefaultSchemaDir, "CUE schema directory")
	cmd.Flags().StringVar(&opts.Database, "db", config.DefaultDatabase, "path to SQLite database")

	return cmd
}

func runSeed(opts *SeedOptions, fixturesPath string, cmd *cobra.Command) error {
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

	records, err := harness.LoadFixtures(fixturesPath)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBadInput, err.Error())
	}
	formatter.VerboseLog("Read %d record(s) from %s", len(records), fixturesPath)

	st, err := store.Open(opts.Database, loaded.Registry)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error())
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	counts, err := harness.Seed(cmd.Context(), st, records)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error())
	}
	slog.Info("database seeded", "path", opts.Database, "records", len(records))

	result := SeedResult{Database: opts.Database, Records: len(records), Types: []SeedCount{}}
	// Types is sorted, so the report is too.
	for _, typ := range loaded.Registry.Types() {
		if n, ok := counts[typ]; ok {
			result.Types = append(result.Types, SeedCount{Type: typ, Count: n})
		}
	}

	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Seeded %s with %d record(s)\n", result.Database, result.Records)
		for _, c := range result.Types {
			fmt.Fprintf(w, "  %-12s %d\n", c.Type, c.Count)
		}
	})
}
