package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/listq/internal/api"
	"github.com/roach88/listq/internal/config"
	"github.com/roach88/listq/internal/logging"
	"github.com/roach88/listq/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	ConfigPath string
	Addr       string
	Database   string
	SchemaDir  string

	// IDGenerator overrides the request id generator (for testing).
	// If nil, the server uses UUIDv7 ids.
	IDGenerator api.IDGenerator

	// Ready, when set, receives the bound address once the listener is up.
	Ready func(addr net.Addr)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return newServeCommand(&ServeOptions{RootOptions: rootOpts})
}

func newServeCommand(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve list endpoints over HTTP",
		Long: `Serve the resources of a SQLite database as JSON:API list endpoints.

  GET /{type}?filter=..&sort=..&include=..&page=..&perPage=..
  GET /{type}/{id}?include=..
  GET /{type}/{id}/{relation}

Settings come from the config file when one is given, else defaults;
--addr, --db and --schema override either. The database and its tables
are created when they do not exist. SIGINT or SIGTERM shuts the server
down gracefully.

Example:
  listq serve --schema ./schema --db ./blog.db --addr :8080
  listq serve --config ./listq.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.Addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.Database, "db", config.DefaultDatabase, "path to SQLite database")
	cmd.Flags().StringVar(&opts.SchemaDir, "schema", config.DefaultSchemaDir, "CUE schema directory")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if err := configureLogging(opts.RootOptions, cfg.Log, cmd); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	slog.Info("loading schema", "dir", cfg.SchemaDir)
	loaded, err := LoadSchema(cfg.SchemaDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load schema", err)
	}
	slog.Info("schema loaded", "files", loaded.FileCount, "types", loaded.Registry.Types())

	slog.Info("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database, loaded.Registry)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	serverOpts := []api.Option{
		api.WithPerPage(cfg.PerPage),
		api.WithMaxPerPage(cfg.MaxPerPage),
		api.WithShutdownTimeout(cfg.ShutdownTimeout),
	}
	if opts.IDGenerator != nil {
		serverOpts = append(serverOpts, api.WithIDGenerator(opts.IDGenerator))
	}
	srv := api.NewServer(st, serverOpts...)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("server starting", "addr", ln.Addr().String(), "db", cfg.Database)
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", ln.Addr())
	if opts.Ready != nil {
		opts.Ready(ln.Addr())
	}

	if err := srv.Run(ctx, ln); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "server error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// resolveConfig loads the config file (or defaults) and applies the flags
// the user set explicitly.
func resolveConfig(opts *ServeOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = opts.Addr
	}
	if flags.Changed("db") {
		cfg.Database = opts.Database
	}
	if flags.Changed("schema") {
		cfg.SchemaDir = opts.SchemaDir
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// configureLogging replaces the default logger with one built from the
// config's log section. --verbose still forces DEBUG and --log-format, when
// given, wins over the file.
func configureLogging(opts *RootOptions, logCfg config.Log, cmd *cobra.Command) error {
	level, err := logCfg.SlogLevel()
	if err != nil {
		return err
	}

	formatName := logCfg.Format
	if f := cmd.Flags().Lookup("log-format"); f != nil && f.Changed {
		formatName = opts.LogFormat
	}
	format, err := logging.ParseFormat(formatName)
	if err != nil {
		return err
	}

	slog.SetDefault(logging.New(
		logging.WithFormat(format),
		logging.WithLevel(opts.logLevel(level)),
		logging.WithOutput(cmd.ErrOrStderr()),
	))
	return nil
}
