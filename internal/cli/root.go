package cli

import (
	"dbhelper/config"
	"dbhelper/internal/logging"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DB         string
	Backend    string
	LogLevel   string
	Format     string // "json" | "text"

	cfg config.Config
	log *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the dbhelper CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dbhelper",
		Short: "dbhelper - record store over a local database",
		Long:  "Create, query, update and delete records kept in a local embedded database.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "dbhelper.yaml", "path to the YAML config")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "database file, overrides the config")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "storage backend (memory|ordered|sqlite), overrides the config")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error), overrides the config")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewContactsCommand(opts))

	return cmd
}

func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitUsage, "loading config", err)
	}
	if o.DB != "" {
		cfg.Storage.Path = o.DB
	}
	if o.Backend != "" {
		cfg.Storage.Backend = o.Backend
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitUsage, "invalid flags", err)
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return WrapExitError(ExitUsage, "building logger", err)
	}

	o.cfg = cfg
	o.log = log
	return nil
}
