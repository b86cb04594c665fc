package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ontomig/internal/config"
	"github.com/roach88/ontomig/internal/source"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	ConfigFile string
	Env        string

	// Overrides holds settings given as flags. Non-zero fields win over
	// the config file.
	Overrides config.Config

	// MetricsFile receives apply metrics in the Prometheus text format.
	MetricsFile string

	// Prompter asks for <<ask_me>> passwords. Defaults to the terminal.
	Prompter config.Prompter

	// Now stamps ledger records (for testing). Defaults to time.Now.
	Now func() time.Time

	// HTTPClient overrides the SPARQL transport (for testing).
	HTTPClient *http.Client

	// GitRunner overrides how git is invoked (for testing).
	GitRunner source.Runner
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ontomig CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ontomig",
		Short: "Ontology migrations for SPARQL triple stores",
		Long: `ontomig diffs two revisions of a Turtle ontology and migrates a named graph
of a SPARQL 1.1 store from one to the other.

Every migration is a forward and a backward SPARQL Update script. Both end
with a version record written to a dedicated migration graph, which is how
ontomig knows the version currently applied.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	f := cmd.PersistentFlags()
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	f.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "config file (.yaml, .yml or .cue)")
	f.StringVarP(&opts.Env, "env", "e", config.DefaultEnv, "environment read from the config file")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "write apply metrics to this file")

	o := &opts.Overrides
	f.StringVar(&o.SPARQLURL, "sparql-url", "", "SPARQL store base URL")
	f.StringVar(&o.Host, "host", "", "store host")
	f.IntVar(&o.Port, "port", 0, "store port")
	f.StringVar(&o.Endpoint, "endpoint", "", "endpoint name recorded in the ledger")
	f.StringVarP(&o.User, "user", "u", "", "store user")
	f.StringVar(&o.Password, "password", "", "store password (\"<<ask_me>>\" prompts)")
	f.StringVarP(&o.Graph, "graph", "g", "", "named graph holding the ontology")
	f.StringVar(&o.Ontology, "ontology", "", "ontology file inside the migrations directory")
	f.StringVar(&o.MigrationsDir, "migrations-dir", "", "git working tree holding the ontology")
	f.StringVar(&o.MigrationGraph, "migration-graph", "", "named graph holding the version ledger")
	f.StringVar(&o.AWSRegion, "aws-region", "", "region for Neptune request signing")
	f.StringVar(&o.Journal, "journal", "", "SQLite run journal")

	// Add subcommands
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewCurrentCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds the output formatter of cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// logger writes structured logs to the command's stderr.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	logLevel := slog.LevelInfo
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
}
