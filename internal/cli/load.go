package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/ontomig/internal/ledger"
	"github.com/roach88/ontomig/internal/migrate"
	"github.com/roach88/ontomig/internal/source"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions

	// Version labels the ledger record. Defaults to the current version.
	Version string

	// RecordOnly writes the ledger record for a file loaded by other means.
	RecordOnly bool
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <file.ttl>",
		Short: "Insert a Turtle data file into the ontology graph",
		Long: `Insert the triples of a Turtle data file into the ontology graph and record
the insert in the version ledger under the current version.

With --record-only nothing but the ledger record is written, for files
bulk loaded into the store by other means.

Example:
  ontomig load --config ontomig.yaml data/instances.ttl
  ontomig load --config ontomig.yaml --record-only --version v3 dump.ttl`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Version, "version", "", "version recorded with the insert (default: current version)")
	cmd.Flags().BoolVar(&opts.RecordOnly, "record-only", false, "only record the insert in the ledger")

	return cmd
}

func runLoad(opts *LoadOptions, path string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd, needStore)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client := s.client()

	version, origin := opts.Version, ledger.OriginFile
	if version == "" {
		v, ok, err := ledger.CurrentVersion(ctx, client, s.cfg.MigrationGraph, s.cfg.Graph)
		if err != nil {
			return s.out.Fail(ErrCodeStore, ExitFailure, err.Error(), nil)
		}
		if ok {
			version, origin = v.Label, v.Origin
		}
	}

	planner := s.planner()
	var plan *migrate.Plan
	if opts.RecordOnly {
		plan = planner.Insert(migrate.InsertRequest{
			File:           filepath.Base(path),
			CurrentVersion: version,
			Origin:         origin,
		})
	} else {
		text, err := source.File{}.Ontology(ctx, path)
		if err != nil {
			return s.out.FailErr(err, nil)
		}
		plan, err = planner.Load(ctx, migrate.LoadRequest{
			File:           filepath.Base(path),
			Text:           text,
			CurrentVersion: version,
			Origin:         origin,
		})
		if err != nil {
			return s.out.FailErr(err, map[string]string{"file": path})
		}
	}

	s.out.VerboseLog("Loading %s into %s: %d statements", path, s.cfg.Graph, len(plan.Up))
	out, err := s.apply(ctx, client, plan)
	if err != nil {
		return err
	}
	return s.out.Success(out)
}
