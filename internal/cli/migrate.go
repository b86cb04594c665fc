package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ontomig/internal/migrate"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	*RootOptions
	Selection

	// Force applies the ledger record even when the store is up to date.
	Force bool

	// Check queries the store for every blank node shape of the
	// destination once the forward script is applied.
	Check bool
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the ontology graph to another revision",
		Long: `Plan the migration between two ontology revisions and apply its forward
script to the store, one statement at a time.

With --check, every blank node shape of the destination is then counted
in the store, and the command fails if any is missing.

The first statement the store rejects stops the run. Statements applied
before it are not rolled back; the run journal (--journal) keeps each of
them together with the backward statement undoing it.

Example:
  ontomig migrate --config ontomig.yaml --env production --to-version v3
  ontomig migrate --sparql-url http://localhost:8890 --graph http://example.com/onto \
    --migration-graph http://example.com/mg/ --to-file ontology.ttl --journal runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(opts, cmd)
		},
	}

	opts.Selection.bind(cmd)
	cmd.Flags().BoolVar(&opts.Force, "force", false, "record the version even when nothing changed")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "count every destination shape in the store after migrating")

	return cmd
}

func runMigrate(opts *MigrateOptions, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd, needStore)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client := s.client()
	m, err := s.resolve(ctx, opts.Selection, client)
	if err != nil {
		return err
	}

	if m.upToDate() && !opts.Force {
		s.logger.Info("nothing to migrate", "version", m.destination.Version)
		return s.out.Success(ApplyOutput{Version: m.destination.Version, Origin: m.destination.Origin})
	}

	s.out.VerboseLog("Migrating %s from %s to %s: %d changes",
		s.cfg.Graph, describe(m.current), describe(m.destination), m.plan.Changes())
	out, err := s.apply(ctx, client, m.plan)
	if err != nil {
		return err
	}
	if opts.Check {
		if err := migrate.CheckShapes(ctx, m.destination.graph, client); err != nil {
			if migrate.IsStoreCallFailure(err) {
				return s.out.FailErr(err, out)
			}
			return s.out.Fail(ErrCodeVerify, ExitFailure, err.Error(), out)
		}
		out.Checked = true
	}
	return s.out.Success(out)
}

// describe names a revision for messages.
func describe(r revision) string {
	if r.Version == "" {
		return "empty ontology"
	}
	return fmt.Sprintf("%s (%s)", r.Version, r.Origin)
}
