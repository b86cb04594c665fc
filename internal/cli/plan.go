package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ontomig/internal/harness"
	"github.com/roach88/ontomig/internal/ledger"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Selection

	// Verify replays both scripts on an in-memory store.
	Verify bool
}

// PlanOutput is the result of the plan command.
type PlanOutput struct {
	From     revision `json:"from"`
	To       revision `json:"to"`
	Changes  int      `json:"changes"`
	Up       []string `json:"up"`
	Down     []string `json:"down"`
	Verified bool     `json:"verified,omitempty"`
}

// String renders both scripts, one statement per line.
func (p PlanOutput) String() string {
	var b strings.Builder
	b.WriteString("# up\n")
	for _, s := range p.Up {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	b.WriteString("# down\n")
	for _, s := range p.Down {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	if p.Verified {
		b.WriteString("# verified\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the forward and backward scripts of a migration",
		Long: `Print the SPARQL Update scripts migrating the ontology graph from one
revision to another, without touching the store.

The store is only contacted when no --from-version or --from-file is given,
to look up the version currently applied.

Example:
  ontomig plan --config ontomig.yaml --to-version v2
  ontomig plan --graph http://example.com/onto --migration-graph http://example.com/mg/ \
    --from-file old.ttl --to-file new.ttl --verify`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, cmd)
		},
	}

	opts.Selection.bind(cmd)
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "replay both scripts on an in-memory store")

	return cmd
}

func runPlan(opts *PlanOptions, cmd *cobra.Command) error {
	req := needGraphs
	if opts.needsStore() {
		req = needStore
	}
	s, err := newSession(opts.RootOptions, cmd, req)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var store ledger.Selecter
	if opts.needsStore() {
		store = s.client()
	}
	m, err := s.resolve(ctx, opts.Selection, store)
	if err != nil {
		return err
	}

	out := PlanOutput{
		From:    m.current,
		To:      m.destination,
		Changes: m.plan.Changes(),
		Up:      m.plan.UpStrings(),
		Down:    m.plan.DownStrings(),
	}

	if opts.Verify {
		s.out.VerboseLog("Verifying %d forward and %d backward statements", len(m.plan.Up), len(m.plan.Down))
		if err := harness.Verify(ctx, m.plan, m.current.graph, m.destination.graph, s.cfg.MigrationGraph, s.logger); err != nil {
			return s.out.Fail(ErrCodeVerify, ExitFailure, err.Error(), out)
		}
		out.Verified = true
	}

	return s.out.Success(out)
}
