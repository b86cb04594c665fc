package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ontomig/internal/ledger"
)

// CurrentOutput is the result of the current command.
type CurrentOutput struct {
	Version string `json:"version"`
	Origin  string `json:"origin"`
	Found   bool   `json:"found"`
}

func (c CurrentOutput) String() string {
	if !c.Found {
		return "no version recorded"
	}
	return c.Version + " (" + c.Origin + ")"
}

// NewCurrentCommand creates the current command.
func NewCurrentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Print the ontology version applied to the store",
		Long: `Print the most recently committed version recorded for the ontology graph
in the migration graph, and where it was migrated from.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCurrent(rootOpts, cmd)
		},
	}

	return cmd
}

func runCurrent(opts *RootOptions, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd, needStore)
	if err != nil {
		return err
	}

	v, ok, err := ledger.CurrentVersion(cmd.Context(), s.client(), s.cfg.MigrationGraph, s.cfg.Graph)
	if err != nil {
		return s.out.Fail(ErrCodeStore, ExitFailure, err.Error(), nil)
	}
	return s.out.Success(CurrentOutput{Version: v.Label, Origin: v.Origin, Found: ok})
}
