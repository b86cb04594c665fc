package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ontomig/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions

	// Run shows the statements of a single run.
	Run string

	// All lists the runs of every graph, not only the configured one.
	All bool
}

// HistoryOutput lists journaled runs.
type HistoryOutput struct {
	Runs []journal.Run `json:"runs"`
}

func (h HistoryOutput) String() string {
	if len(h.Runs) == 0 {
		return "no runs journaled"
	}
	var b strings.Builder
	for i, r := range h.Runs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %s  %-9s %s (%s)  %d/%d",
			r.StartedAt.Format(time.RFC3339), r.ID, r.Status, r.Version, r.Origin, r.Applied, r.Total)
		if r.Error != "" {
			fmt.Fprintf(&b, "  %s", r.Error)
		}
	}
	return b.String()
}

// RunOutput is one journaled run with its statements.
type RunOutput struct {
	Run        journal.Run         `json:"run"`
	Statements []journal.Statement `json:"statements"`
}

func (r RunOutput) String() string {
	var b strings.Builder
	b.WriteString(HistoryOutput{Runs: []journal.Run{r.Run}}.String())
	for _, st := range r.Statements {
		fmt.Fprintf(&b, "\n%d. %s\n   up:   %s\n   down: %s", st.Seq+1, st.Kind, st.Up, st.Down)
	}
	return b.String()
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List migration runs recorded in the journal",
		Long: `List the migration runs recorded in the run journal, newest first.

With --run, print every statement the run applied together with the
backward statement undoing it.

Example:
  ontomig history --journal runs.db --graph http://example.com/onto
  ontomig history --journal runs.db --run 01932c4e-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Run, "run", "", "show the statements of this run")
	cmd.Flags().BoolVar(&opts.All, "all", false, "list runs of every graph")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd, needJournal)
	if err != nil {
		return err
	}
	j, err := s.journal()
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := cmd.Context()
	if opts.Run != "" {
		run, err := j.ReadRun(ctx, opts.Run)
		if errors.Is(err, journal.ErrRunNotFound) {
			return s.out.Fail(ErrCodeJournal, ExitCommandError, fmt.Sprintf("run %s not found", opts.Run), nil)
		}
		if err != nil {
			return s.out.Fail(ErrCodeJournal, ExitFailure, err.Error(), nil)
		}
		steps, err := j.ReadSteps(ctx, opts.Run)
		if err != nil {
			return s.out.Fail(ErrCodeJournal, ExitFailure, err.Error(), nil)
		}
		return s.out.Success(RunOutput{Run: run, Statements: steps})
	}

	product := s.cfg.Graph
	if opts.All {
		product = ""
	}
	runs, err := j.ListRuns(ctx, product)
	if err != nil {
		return s.out.Fail(ErrCodeJournal, ExitFailure, err.Error(), nil)
	}
	return s.out.Success(HistoryOutput{Runs: runs})
}
