package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/ontomig/internal/journal"
	"github.com/roach88/ontomig/internal/migrate"
)

// ApplyOutput is the result of applying a plan to the store.
type ApplyOutput struct {
	Run     string `json:"run,omitempty"`
	Version string `json:"version"`
	Origin  string `json:"origin"`
	Applied int    `json:"applied"`
	Total   int    `json:"total"`
	Checked bool   `json:"checked,omitempty"`
}

func (a ApplyOutput) String() string {
	msg := fmt.Sprintf("Applied %d of %d statements, now at %s (%s)", a.Applied, a.Total, a.Version, a.Origin)
	if a.Run != "" {
		msg += "\nRun " + a.Run
	}
	if a.Checked {
		msg += "\nEvery blank node shape found in the store"
	}
	return msg
}

// apply runs plan.Up against the store, journaling the run and writing
// metrics when configured.
func (s *session) apply(ctx context.Context, applier migrate.Applier, plan *migrate.Plan) (ApplyOutput, error) {
	out := ApplyOutput{
		Version: plan.Record.Version,
		Origin:  plan.Record.Origin,
		Total:   len(plan.Up),
	}

	reg := prometheus.NewRegistry()
	metrics, err := migrate.NewMetrics(reg)
	if err != nil {
		return out, s.out.FailErr(err, nil)
	}

	sinks := migrate.Sinks{migrate.LogSink{Logger: s.logger}}

	j, err := s.journal()
	if err != nil {
		return out, err
	}
	var steps *journal.StepSink
	if j != nil {
		defer j.Close()
		out.Run, err = j.BeginRun(ctx, plan)
		if err != nil {
			return out, s.out.Fail(ErrCodeJournal, ExitCommandError, err.Error(), nil)
		}
		steps = j.Sink(out.Run, s.logger)
		sinks = append(sinks, steps)
	}

	s.logger.Info("applying migration",
		"version", plan.Record.Version,
		"origin", plan.Record.Origin,
		"statements", len(plan.Up))
	out.Applied, err = migrate.Apply(ctx, applier, plan, migrate.ApplyOptions{Sink: sinks, Metrics: metrics})

	if j != nil {
		// The run is finished on a fresh context so an interrupt is still recorded.
		if ferr := j.FinishRun(context.WithoutCancel(ctx), out.Run, err); ferr != nil {
			s.logger.Warn("journal write failed", "run", out.Run, "error", ferr)
		}
		if serr := steps.Err(); serr != nil && err == nil {
			s.logger.Warn("run applied but not fully journaled", "run", out.Run, "error", serr)
		}
	}

	if merr := s.writeMetrics(reg); merr != nil && err == nil {
		return out, merr
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return out, s.out.Fail(ErrCodeGeneric, ExitFailure, "interrupted", out)
		}
		return out, s.out.FailErr(err, out)
	}
	s.logger.Info("migration applied", "version", out.Version, "applied", out.Applied)
	return out, nil
}

func (s *session) writeMetrics(g prometheus.Gatherer) error {
	if s.opts.MetricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(s.opts.MetricsFile, g); err != nil {
		return s.out.Fail(ErrCodeWriteFailed, ExitCommandError, err.Error(), nil)
	}
	return nil
}
