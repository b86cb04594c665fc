package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/ontomig/internal/update"
)

// Applier executes one update statement against a store.
type Applier interface {
	Apply(ctx context.Context, st update.Statement) ([]byte, error)
}

// Step describes one successfully applied forward statement.
type Step struct {
	// Index is the zero-based position in the forward script.
	Index int

	// Total is the length of the forward script.
	Total int

	Up   update.Statement
	Down update.Statement

	// Response is the raw store response.
	Response []byte

	Duration time.Duration
}

// ApplyOptions configures Apply. The zero value applies silently.
type ApplyOptions struct {
	Sink    Sink
	Metrics *Metrics
}

// Apply runs plan.Up in order and returns how many statements succeeded.
//
// The first failing statement stops the run with a store call failure.
// Already applied statements are not rolled back, and nothing is retried.
// The sink sees each applied statement together with its rollback.
func Apply(ctx context.Context, a Applier, plan *Plan, opts ApplyOptions) (int, error) {
	total := len(plan.Up)
	for i, up := range plan.Up {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		start := time.Now()
		resp, err := a.Apply(ctx, up)
		elapsed := time.Since(start)
		opts.Metrics.observe(up.Kind(), elapsed, err)
		if err != nil {
			return i, NewStoreCallError(fmt.Sprintf("apply statement %d of %d", i+1, total), up.String(), err)
		}

		if opts.Sink != nil {
			down, _ := plan.Rollback(i)
			opts.Sink.Applied(ctx, Step{
				Index:    i,
				Total:    total,
				Up:       up,
				Down:     down,
				Response: resp,
				Duration: elapsed,
			})
		}
	}
	return total, nil
}
