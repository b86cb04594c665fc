package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixtures "github.com/roach88/ontomig/internal/testutil"
	"github.com/roach88/ontomig/internal/update"
)

type scriptedApplier struct {
	failAt  int
	err     error
	applied []string
}

func (s *scriptedApplier) Apply(_ context.Context, st update.Statement) ([]byte, error) {
	if len(s.applied) == s.failAt {
		return nil, s.err
	}
	s.applied = append(s.applied, st.String())
	return []byte(`{"ok":true}`), nil
}

func forwardPlan(t *testing.T) *Plan {
	t.Helper()
	plan, err := newPlanner().Diff(context.Background(), DiffRequest{
		Current:            fixtures.Structure01,
		Destination:        fixtures.Structure02,
		DestinationVersion: "02",
		Origin:             "file",
	})
	require.NoError(t, err)
	return plan
}

func TestApply_AllStatements(t *testing.T) {
	plan := forwardPlan(t)
	a := &scriptedApplier{failAt: -1}

	var steps []Step
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	n, err := Apply(context.Background(), a, plan, ApplyOptions{
		Sink:    SinkFunc(func(_ context.Context, s Step) { steps = append(steps, s) }),
		Metrics: m,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	assert.Equal(t, plan.UpStrings(), a.applied)
	require.Len(t, steps, 4)
	for i, s := range steps {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, 4, s.Total)
		want, _ := plan.Rollback(i)
		assert.Equal(t, want, s.Down)
		assert.Equal(t, `{"ok":true}`, string(s.Response))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.applied.WithLabelValues(string(update.KindInsertData))))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.applied.WithLabelValues(string(update.KindInsertShape))))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.failed.WithLabelValues(string(update.KindInsertData))))
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	plan := forwardPlan(t)
	boom := errors.New("HTTP 500: boom")
	a := &scriptedApplier{failAt: 1, err: boom}

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	var steps int
	n, err := Apply(context.Background(), a, plan, ApplyOptions{
		Sink:    SinkFunc(func(context.Context, Step) { steps++ }),
		Metrics: m,
	})

	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, steps)
	assert.Len(t, a.applied, 1, "no statement after the failure may run")
	assert.True(t, IsStoreCallFailure(err))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "apply statement 2 of 4")

	var me *Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, plan.Up[1].String(), me.Statement)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.failed.WithLabelValues(string(plan.Up[1].Kind()))))
}

func TestApply_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &scriptedApplier{failAt: -1}
	n, err := Apply(ctx, a, forwardPlan(t), ApplyOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
	assert.Empty(t, a.applied)
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestSinks_FanOut(t *testing.T) {
	var a, b int
	s := Sinks{
		SinkFunc(func(context.Context, Step) { a++ }),
		nil,
		SinkFunc(func(context.Context, Step) { b++ }),
	}
	s.Applied(context.Background(), Step{Up: update.InsertData{Graph: "g"}})
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
