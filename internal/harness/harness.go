package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/ontomig/internal/ledger"
	"github.com/roach88/ontomig/internal/memstore"
	"github.com/roach88/ontomig/internal/migrate"
	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/testutil"
	"github.com/roach88/ontomig/internal/update"
)

// Identity recorded in every ledger record a scenario plans.
const (
	Endpoint = "endpoint"
	User     = "user"
	Host     = "localhost"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	Up     []string `json:"up"`
	Down   []string `json:"down"`
	Errors []string `json:"errors,omitempty"`

	Plan *migrate.Plan `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Script renders both scripts the way golden files store them.
func (r *Result) Script() string {
	var b strings.Builder
	b.WriteString("# up\n")
	for _, s := range r.Up {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	b.WriteString("# down\n")
	for _, s := range r.Down {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return b.String()
}

// Harness plans scenarios with a fixed clock.
type Harness struct {
	planner *migrate.Planner
	logger  *slog.Logger
}

type inputs struct {
	current     *rdf.Graph
	destination *rdf.Graph
}

// Run plans a scenario and evaluates its assertions.
//
// An error is returned when the scenario cannot be planned at all, for
// instance because a Turtle file does not parse. Failed assertions are
// reported in the result.
func Run(s *Scenario) (*Result, error) {
	clock := testutil.NewFixedClock(time.Time{})
	h := &Harness{
		planner: &migrate.Planner{
			Graph:          s.Graph,
			MigrationGraph: s.MigrationGraph,
			Endpoint:       Endpoint,
			User:           User,
			Host:           Host,
			Now:            clock.Now,
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
		},
	}
	h.logger = h.planner.Logger

	ctx := context.Background()
	plan, in, err := h.plan(ctx, s)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Plan = plan
	result.Up = plan.UpStrings()
	result.Down = plan.DownStrings()

	for _, a := range s.Assertions {
		if err := h.evaluate(ctx, s, a, plan, in); err != nil {
			result.AddError(err.Error())
		}
	}
	return result, nil
}

func (h *Harness) plan(ctx context.Context, s *Scenario) (*migrate.Plan, inputs, error) {
	if s.Load != "" {
		text, err := os.ReadFile(s.Load)
		if err != nil {
			return nil, inputs{}, fmt.Errorf("read load file: %w", err)
		}
		data, err := h.parse(string(text), "data")
		if err != nil {
			return nil, inputs{}, err
		}
		plan, err := h.planner.Load(ctx, migrate.LoadRequest{
			File:           filepath.Base(s.Load),
			Text:           string(text),
			CurrentVersion: s.Version,
			Origin:         s.Origin,
		})
		if err != nil {
			return nil, inputs{}, err
		}
		return plan, inputs{current: rdf.NewGraph(s.Graph), destination: data}, nil
	}

	var currentText string
	if s.Current != "" {
		b, err := os.ReadFile(s.Current)
		if err != nil {
			return nil, inputs{}, fmt.Errorf("read current: %w", err)
		}
		currentText = string(b)
	}
	b, err := os.ReadFile(s.Destination)
	if err != nil {
		return nil, inputs{}, fmt.Errorf("read destination: %w", err)
	}

	current, err := h.parse(currentText, "current")
	if err != nil {
		return nil, inputs{}, err
	}
	destination, err := h.parse(string(b), "destination")
	if err != nil {
		return nil, inputs{}, err
	}
	plan, err := h.planner.DiffGraphs(ctx, current, destination, s.Version, s.Origin)
	if err != nil {
		return nil, inputs{}, err
	}
	return plan, inputs{current: current, destination: destination}, nil
}

func (h *Harness) parse(text, scope string) (*rdf.Graph, error) {
	g, err := rdf.ParseTurtle(text, rdf.ParseOptions{Graph: h.planner.Graph, Scope: scope})
	if err != nil {
		return nil, migrate.NewParseError(err)
	}
	return g, nil
}

func (h *Harness) evaluate(ctx context.Context, s *Scenario, a Assertion, plan *migrate.Plan, in inputs) error {
	switch a.Type {
	case AssertUpKinds:
		return assertKinds("up", a.Kinds, plan.Up)
	case AssertDownKinds:
		return assertKinds("down", a.Kinds, plan.Down)
	case AssertUpContains:
		return assertContains("up", a.Statement, plan.UpStrings())
	case AssertDownContains:
		return assertContains("down", a.Statement, plan.DownStrings())
	case AssertChanges:
		if got := plan.Changes(); got != a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(a.Count), Actual: fmt.Sprint(got)}
		}
		return nil
	case AssertRoundTrip:
		return h.roundTrip(ctx, s, plan, in)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertKinds(script string, want []string, stmts []update.Statement) error {
	got := make([]string, len(stmts))
	for i, st := range stmts {
		got[i] = string(st.Kind())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		return &AssertionError{
			Type:     script + "_kinds",
			Expected: strings.Join(want, ", "),
			Actual:   strings.Join(got, ", "),
			Diff:     diff,
		}
	}
	return nil
}

func assertContains(script, want string, got []string) error {
	if slices.Contains(got, want) {
		return nil
	}
	return &AssertionError{
		Type:     script + "_contains",
		Expected: want,
		Actual:   "not found in script",
		Script:   got,
	}
}

// roundTrip applies the plan in both directions to a store seeded with the
// current graph.
func (h *Harness) roundTrip(ctx context.Context, s *Scenario, plan *migrate.Plan, in inputs) error {
	if plan.Record.Version != s.Version || plan.Record.Origin != s.Origin {
		return &AssertionError{
			Type:     "round_trip: ledger",
			Expected: fmt.Sprintf("version %q from %q", s.Version, s.Origin),
			Actual:   fmt.Sprintf("version %q from %q", plan.Record.Version, plan.Record.Origin),
		}
	}
	return Verify(ctx, plan, in.current, in.destination, s.MigrationGraph, h.logger)
}

// Verify replays plan on an in-memory store seeded with current. After the
// forward script the target graph must be isomorphic to destination, the
// store must answer every shape query of destination and the ledger must
// report the plan's version. After the backward script the graph
// must be back to current with an empty ledger.
func Verify(ctx context.Context, plan *migrate.Plan, current, destination *rdf.Graph, mg string, logger *slog.Logger) error {
	graph := plan.Record.Product
	store := memstore.New()
	store.Load(current)

	if _, err := migrate.Apply(ctx, store, plan, migrate.ApplyOptions{Sink: migrate.LogSink{Logger: logger}}); err != nil {
		return fmt.Errorf("round_trip: apply up: %w", err)
	}
	if err := sameGraph("round_trip: after up", destination, store.Graph(graph)); err != nil {
		return err
	}
	if err := migrate.CheckShapes(ctx, destination, store); err != nil {
		return &AssertionError{
			Type:     "round_trip: shapes after up",
			Expected: "every blank node shape of the destination",
			Actual:   err.Error(),
		}
	}

	v, ok := ledger.LatestInGraph(store.Graph(mg), mg, graph)
	if !ok || v.Label != plan.Record.Version || v.Origin != plan.Record.Origin {
		return &AssertionError{
			Type:     "round_trip: ledger",
			Expected: fmt.Sprintf("version %q from %q", plan.Record.Version, plan.Record.Origin),
			Actual:   fmt.Sprintf("version %q from %q (found=%v)", v.Label, v.Origin, ok),
		}
	}

	for i, st := range plan.Down {
		if _, err := store.Apply(ctx, st); err != nil {
			return fmt.Errorf("round_trip: apply down statement %d: %w", i+1, err)
		}
	}
	if err := sameGraph("round_trip: after down", current, store.Graph(graph)); err != nil {
		return err
	}
	if n := store.Graph(mg).Len(); n != 0 {
		return &AssertionError{
			Type:     "round_trip: ledger",
			Expected: "no ledger triples after down",
			Actual:   fmt.Sprintf("%d triples", n),
		}
	}
	return nil
}

// sameGraph compares want, in the form a coercing store keeps it, with got.
func sameGraph(label string, want, got *rdf.Graph) error {
	want = want.Map(rdf.Normalize)
	if rdf.Isomorphic(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     label,
		Expected: fmt.Sprintf("graph isomorphic to %d expected triples", want.Len()),
		Actual:   fmt.Sprintf("%d triples", got.Len()),
		Diff:     cmp.Diff(strings.Split(rdf.Canonical(want), "\n"), strings.Split(rdf.Canonical(got), "\n")),
	}
}
