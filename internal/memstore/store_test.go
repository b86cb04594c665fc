package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ontomig/internal/ledger"
	"github.com/roach88/ontomig/internal/migrate"
	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/shape"
	"github.com/roach88/ontomig/internal/testutil"
	"github.com/roach88/ontomig/internal/update"
)

const mg = "http://example.com/migrations/"

func parse(t *testing.T, text, scope string) *rdf.Graph {
	t.Helper()
	g, err := rdf.ParseTurtle(text, rdf.ParseOptions{Graph: "test", Scope: scope})
	require.NoError(t, err)
	return g
}

func planner() *migrate.Planner {
	return &migrate.Planner{
		Graph:          "test",
		MigrationGraph: mg,
		Endpoint:       "memory",
		User:           "tester",
		Host:           "localhost",
		Now:            testutil.NewFixedClock(time.Time{}).Now,
	}
}

func applyAll(t *testing.T, s *Store, stmts []update.Statement) {
	t.Helper()
	for _, st := range stmts {
		_, err := s.Apply(context.Background(), st)
		require.NoError(t, err, st.String())
	}
}

func TestStore_RoundTrip(t *testing.T) {
	cases := []struct {
		name        string
		current     string
		destination string
	}{
		{"add restriction", testutil.Structure01, testutil.Structure02},
		{"remove restriction", testutil.Structure02, testutil.Structure01},
		{"split restriction", testutil.Structure02, testutil.Structure03},
		{"merge restrictions", testutil.Structure03, testutil.Structure02},
		{"drop one assertion", testutil.Structure02, testutil.Structure04},
		{"from nothing", "", testutil.Structure03},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			current := parse(t, tc.current, "cur")
			destination := parse(t, tc.destination, "dst")

			s := New()
			s.Load(current)

			plan, err := planner().DiffGraphs(context.Background(), current, destination, "next", "file")
			require.NoError(t, err)

			applyAll(t, s, plan.Up)
			assert.True(t, rdf.Isomorphic(destination.Map(rdf.Normalize), s.Graph("test")),
				"after up:\n%s", rdf.Canonical(s.Graph("test")))

			v, ok := ledger.LatestInGraph(s.Graph(mg), mg, "test")
			require.True(t, ok)
			assert.Equal(t, "next", v.Label)
			assert.Equal(t, "file", v.Origin)

			applyAll(t, s, plan.Down)
			assert.True(t, rdf.Isomorphic(current.Map(rdf.Normalize), s.Graph("test")),
				"after down:\n%s", rdf.Canonical(s.Graph("test")))
			assert.Equal(t, 0, s.Graph(mg).Len())
		})
	}
}

func TestStore_WithoutCoercionLeavesTypedLiteral(t *testing.T) {
	s := New(WithoutCoercion())
	s.Load(parse(t, testutil.Structure02, "cur"))

	plan, err := planner().Diff(context.Background(), migrate.DiffRequest{
		Current:     testutil.Structure02,
		Destination: testutil.Structure01,
	})
	require.NoError(t, err)
	applyAll(t, s, plan.Up)

	// DeleteShape matches the integer form, which a non-coercing store
	// never holds.
	assert.Len(t, s.Graph("test").Blanks(), 1)
}

func TestStore_InsertShapeMintsFreshNodes(t *testing.T) {
	g := parse(t, testutil.Structure02, "a")
	sh := shape.Of(g, g.Blanks()[0])
	st := update.InsertShape{Graph: "test", Shape: sh}

	s := New()
	applyAll(t, s, []update.Statement{st, st})

	stored := s.Graph("test")
	assert.Len(t, stored.Blanks(), 2)
	assert.Equal(t, 2*len(sh.Triples()), stored.Len())
}

func TestStore_CountShapeOverAllGraphs(t *testing.T) {
	see := rdf.IRI(testutil.NS + "seeAlso")
	s := New()
	s.Load(rdf.NewGraph("a",
		rdf.T(rdf.IRI(testutil.Role), see, rdf.Blank("x")),
		rdf.T(rdf.Blank("x"), rdf.RDFType, rdf.OWLRestriction),
	))
	s.Load(rdf.NewGraph("b",
		rdf.T(rdf.IRI(testutil.Role), see, rdf.Blank("y")),
		rdf.T(rdf.Blank("y"), rdf.RDFType, rdf.OWLRestriction),
		rdf.T(rdf.Blank("y"), rdf.RDFSSubClassOf, rdf.IRI(testutil.Actor)),
	))

	sh := shape.Shape{
		Node:       "x",
		Referrers:  []shape.Referrer{{Subject: rdf.IRI(testutil.Role), Predicate: see}},
		Assertions: []shape.Assertion{{Predicate: rdf.RDFType, Object: rdf.OWLRestriction}},
	}
	n, err := s.CountShape(context.Background(), sh)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_DeleteShapeWithoutAssertionsSkipsIRIs(t *testing.T) {
	see := rdf.IRI(testutil.NS + "seeAlso")
	s := New()
	s.Load(rdf.NewGraph("test",
		rdf.T(rdf.IRI(testutil.Role), see, rdf.Blank("x")),
		rdf.T(rdf.IRI(testutil.Role), see, rdf.IRI(testutil.Actor)),
	))

	sh := shape.Shape{Node: "x", Referrers: []shape.Referrer{{Subject: rdf.IRI(testutil.Role), Predicate: see}}}
	body, err := s.Apply(context.Background(), update.DeleteShape{Graph: "test", Shape: sh})
	require.NoError(t, err)

	assert.JSONEq(t, `{"kind":"delete_shape","added":0,"removed":1}`, string(body))
	assert.Equal(t, []rdf.Triple{rdf.T(rdf.IRI(testutil.Role), see, rdf.IRI(testutil.Actor))}, s.Graph("test").Triples())
}

func TestStore_DeleteTripleUsesNormalizedTarget(t *testing.T) {
	tr := rdf.T(rdf.IRI(testutil.Role), rdf.IRI(testutil.NS+"flag"), rdf.NewLiteral("true", rdf.XSDBoolean))
	s := New()
	s.Load(rdf.NewGraph("test", tr))

	body, err := s.Apply(context.Background(), update.DeleteTriple{Graph: "test", Triple: tr})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"delete_triple","added":0,"removed":1}`, string(body))
	assert.Equal(t, 0, s.Graph("test").Len())
}

func TestStore_GraphIsACopy(t *testing.T) {
	s := New()
	s.Load(parse(t, testutil.Structure01, "a"))

	g := s.Graph("test")
	g.Add(rdf.T(rdf.IRI(testutil.Role), rdf.RDFType, rdf.OWLClass))
	assert.Equal(t, 2, s.Graph("test").Len())
	assert.Equal(t, 0, s.Graph("missing").Len())
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New()
	_, err := s.Apply(ctx, update.InsertData{Graph: "test"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.CountShape(ctx, shape.Shape{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_SatisfiesApplier(t *testing.T) {
	var _ migrate.Applier = New()
	var _ shape.Counter = New()
}
