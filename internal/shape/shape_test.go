package shape

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/testutil"
)

const (
	owl = rdf.OWLNamespace
	ex  = testutil.NS
)

func parse(t *testing.T, text, scope string) *rdf.Graph {
	t.Helper()
	g, err := rdf.ParseTurtle(text, rdf.ParseOptions{Graph: "test", Scope: scope})
	require.NoError(t, err)
	return g
}

func onlyBlank(t *testing.T, g *rdf.Graph) rdf.Blank {
	t.Helper()
	blanks := g.Blanks()
	require.Len(t, blanks, 1)
	return blanks[0]
}

func TestOf_SortedGroups(t *testing.T) {
	g := parse(t, testutil.Structure04, "after")
	b := onlyBlank(t, g)

	s := Of(g, b)

	assert.Equal(t, b, s.Node)
	assert.Equal(t, []Referrer{{Subject: rdf.IRI(testutil.Role), Predicate: rdf.RDFSSubClassOf}}, s.Referrers)
	assert.Equal(t, []Assertion{
		{Predicate: rdf.RDFType, Object: rdf.OWLRestriction},
		{Predicate: owl + "minQualifiedCardinality", Object: rdf.NewLiteral("1", rdf.XSDNonNegativeInteger)},
		{Predicate: owl + "onClass", Object: rdf.IRI(testutil.RoleOnSoapOpera)},
		{Predicate: owl + "onProperty", Object: rdf.IRI(testutil.PlayARole)},
	}, s.Assertions)
	assert.Len(t, s.Triples(), 5)
	assert.Empty(t, s.Blanks())
	assert.False(t, s.SelfReferencing())
}

func TestQuery(t *testing.T) {
	g := parse(t, testutil.Structure04, "after")
	s := Of(g, onlyBlank(t, g))

	want := `SELECT DISTINCT ?s ?p ?o WHERE { ` +
		`<http://example.com/role> <http://www.w3.org/2000/01/rdf-schema#subClassOf> ?s . ` +
		`?s <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Restriction> . ` +
		`?s <http://www.w3.org/2002/07/owl#minQualifiedCardinality> "1"^^<http://www.w3.org/2001/XMLSchema#nonNegativeInteger> . ` +
		`?s <http://www.w3.org/2002/07/owl#onClass> <http://example.com/RoleOnSoapOpera> . ` +
		`?s <http://www.w3.org/2002/07/owl#onProperty> <http://example.com/play_a_role> . ` +
		`?s ?p ?o . }`
	assert.Equal(t, want, s.Query())
}

func TestQuery_NoAssertions(t *testing.T) {
	s := Shape{
		Node:      "n",
		Referrers: []Referrer{{Subject: rdf.IRI(ex + "a"), Predicate: rdf.IRI(ex + "p")}},
	}
	assert.Equal(t, `SELECT DISTINCT ?s WHERE { <http://example.com/a> <http://example.com/p> ?s . }`, s.Query())
}

func TestQuery_NestedBlankIsVariable(t *testing.T) {
	s := Shape{
		Node:       "n",
		Referrers:  []Referrer{{Subject: rdf.Blank("outer"), Predicate: rdf.IRI(ex + "p")}},
		Assertions: []Assertion{{Predicate: rdf.IRI(ex + "q"), Object: rdf.Blank("inner")}},
	}
	assert.Equal(t,
		`SELECT DISTINCT ?s ?p ?o WHERE { ?b_outer <http://example.com/p> ?s . ?s <http://example.com/q> ?b_inner . ?s ?p ?o . }`,
		s.Query())
	assert.Equal(t, []rdf.Blank{"outer", "inner"}, s.Blanks())
}

func TestCount(t *testing.T) {
	before := parse(t, testutil.Structure02, "before")
	after := parse(t, testutil.Structure04, "after")
	split := parse(t, testutil.Structure03, "split")

	afterShape := Of(rdf.Diff(after, before), onlyBlank(t, after))
	beforeShape := Of(rdf.Diff(before, after), onlyBlank(t, before))

	tests := []struct {
		name  string
		graph *rdf.Graph
		shape Shape
		want  int
	}{
		{"shape in own graph", after, afterShape, 4},
		{"subset shape matches superset node", before, afterShape, 5},
		{"superset shape misses subset node", after, beforeShape, 0},
		{"different literal misses", split, afterShape, 0},
		{"own graph before", before, beforeShape, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := InGraph(tt.graph).CountShape(context.Background(), tt.shape)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestCount_NoAssertionsCountsNodes(t *testing.T) {
	p := rdf.IRI(ex + "p")
	g := rdf.NewGraph("test",
		rdf.T(rdf.IRI(ex+"a"), p, rdf.Blank("x")),
		rdf.T(rdf.IRI(ex+"a"), p, rdf.Blank("y")),
		rdf.T(rdf.Blank("y"), p, rdf.IRI(ex+"z")),
	)
	s := Shape{Node: "q", Referrers: []Referrer{{Subject: rdf.IRI(ex + "a"), Predicate: p}}}
	assert.Equal(t, 2, Count(g, s))
}

func TestCount_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := InGraph(rdf.NewGraph("test")).CountShape(ctx, Shape{Node: "n"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolve_JoinsSharedVariables(t *testing.T) {
	p, q := rdf.IRI(ex+"p"), rdf.IRI(ex+"q")
	g := rdf.NewGraph("test",
		rdf.T(rdf.IRI(ex+"a"), p, rdf.Blank("x")),
		rdf.T(rdf.Blank("x"), q, rdf.Blank("y")),
		rdf.T(rdf.IRI(ex+"a"), p, rdf.Blank("z")),
	)
	got := Solve(g, []Pattern{
		{Subject: Bound(rdf.IRI(ex + "a")), Predicate: p, Object: V("s")},
		{Subject: V("s"), Predicate: q, Object: V("o")},
	})
	require.Len(t, got, 1)
	assert.Equal(t, Binding{"s": rdf.Blank("x"), "o": rdf.Blank("y")}, got[0])

	tr, ok := Pattern{Subject: V("s"), Predicate: q, Object: V("o")}.Instantiate(got[0])
	require.True(t, ok)
	assert.Equal(t, rdf.T(rdf.Blank("x"), q, rdf.Blank("y")), tr)

	_, ok = Pattern{Subject: V("missing"), Predicate: q, Object: V("o")}.Instantiate(got[0])
	assert.False(t, ok)
}

func TestPatterns_Normalize(t *testing.T) {
	s := Shape{
		Node: "n",
		Assertions: []Assertion{
			{Predicate: rdf.IRI(ex + "c"), Object: rdf.NewLiteral("01", rdf.XSDNonNegativeInteger)},
		},
	}
	assert.Equal(t, Bound(rdf.NewLiteral("01", rdf.XSDNonNegativeInteger)), s.Patterns(false)[0].Object)
	assert.Equal(t, Bound(rdf.Literal{Lexical: "1", Datatype: rdf.XSDInteger}), s.Patterns(true)[0].Object)
}
