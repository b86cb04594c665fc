package rdf

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ontomig/internal/testutil"
)

func TestParseTurtle_Restriction(t *testing.T) {
	g, err := ParseTurtle(testutil.Structure02, ParseOptions{Graph: "test", Scope: "cur"})
	require.NoError(t, err)

	assert.Equal(t, "test", g.Name())
	assert.Equal(t, 10, g.Len())

	blanks := g.Blanks()
	require.Len(t, blanks, 1)
	assert.True(t, strings.HasPrefix(string(blanks[0]), "cur_"), "blank %q is not scoped", blanks[0])

	b := blanks[0]
	assert.True(t, g.Has(T(IRI(testutil.Role), RDFSSubClassOf, b)))
	assert.True(t, g.Has(T(b, RDFType, OWLRestriction)))
	assert.True(t, g.Has(T(b, OWLNamespace+"minQualifiedCardinality", NewLiteral("1", XSDNonNegativeInteger))))
}

func TestParseTurtle_Empty(t *testing.T) {
	for _, text := range []string{"", "  \n\t"} {
		g, err := ParseTurtle(text, ParseOptions{Graph: "test"})
		require.NoError(t, err)
		assert.Equal(t, 0, g.Len())
	}
}

func TestParseTurtle_Literals(t *testing.T) {
	text := `@prefix : <http://example.com/> .
:a :label "plain" .
:a :label "rótulo"@pt .
:a :count "3"^^<http://www.w3.org/2001/XMLSchema#integer> .
`
	g, err := ParseTurtle(text, ParseOptions{Graph: "test"})
	require.NoError(t, err)

	a := IRI("http://example.com/a")
	assert.True(t, g.Has(T(a, "http://example.com/label", String("plain"))))
	assert.True(t, g.Has(T(a, "http://example.com/label", NewLangLiteral("rótulo", "pt"))))
	assert.True(t, g.Has(T(a, "http://example.com/count", NewLiteral("3", XSDInteger))))
}

func TestParseTurtle_ScopesSeparateDocuments(t *testing.T) {
	a, err := ParseTurtle(testutil.Structure02, ParseOptions{Graph: "test"})
	require.NoError(t, err)
	b, err := ParseTurtle(testutil.Structure04, ParseOptions{Graph: "test"})
	require.NoError(t, err)

	for _, bl := range a.Blanks() {
		assert.NotContains(t, b.Blanks(), bl)
	}
}

func TestParseTurtle_Error(t *testing.T) {
	_, err := ParseTurtle("@prefix : <http://example.com/> .\n:a :b", ParseOptions{Graph: "test"})
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "test", perr.Graph)
	assert.Empty(t, perr.Scope)
	assert.NotEmpty(t, perr.Diagnostic)
	assert.Equal(t, perr.Diagnostic, err.Error(), "diagnostic must be verbatim")
	assert.NotNil(t, errors.Unwrap(err))
}

func TestParseTurtle_LabelsNeverMeetAnonymousNodes(t *testing.T) {
	text := `@prefix : <http://example.com/> .
_:b1 :p :x .
:y :q [ :r :z ] .
`
	g, err := ParseTurtle(text, ParseOptions{Graph: "test", Scope: "cur"})
	require.NoError(t, err)

	require.Len(t, g.Blanks(), 2)
	labeled := g.Match(nil, "http://example.com/p", IRI("http://example.com/x"))
	anonymous := g.Match(IRI("http://example.com/y"), "http://example.com/q", nil)
	require.Len(t, labeled, 1)
	require.Len(t, anonymous, 1)
	assert.NotEqual(t, labeled[0].Subject, anonymous[0].Object)
	assert.Empty(t, g.Match(labeled[0].Subject, "http://example.com/r", nil))
}

func TestParseTurtle_DistinctLabelsStayDistinct(t *testing.T) {
	text := `@prefix : <http://example.com/> .
_:a-b :p :x .
_:a.b :p :y .
_:a_b :p :z .
_:a_b :q _:a-b .
`
	g, err := ParseTurtle(text, ParseOptions{Graph: "test", Scope: "cur"})
	require.NoError(t, err)
	assert.Len(t, g.Blanks(), 3)
	assert.Equal(t, 4, g.Len())
}

func TestParseTurtle_LabelTextInLiteralsAndIRIs(t *testing.T) {
	text := `@prefix : <http://example.com/> .
# a comment naming _:c
:a :label "_:b1 in a string" ;
   :note """long _:b2 "quoted" text""" ;
   :see <http://example.com/_:b3> .
`
	g, err := ParseTurtle(text, ParseOptions{Graph: "test"})
	require.NoError(t, err)

	a := IRI("http://example.com/a")
	assert.Empty(t, g.Blanks())
	assert.True(t, g.Has(T(a, "http://example.com/label", String("_:b1 in a string"))))
	assert.True(t, g.Has(T(a, "http://example.com/note", String(`long _:b2 "quoted" text`))))
	assert.True(t, g.Has(T(a, "http://example.com/see", IRI("http://example.com/_:b3"))))
}

func TestRelabel(t *testing.T) {
	assert.Equal(t, "_:dx :p ( _:dy ) .", relabel("_:x :p ( _:y ) ."))
	assert.Equal(t, ":a_:b :p _:dc .", relabel(":a_:b :p _:c ."))
	assert.Equal(t, "no labels here", relabel("no labels here"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "b12", Label("b12"))
	assert.Equal(t, "cur_b1", Label("cur_b1"))
	assert.Equal(t, "__a_2d_b", Label("a-b"))
	assert.Equal(t, "__a_2e_b", Label("a.b"))
	assert.Equal(t, "__", Label(""))

	seen := map[string]string{}
	for _, s := range []string{"a-b", "a.b", "a_b", "a__b", "__a_2d_b", "_", "", "a_2d_b", "é"} {
		l := Label(s)
		if prev, ok := seen[l]; ok {
			t.Errorf("Label(%q) and Label(%q) are both %q", prev, s, l)
		}
		seen[l] = s
		assert.Regexp(t, `^[A-Za-z0-9_]+$`, l)
	}
}
