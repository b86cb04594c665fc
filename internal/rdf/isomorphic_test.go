package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ontomig/internal/testutil"
)

func TestIsomorphic_RelabeledParses(t *testing.T) {
	a, err := ParseTurtle(testutil.Structure03, ParseOptions{Graph: "test", Scope: "a"})
	require.NoError(t, err)
	b, err := ParseTurtle(testutil.Structure03, ParseOptions{Graph: "test", Scope: "b"})
	require.NoError(t, err)

	require.NotEqual(t, a.Blanks(), b.Blanks())
	assert.True(t, Isomorphic(a, b))
	assert.Equal(t, Canonical(a), Canonical(b))
}

func TestIsomorphic_DifferentShapes(t *testing.T) {
	a, err := ParseTurtle(testutil.Structure02, ParseOptions{Graph: "test"})
	require.NoError(t, err)
	b, err := ParseTurtle(testutil.Structure04, ParseOptions{Graph: "test"})
	require.NoError(t, err)

	assert.False(t, Isomorphic(a, b))
}

func TestIsomorphic_SameSizeDifferentStructure(t *testing.T) {
	p := ex("p")
	// a: two blanks each pointing at a distinct IRI.
	a := NewGraph("a",
		T(Blank("x"), p, ex("1")),
		T(Blank("y"), p, ex("2")),
	)
	// b: one blank pointing at both IRIs.
	b := NewGraph("b",
		T(Blank("x"), p, ex("1")),
		T(Blank("x"), p, ex("2")),
	)
	assert.False(t, Isomorphic(a, b))
}

func TestIsomorphic_Chains(t *testing.T) {
	p := ex("next")
	a := NewGraph("a",
		T(ex("head"), p, Blank("a1")),
		T(Blank("a1"), p, Blank("a2")),
		T(Blank("a2"), p, ex("tail")),
	)
	b := NewGraph("b",
		T(Blank("z9"), p, ex("tail")),
		T(ex("head"), p, Blank("z8")),
		T(Blank("z8"), p, Blank("z9")),
	)
	reversed := NewGraph("c",
		T(ex("head"), p, Blank("c1")),
		T(Blank("c1"), p, Blank("c2")),
		T(Blank("c2"), p, Blank("c1")),
	)

	assert.True(t, Isomorphic(a, b))
	assert.False(t, Isomorphic(a, reversed))
}
