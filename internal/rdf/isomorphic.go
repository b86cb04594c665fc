package rdf

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// Isomorphic reports whether a and b contain the same triples up to a
// renaming of blank nodes.
//
// Blank nodes are coloured by iterated refinement over their neighbourhood
// and both graphs are compared as sorted multisets of coloured triples.
// Graphs whose blank nodes remain indistinguishable after refinement are
// compared by that multiset alone.
func Isomorphic(a, b *Graph) bool {
	if a.Len() != b.Len() {
		return false
	}
	return slices.Equal(colouredTriples(a), colouredTriples(b))
}

// Canonical renders g as sorted N-Triples lines with blank nodes replaced by
// their refined colours. Isomorphic graphs render identically.
func Canonical(g *Graph) string {
	return strings.Join(colouredTriples(g), "\n")
}

func colouredTriples(g *Graph) []string {
	colours := refine(g)
	render := func(t Term) string {
		if bl, ok := t.(Blank); ok {
			return "_:c" + colours[bl]
		}
		return N3(t)
	}
	out := make([]string, 0, g.Len())
	for t := range g.triples {
		out = append(out, render(t.Subject)+" "+N3(t.Predicate)+" "+render(t.Object))
	}
	slices.Sort(out)
	return out
}

func refine(g *Graph) map[Blank]string {
	blanks := g.Blanks()
	colours := make(map[Blank]string, len(blanks))
	for _, bl := range blanks {
		colours[bl] = ""
	}

	// Each round can only split classes, so len(blanks)+1 rounds reach a
	// fixed point.
	for round := 0; round <= len(blanks); round++ {
		next := make(map[Blank]string, len(blanks))
		for _, bl := range blanks {
			next[bl] = signature(g, bl, colours)
		}
		if classes(next) == classes(colours) {
			return next
		}
		colours = next
	}
	return colours
}

func signature(g *Graph, self Blank, colours map[Blank]string) string {
	term := func(t Term) string {
		switch v := t.(type) {
		case Blank:
			if v == self {
				return "@"
			}
			return "_:" + colours[v]
		default:
			return N3(t)
		}
	}
	var parts []string
	for _, t := range g.Match(self, "", nil) {
		parts = append(parts, "s "+N3(t.Predicate)+" "+term(t.Object))
	}
	for _, t := range g.Match(nil, "", self) {
		parts = append(parts, "o "+term(t.Subject)+" "+N3(t.Predicate))
	}
	slices.Sort(parts)
	parts = append(parts, colours[self])
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:8])
}

func classes(c map[Blank]string) int {
	seen := make(map[string]struct{}, len(c))
	for _, v := range c {
		seen[v] = struct{}{}
	}
	return len(seen)
}
