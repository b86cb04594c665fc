package rdf

import (
	"slices"
	"strings"
)

// Graph is a set of triples tagged with the name of the graph it came from.
// A Graph is not safe for concurrent mutation.
type Graph struct {
	name      string
	triples   map[Triple]struct{}
	bySubject map[Term]map[Triple]struct{}
	byObject  map[Term]map[Triple]struct{}
}

// NewGraph creates an empty graph.
func NewGraph(name string, triples ...Triple) *Graph {
	g := &Graph{
		name:      name,
		triples:   make(map[Triple]struct{}),
		bySubject: make(map[Term]map[Triple]struct{}),
		byObject:  make(map[Term]map[Triple]struct{}),
	}
	for _, t := range triples {
		g.Add(t)
	}
	return g
}

// Name returns the originating graph IRI.
func (g *Graph) Name() string { return g.name }

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Has reports whether t is in the graph.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.triples[t]
	return ok
}

// Add inserts t and reports whether it was new.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.triples[t]; ok {
		return false
	}
	g.triples[t] = struct{}{}
	index(g.bySubject, t.Subject, t)
	index(g.byObject, t.Object, t)
	return true
}

// Remove deletes t and reports whether it was present.
func (g *Graph) Remove(t Triple) bool {
	if _, ok := g.triples[t]; !ok {
		return false
	}
	delete(g.triples, t)
	unindex(g.bySubject, t.Subject, t)
	unindex(g.byObject, t.Object, t)
	return true
}

func index(idx map[Term]map[Triple]struct{}, k Term, t Triple) {
	set, ok := idx[k]
	if !ok {
		set = make(map[Triple]struct{})
		idx[k] = set
	}
	set[t] = struct{}{}
}

func unindex(idx map[Term]map[Triple]struct{}, k Term, t Triple) {
	set := idx[k]
	delete(set, t)
	if len(set) == 0 {
		delete(idx, k)
	}
}

// Triples returns every triple sorted by N-Triples form.
func (g *Graph) Triples() []Triple {
	return sorted(g.triples)
}

// Match returns the triples matching the pattern sorted by N-Triples form.
// A nil subject or object and an empty predicate match anything.
func (g *Graph) Match(s Term, p IRI, o Term) []Triple {
	candidates := g.triples
	switch {
	case s != nil:
		candidates = g.bySubject[s]
	case o != nil:
		candidates = g.byObject[o]
	}
	out := make([]Triple, 0, len(candidates))
	for t := range candidates {
		if s != nil && t.Subject != s {
			continue
		}
		if p != "" && t.Predicate != p {
			continue
		}
		if o != nil && t.Object != o {
			continue
		}
		out = append(out, t)
	}
	sortTriples(out)
	return out
}

// Blanks returns every blank node used as a subject or object, sorted by
// label.
func (g *Graph) Blanks() []Blank {
	seen := make(map[Blank]struct{})
	for t := range g.triples {
		if b, ok := t.Subject.(Blank); ok {
			seen[b] = struct{}{}
		}
		if b, ok := t.Object.(Blank); ok {
			seen[b] = struct{}{}
		}
	}
	out := make([]Blank, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of g.
func (g *Graph) Clone() *Graph {
	c := NewGraph(g.name)
	for t := range g.triples {
		c.Add(t)
	}
	return c
}

// Map returns a copy of g with fn applied to every object.
func (g *Graph) Map(fn func(Term) Term) *Graph {
	c := NewGraph(g.name)
	for t := range g.triples {
		c.Add(Triple{Subject: t.Subject, Predicate: t.Predicate, Object: fn(t.Object)})
	}
	return c
}

// Diff returns the triples of a that are absent from b. The result carries
// a's name.
func Diff(a, b *Graph) *Graph {
	out := NewGraph(a.name)
	for t := range a.triples {
		if !b.Has(t) {
			out.Add(t)
		}
	}
	return out
}

// sortTriples orders triples by their N-Triples form.
func sortTriples(ts []Triple) {
	slices.SortFunc(ts, func(a, b Triple) int {
		return strings.Compare(a.String(), b.String())
	})
}

func sorted(set map[Triple]struct{}) []Triple {
	out := make([]Triple, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sortTriples(out)
	return out
}
