package shape

import (
	"maps"

	"github.com/roach88/ontomig/internal/rdf"
)

// Node is a pattern position: either a variable (Var non-empty) or a bound
// term.
type Node struct {
	Var  string
	Term rdf.Term
}

// V returns a variable node.
func V(name string) Node { return Node{Var: name} }

// Bound returns a node fixed to t.
func Bound(t rdf.Term) Node { return Node{Term: t} }

// Pattern is a triple pattern with a fixed predicate.
type Pattern struct {
	Subject   Node
	Predicate rdf.IRI
	Object    Node
}

// Binding maps variable names to terms.
type Binding map[string]rdf.Term

// Instantiate replaces the variables of p with their bindings. It reports
// false when a variable is unbound.
func (p Pattern) Instantiate(b Binding) (rdf.Triple, bool) {
	s, ok := resolve(p.Subject, b)
	if !ok {
		return rdf.Triple{}, false
	}
	o, ok := resolve(p.Object, b)
	if !ok {
		return rdf.Triple{}, false
	}
	return rdf.T(s, p.Predicate, o), true
}

// Patterns converts the shape into triple patterns over the node variable,
// referrers first. When normalize is set object terms pass through
// rdf.Normalize.
func (s Shape) Patterns(normalize bool) []Pattern {
	triples := s.Triples()
	out := make([]Pattern, len(triples))
	for i, t := range triples {
		out[i] = s.Pattern(t, normalize)
	}
	return out
}

// Pattern converts t into a pattern in which every blank node is the
// variable this shape names it by.
func (s Shape) Pattern(t rdf.Triple, normalize bool) Pattern {
	node := func(t rdf.Term, object bool) Node {
		if b, ok := t.(rdf.Blank); ok {
			return V(s.VarName(b))
		}
		if object && normalize {
			return Bound(rdf.Normalize(t))
		}
		return Bound(t)
	}
	return Pattern{Subject: node(t.Subject, false), Predicate: t.Predicate, Object: node(t.Object, true)}
}

// Solve returns every binding under which all patterns hold in g. Patterns
// are joined in order by backtracking.
func Solve(g *rdf.Graph, patterns []Pattern) []Binding {
	var out []Binding
	var walk func(i int, b Binding)
	walk = func(i int, b Binding) {
		if i == len(patterns) {
			out = append(out, maps.Clone(b))
			return
		}
		p := patterns[i]
		s, _ := resolve(p.Subject, b)
		o, _ := resolve(p.Object, b)
		for _, t := range g.Match(s, p.Predicate, o) {
			next, ok := unify(p, t, b)
			if ok {
				walk(i+1, next)
			}
		}
	}
	walk(0, Binding{})
	return out
}

func resolve(n Node, b Binding) (rdf.Term, bool) {
	if n.Var == "" {
		return n.Term, true
	}
	t, ok := b[n.Var]
	return t, ok
}

func unify(p Pattern, t rdf.Triple, b Binding) (Binding, bool) {
	next := maps.Clone(b)
	bind := func(n Node, value rdf.Term) bool {
		if n.Var == "" {
			return n.Term == value
		}
		if have, ok := next[n.Var]; ok {
			return have == value
		}
		next[n.Var] = value
		return true
	}
	if !bind(p.Subject, t.Subject) || !bind(p.Object, t.Object) {
		return nil, false
	}
	return next, true
}
