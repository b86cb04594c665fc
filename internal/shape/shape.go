package shape

import (
	"github.com/roach88/ontomig/internal/rdf"
)

// NodeVar is the variable bound to the fingerprinted node in queries and
// patterns.
const NodeVar = "s"

// Referrer is a (subject, predicate) pair whose triple points at the node.
type Referrer struct {
	Subject   rdf.Term
	Predicate rdf.IRI
}

// Assertion is a (predicate, object) pair the node asserts.
type Assertion struct {
	Predicate rdf.IRI
	Object    rdf.Term
}

// Shape is the structural fingerprint of one blank node.
type Shape struct {
	Node       rdf.Blank
	Referrers  []Referrer
	Assertions []Assertion
}

// Of builds the shape of node from the triples of g. Referrers and
// assertions are sorted by the N-Triples form of their triple.
func Of(g *rdf.Graph, node rdf.Blank) Shape {
	s := Shape{Node: node}
	for _, t := range g.Match(nil, "", node) {
		s.Referrers = append(s.Referrers, Referrer{Subject: t.Subject, Predicate: t.Predicate})
	}
	for _, t := range g.Match(node, "", nil) {
		s.Assertions = append(s.Assertions, Assertion{Predicate: t.Predicate, Object: t.Object})
	}
	return s
}

// Triples returns the triples the shape was built from, referrers first.
func (s Shape) Triples() []rdf.Triple {
	out := make([]rdf.Triple, 0, len(s.Referrers)+len(s.Assertions))
	for _, r := range s.Referrers {
		out = append(out, rdf.T(r.Subject, r.Predicate, s.Node))
	}
	for _, a := range s.Assertions {
		out = append(out, rdf.T(s.Node, a.Predicate, a.Object))
	}
	return out
}

// Blanks returns the blank nodes the shape mentions other than Node, in order
// of first appearance.
func (s Shape) Blanks() []rdf.Blank {
	var out []rdf.Blank
	seen := map[rdf.Blank]bool{s.Node: true}
	add := func(t rdf.Term) {
		if b, ok := t.(rdf.Blank); ok && !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	for _, r := range s.Referrers {
		add(r.Subject)
	}
	for _, a := range s.Assertions {
		add(a.Object)
	}
	return out
}

// SelfReferencing reports whether the node points at itself.
func (s Shape) SelfReferencing() bool {
	for _, r := range s.Referrers {
		if r.Subject == s.Node {
			return true
		}
	}
	return false
}

// VarName returns the variable name standing for blank node b inside a
// pattern or template of this shape.
func (s Shape) VarName(b rdf.Blank) string {
	if b == s.Node {
		return NodeVar
	}
	return "b_" + rdf.Label(string(b))
}

// Var renders t for a query or template: the node and any other blank are
// variables, everything else is rendered with rdf.N3. When normalize is set
// objects pass through rdf.Normalize first.
func (s Shape) Var(t rdf.Term, normalize bool) string {
	if b, ok := t.(rdf.Blank); ok {
		return "?" + s.VarName(b)
	}
	if normalize {
		return rdf.NormalizedN3(t)
	}
	return rdf.N3(t)
}
