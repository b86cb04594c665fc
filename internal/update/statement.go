package update

import (
	"fmt"
	"strings"

	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/shape"
)

// Kind names a statement variant.
type Kind string

const (
	KindInsertData     Kind = "insert_data"
	KindDeleteTriple   Kind = "delete_triple"
	KindInsertShape    Kind = "insert_shape"
	KindDeleteShape    Kind = "delete_shape"
	KindDeleteMatching Kind = "delete_matching"
)

// Statement is a sealed interface for SPARQL Update statements.
type Statement interface {
	fmt.Stringer
	Kind() Kind
	statement() // Sealed
}

// InsertData inserts ground triples into a named graph.
type InsertData struct {
	Graph   string
	Triples []rdf.Triple
}

func (InsertData) statement() {}

// Kind implements Statement.
func (InsertData) Kind() Kind { return KindInsertData }

// String renders INSERT DATA { GRAPH <g> { s p o . } };
func (s InsertData) String() string {
	var b strings.Builder
	b.WriteString("INSERT DATA { GRAPH ")
	b.WriteString(graphRef(s.Graph))
	b.WriteString(" { ")
	for _, t := range s.Triples {
		b.WriteString(dataTerm(t.Subject))
		b.WriteByte(' ')
		b.WriteString(rdf.N3(t.Predicate))
		b.WriteByte(' ')
		b.WriteString(dataTerm(t.Object))
		b.WriteString(" . ")
	}
	b.WriteString("} };")
	return b.String()
}

// DeleteTriple removes one triple, matching its object in normalized form.
type DeleteTriple struct {
	Graph  string
	Triple rdf.Triple
}

func (DeleteTriple) statement() {}

// Kind implements Statement.
func (DeleteTriple) Kind() Kind { return KindDeleteTriple }

// Target returns the triple the statement matches in the store.
func (s DeleteTriple) Target() rdf.Triple {
	return rdf.T(s.Triple.Subject, s.Triple.Predicate, rdf.Normalize(s.Triple.Object))
}

// String renders WITH <g> DELETE { s p o . } WHERE { s p o . };
func (s DeleteTriple) String() string {
	t := s.Target()
	triple := fmt.Sprintf("%s %s %s .", rdf.N3(t.Subject), rdf.N3(t.Predicate), rdf.N3(t.Object))
	return fmt.Sprintf("WITH %s DELETE { %s } WHERE { %s };", graphRef(s.Graph), triple, triple)
}

// InsertShape inserts a blank node together with its referrers and
// assertions.
//
// A node with at most one referrer is written as an anonymous [ ... ] term.
// A node with several referrers, or one that refers to itself, is written with
// its label so every referrer can point at the same fresh node.
//
// Nested holds the shapes of blank nodes linked to Shape.Node through other
// blank nodes, such as the cells of an RDF collection. They are written into
// the same request under their labels, which a store scopes to the request.
type InsertShape struct {
	Graph  string
	Shape  shape.Shape
	Nested []shape.Shape
}

func (InsertShape) statement() {}

// Kind implements Statement.
func (InsertShape) Kind() Kind { return KindInsertShape }

// Triples returns every triple the statement inserts, each once.
func (s InsertShape) Triples() []rdf.Triple {
	return append(s.Shape.Triples(), shape.NestedTriples(s.Shape, s.Nested)...)
}

// String implements Statement.
func (s InsertShape) String() string {
	sh := s.Shape
	nested := shape.NestedTriples(sh, s.Nested)
	var b strings.Builder
	b.WriteString("INSERT DATA { GRAPH ")
	b.WriteString(graphRef(s.Graph))
	b.WriteString(" { ")

	if len(sh.Referrers) > 1 || sh.SelfReferencing() {
		node := dataTerm(sh.Node)
		for _, r := range sh.Referrers {
			fmt.Fprintf(&b, "%s %s %s . ", dataTerm(r.Subject), rdf.N3(r.Predicate), node)
		}
		if len(sh.Assertions) > 0 {
			b.WriteString(node)
			b.WriteByte(' ')
			for _, a := range sh.Assertions {
				fmt.Fprintf(&b, "%s %s ; ", rdf.N3(a.Predicate), dataTerm(a.Object))
			}
			b.WriteString(". ")
		}
		writeData(&b, nested)
		b.WriteString("} };")
		return b.String()
	}

	for _, r := range sh.Referrers {
		fmt.Fprintf(&b, "%s %s ", dataTerm(r.Subject), rdf.N3(r.Predicate))
	}
	b.WriteByte('[')
	for _, a := range sh.Assertions {
		fmt.Fprintf(&b, "%s %s ; ", rdf.N3(a.Predicate), dataTerm(a.Object))
	}
	b.WriteString("] ")
	if len(nested) > 0 {
		b.WriteString(". ")
		writeData(&b, nested)
	}
	b.WriteString("} };")
	return b.String()
}

// DeleteShape removes every node matching a shape, with the referrer links
// and assertions the shape lists. Nested shapes are matched and removed in
// the same statement, as variables.
type DeleteShape struct {
	Graph  string
	Shape  shape.Shape
	Nested []shape.Shape
}

func (DeleteShape) statement() {}

// Kind implements Statement.
func (DeleteShape) Kind() Kind { return KindDeleteShape }

// Where returns the normalized patterns of the WHERE clause. The DELETE
// template uses the same patterns.
func (s DeleteShape) Where() []shape.Pattern {
	return shape.StructurePatterns(s.Shape, s.Nested, true)
}

// String implements Statement.
func (s DeleteShape) String() string {
	sh := s.Shape
	var body strings.Builder
	for _, r := range sh.Referrers {
		fmt.Fprintf(&body, "%s %s  ?s. ", sh.Var(r.Subject, false), rdf.N3(r.Predicate))
	}
	if len(sh.Assertions) > 0 {
		parts := make([]string, len(sh.Assertions))
		for i, a := range sh.Assertions {
			parts[i] = rdf.N3(a.Predicate) + " " + sh.Var(a.Object, true)
		}
		body.WriteString("?s ")
		body.WriteString(strings.Join(parts, " ; "))
		body.WriteByte(' ')
	}
	if nested := shape.NestedTriples(sh, s.Nested); len(nested) > 0 {
		if len(sh.Assertions) > 0 {
			body.WriteString(". ")
		}
		for _, t := range nested {
			fmt.Fprintf(&body, "%s %s %s . ", sh.Var(t.Subject, false), rdf.N3(t.Predicate), sh.Var(t.Object, true))
		}
	}
	where := body.String()
	if len(sh.Assertions) == 0 {
		where += "FILTER(isBlank(?s)) "
	}
	return fmt.Sprintf("WITH %s DELETE { %s } WHERE { %s };", graphRef(s.Graph), body.String(), where)
}

func writeData(b *strings.Builder, triples []rdf.Triple) {
	for _, t := range triples {
		fmt.Fprintf(b, "%s %s %s . ", dataTerm(t.Subject), rdf.N3(t.Predicate), dataTerm(t.Object))
	}
}

// DeleteMatching removes every triple of every subject that carries all the
// given assertions.
type DeleteMatching struct {
	Graph      string
	Assertions []shape.Assertion
}

func (DeleteMatching) statement() {}

// Kind implements Statement.
func (DeleteMatching) Kind() Kind { return KindDeleteMatching }

// Where returns the patterns selecting the subjects to delete.
func (s DeleteMatching) Where() []shape.Pattern {
	out := make([]shape.Pattern, len(s.Assertions))
	for i, a := range s.Assertions {
		out[i] = shape.Pattern{Subject: shape.V(shape.NodeVar), Predicate: a.Predicate, Object: shape.Bound(a.Object)}
	}
	return out
}

// String renders WITH <g> DELETE {?s ?p ?o} WHERE {?s p1 o1; ...; ?p ?o.};
func (s DeleteMatching) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "WITH %s DELETE {?s ?p ?o} WHERE {?s ", graphRef(s.Graph))
	for _, a := range s.Assertions {
		fmt.Fprintf(&b, "%s %s; ", rdf.N3(a.Predicate), rdf.N3(a.Object))
	}
	b.WriteString("?p ?o.};")
	return b.String()
}

// Strings renders each statement.
func Strings(stmts []Statement) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.String()
	}
	return out
}

// Script renders statements one per line.
func Script(stmts []Statement) string {
	return strings.Join(Strings(stmts), "\n")
}

func graphRef(g string) string {
	return rdf.N3(rdf.IRI(g))
}

// dataTerm renders a term inside INSERT DATA, where blank nodes keep a label
// safe for SPARQL.
func dataTerm(t rdf.Term) string {
	if b, ok := t.(rdf.Blank); ok {
		return rdf.N3(rdf.Blank(rdf.Label(string(b))))
	}
	return rdf.N3(t)
}
