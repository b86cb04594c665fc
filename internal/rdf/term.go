package rdf

import "fmt"

// Term is a sealed interface for RDF terms.
// Only IRI, Blank and Literal implement it.
type Term interface {
	term() // Sealed

	// String returns the term rendered in N-Triples form.
	String() string
}

// IRI is an absolute (or graph-local) resource identifier.
type IRI string

func (IRI) term() {}

func (i IRI) String() string { return N3(i) }

// Blank is a blank node. The label is only meaningful within the graph it was
// parsed into.
type Blank string

func (Blank) term() {}

func (b Blank) String() string { return N3(b) }

// Literal is a lexical value with a datatype or a language tag.
// An empty Datatype means xsd:string. Lang wins over Datatype.
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

func (Literal) term() {}

func (l Literal) String() string { return N3(l) }

// NewLiteral creates a typed literal.
func NewLiteral(lexical string, datatype IRI) Literal {
	if datatype == XSDString {
		datatype = ""
	}
	return Literal{Lexical: lexical, Datatype: datatype}
}

// NewLangLiteral creates a language-tagged string.
func NewLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Lang: lang}
}

// String creates a plain xsd:string literal.
func String(lexical string) Literal {
	return Literal{Lexical: lexical}
}

// IsBlank reports whether t is a blank node.
func IsBlank(t Term) bool {
	_, ok := t.(Blank)
	return ok
}

// Triple is a single RDF statement. Triples are comparable and can be used as
// map keys.
type Triple struct {
	Subject   Term
	Predicate IRI
	Object    Term
}

// T builds a triple.
func T(s Term, p IRI, o Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// String renders the triple in N-Triples form without the trailing dot.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", N3(t.Subject), N3(t.Predicate), N3(t.Object))
}

// HasBlank reports whether the subject or object is a blank node.
func (t Triple) HasBlank() bool {
	return IsBlank(t.Subject) || IsBlank(t.Object)
}
