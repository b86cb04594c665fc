// Package rdf provides the term model, triple sets and term serialization
// used to compute ontology migrations.
//
// Terms form a closed set: IRI, Blank and Literal are the only
// implementations of Term, so a type switch over them is exhaustive.
// Blank node ids are local to one parse. Two graphs parsed from different
// documents never share blank ids, and callers must not correlate blank
// nodes across graphs by id (see package shape for structural matching).
//
// All SPARQL and N-Triples fragments are rendered through N3, which owns
// IRI and literal escaping. No other package builds term text by hand.
//
// Normalize compensates for stores that coerce xsd:boolean and
// xsd:nonNegativeInteger literals to xsd:integer on ingestion. It is applied
// to the comparison side of emitted statements only.
package rdf
