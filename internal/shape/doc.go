// Package shape fingerprints blank nodes by their immediate neighbourhood.
//
// Blank node ids are local to one parse, so a blank node in one revision of
// an ontology cannot be found in another revision by id. A Shape instead
// records who points at the node (its referrers) and what the node asserts.
// Counting how many solutions the shape's pattern has in each revision tells
// whether the node survived the change unmodified.
//
// Counting runs either against an in-memory graph (GraphCounter, built on the
// small basic graph pattern solver in this package) or against a remote SPARQL
// endpoint using the text returned by Shape.Query.
package shape
