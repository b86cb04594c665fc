// Package update models the SPARQL Update statements a migration emits.
//
// Statements are structured values rather than strings so that the same
// plan can be rendered for a remote endpoint (String) and replayed against
// the in-memory store in package memstore. Statement is sealed: InsertData,
// DeleteTriple, InsertShape, DeleteShape and DeleteMatching are the only
// implementations.
//
// Rendering rules:
//
//   - forward statements (INSERT DATA) keep terms as authored
//   - backward templates and WHERE clauses pass objects through rdf.Normalize
//   - every statement text ends with ";"
package update
