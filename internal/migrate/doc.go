// Package migrate computes reversible migrations between two revisions of an
// ontology and applies them to a store.
//
// A migration is built in both directions from two set differences:
//
//	added   = Diff(destination, current)   -> forward inserts, backward deletes
//	removed = Diff(current, destination)   -> forward deletes, backward inserts
//
// Triples without blank nodes are emitted one statement each (EmitPlain).
// Triples touching a blank node are never emitted on their own. Each blank
// node is fingerprinted by its shape and emitted as a whole when the shape
// has no equal counterpart on the other side (Correlate).
//
// Plan orders the statements so the forward script removes before it adds,
// and appends a version ledger record to each direction.
//
// Apply runs a forward script one statement at a time, stops at the first
// failure and never compensates. Callers observe progress through a Sink.
package migrate
