// Package harness runs migration scenarios described in YAML and checks the
// planned scripts and their effect on an in-memory store.
//
// # Scenario Format
//
//	name: split_restriction
//	description: "One restriction becomes two"
//	current: structure_02.ttl
//	destination: structure_03.ttl
//	version: "03"
//	origin: git
//	golden: true
//	assertions:
//	  - type: up_kinds
//	    kinds: [delete_shape, insert_shape, insert_shape, insert_shape]
//	  - type: round_trip
//
// A scenario either migrates current to destination or, with load set,
// plans the raw insert of a data file. Turtle paths are relative to the
// scenario file. An empty current means a store holding nothing.
//
// # Assertion Types
//
//   - up_kinds / down_kinds: the statement kinds of a script, in order
//   - up_contains / down_contains: a script contains a statement verbatim
//   - changes: the number of forward statements besides the ledger record
//   - round_trip: applying up to a store holding current yields
//     destination and records version, applying down restores current
//     and removes the record
//
// # Deterministic Testing
//
// Every scenario runs with the fixed clock of testutil, so scripts are
// byte-identical across runs and can be compared with golden files:
//
//	go test ./internal/harness -update
package harness
