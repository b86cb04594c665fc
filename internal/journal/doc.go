// Package journal keeps a local SQLite record of migration runs.
//
// Every run gets a row in runs when it starts and is closed with its final
// status. Each statement applied during a run is appended to
// applied_statements together with the statement that undoes it, so a
// partially applied run can be rolled back by hand.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Rows are ordered by seq within a run and by run id across runs. Run ids
// are UUIDv7 and sort by creation time.
package journal
