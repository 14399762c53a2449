// Package store keeps a SQLite history of verification runs.
//
// Two tables:
//   - runs: one row per verified input, keyed by a UUIDv7 id
//   - diagnostics: the diagnostics a run emitted, keyed by (run_id, ordinal)
//
// Ordering uses the seq column, a logical clock assigned at insert time.
// Wall-clock timestamps are never stored, so two histories built from the
// same inputs are identical apart from run ids.
//
// Writes are idempotent on run id: recording the same run twice keeps the
// first copy.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
