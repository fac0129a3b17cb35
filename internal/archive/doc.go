// Package archive stores validated payloads in SQLite.
//
// Rows are keyed by the payload's content ID, so writing the same payload
// twice is a no-op. Every row also carries a logical sequence number and
// all listings are ordered by seq ASC, id ASC; wall-clock time is never
// stored.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// The schema version is tracked in PRAGMA user_version.
package archive
