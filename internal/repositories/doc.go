// Package repositories implements SQLite persistence for scan history and library caching.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// ScanRepository supports soft deletes via deleted_at timestamps and excludes deleted records from queries by default.
//
// Key Implementations:
//   - [ScanRepository] : Scan history persistence, storing duplicate groups in report order
//   - [LibraryCacheRepository] : Parsed library payloads keyed by export path and file fingerprint
//   - [LibraryCacheAdapter] : tasks.LibraryCacher backed by LibraryCacheRepository
//
// Sequence numbers provide stable, human-readable ordering (e.g., scan #3) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
