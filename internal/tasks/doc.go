// Package tasks orchestrates duplicate detection over a library export with real-time progress reporting.
//
// # Core Operations
//
// The [ScanEngine] interface defines three operations:
//
//  1. [ScanEngine.Scan] : Full duplicate scan of a library export
//     - Parses the export (or reuses a cached parse)
//     - Derives metadata and location keys for every track
//     - Buckets tracks by key and keeps multi-member groups
//     - Returns a deterministic report ordered by key and track ID
//
//  2. [ScanEngine.Evaluate] : Score group members against the filesystem
//     - Probes each member's file with a rate-limited worker pool
//     - Scores on presence, bit rate, sample rate, size, plays and rating
//     - Marks the highest-scoring member of each group as the keeper
//     - Skips groups the allowlist excludes
//
//  3. [ScanEngine.Similar] : Fuzzy near-duplicate discovery
//     - Compares normalized track identities with Jaro-Winkler similarity
//     - Reports pairs at or above a configurable threshold
//     - Leaves exact-key duplicates to the scan report
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Library Caching
//
// The optional [LibraryCacher] interface enables parsed-library reuse between runs.
//
// Entries are fetched and stored silently (errors ignored) to avoid disrupting scans.
//
// # Implementation
//
// [DuplicateEngine] implements [ScanEngine] with dependencies on:
//   - [library.Service] : the export parser
//   - [LibraryCacher] : Optional persistence layer (repositories.LibraryCacheAdapter)
//   - [GroupExcluder] : Optional allowlist lookup (allowlist.File)
package tasks
