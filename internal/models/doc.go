// Package models defines domain entities and persistence interfaces for the dupx library analyzer.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs derived from the library export
//   - [Track] : One catalog entry with metadata and file location
//   - [Library] : A fully loaded export with its tracks
//   - [TrackSummary] : Compact track projection embedded in reports
//   - [DuplicateGroup] : Catalog entries sharing a derived key
//   - [Report] : Grouped duplicates for one scan, stable across reruns
//   - [ScoredTrack], [EvaluatedGroup], [Evaluation] : Quality evaluation results
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [ScanRecord] : Completed scan runs with summary counts
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
