package models

import (
	"fmt"
	"time"
)

// ScanRecord is a persisted summary of one completed scan run.
//
// Group membership rows are stored alongside the record by the repository;
// the record itself carries only counts.
type ScanRecord struct {
	id          string
	sequence    int
	libraryPath string
	trackCount  int
	skipped     int
	metaGroups  int
	locGroups   int
	durationMS  int64
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewScanRecord creates a scan record for the given library with summary counts.
func NewScanRecord(sequence int, libraryPath string, trackCount, skipped, metaGroups, locGroups int, durationMS int64) *ScanRecord {
	now := time.Now()
	return &ScanRecord{
		sequence:    sequence,
		libraryPath: libraryPath,
		trackCount:  trackCount,
		skipped:     skipped,
		metaGroups:  metaGroups,
		locGroups:   locGroups,
		durationMS:  durationMS,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (s *ScanRecord) ID() string            { return s.id }
func (s *ScanRecord) Sequence() int         { return s.sequence }
func (s *ScanRecord) LibraryPath() string   { return s.libraryPath }
func (s *ScanRecord) TrackCount() int       { return s.trackCount }
func (s *ScanRecord) SkippedCount() int     { return s.skipped }
func (s *ScanRecord) MetadataGroups() int   { return s.metaGroups }
func (s *ScanRecord) LocationGroups() int   { return s.locGroups }
func (s *ScanRecord) DurationMS() int64     { return s.durationMS }
func (s *ScanRecord) CreatedAt() time.Time  { return s.createdAt }
func (s *ScanRecord) UpdatedAt() time.Time  { return s.updatedAt }
func (s *ScanRecord) DeletedAt() *time.Time { return s.deletedAt }

// GroupCount returns the total number of stored groups across both kinds.
func (s *ScanRecord) GroupCount() int { return s.metaGroups + s.locGroups }

func (s *ScanRecord) SetID(id string)           { s.id = id }
func (s *ScanRecord) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *ScanRecord) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *ScanRecord) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// Validate checks that the record describes a plausible scan.
func (s *ScanRecord) Validate() error {
	if s.libraryPath == "" {
		return fmt.Errorf("scan record missing library path")
	}
	if s.trackCount < 0 || s.skipped < 0 {
		return fmt.Errorf("scan record has negative counts")
	}
	if s.metaGroups < 0 || s.locGroups < 0 {
		return fmt.Errorf("scan record has negative group counts")
	}
	return nil
}
