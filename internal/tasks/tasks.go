// package tasks implements duplicate detection operations over a music library export.
//
// The core abstraction is ScanEngine, which orchestrates scans, evaluations, and fuzzy comparisons.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/desertthunder/dupx/internal/library"
	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
)

// ScanResult contains all data from a full duplicate scan.
type ScanResult struct {
	Library   *models.Library // Parsed library with tracks
	Report    *models.Report  // Duplicate groups keyed by metadata and location
	FromCache bool            // Whether the parsed library came from the cache
	Elapsed   time.Duration   // Wall time for the scan
}

// ScanEngine defines operations for analyzing a library export.
type ScanEngine interface {
	// Scan parses the library export and groups tracks sharing an exact metadata or location key.
	Scan(ctx context.Context, progress chan<- ProgressUpdate, path string) (*ScanResult, error)

	// Evaluate scores each group member against the filesystem and marks one keeper per group.
	Evaluate(ctx context.Context, progress chan<- ProgressUpdate, report *models.Report, lib *models.Library, opts EvaluateOpts) (*models.Evaluation, error)

	// Similar finds track pairs whose identities fuzzy-match at or above a threshold.
	Similar(ctx context.Context, progress chan<- ProgressUpdate, lib *models.Library, threshold float64) ([]models.SimilarPair, error)
}

// LibraryCacher defines the interface for caching parsed libraries between runs.
// Entries are keyed on the export path and invalidated by fingerprint, so a
// modified export is a miss. Failures are treated as misses; caching never
// disrupts a scan.
type LibraryCacher interface {
	Fetch(ctx context.Context, path string) (*models.Library, bool)
	Store(ctx context.Context, lib *models.Library)
}

// EngineOpts contains tuning options applied across engine operations.
type EngineOpts struct {
	FoldDiacritics bool // Fold accented characters when deriving metadata keys
}

// DuplicateEngine implements ScanEngine for library analysis.
// Contains dependencies on the library loader and an optional parsed-library cache.
type DuplicateEngine struct {
	library library.Service
	cache   LibraryCacher
	opts    EngineOpts
}

// NewDuplicateEngine creates a new DuplicateEngine backed by the provided loader.
func NewDuplicateEngine(svc library.Service, opts EngineOpts) *DuplicateEngine {
	return &DuplicateEngine{
		library: svc,
		opts:    opts,
	}
}

// SetCache attaches an optional parsed-library cache.
func (e *DuplicateEngine) SetCache(cache LibraryCacher) {
	e.cache = cache
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *DuplicateEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Scan parses the library export at path and groups tracks by exact keys.
//
// Two passes over the parsed tracks derive the grouping keys: the metadata key
// from normalized title, artist, album and rounded duration, and the location
// key from the canonicalized file path. Buckets with a single member are not
// duplicates and are discarded. Group members sort by track ID and groups sort
// by key, so identical input always yields an identical report.
func (e *DuplicateEngine) Scan(ctx context.Context, progress chan<- ProgressUpdate, path string) (*ScanResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library loader not initialized", shared.ErrServiceUnavailable)
	}

	start := time.Now()
	result := &ScanResult{}

	e.sendProgress(progress, loadingLibraryUpdate(path))

	var lib *models.Library
	if e.cache != nil {
		if cached, ok := e.cache.Fetch(ctx, path); ok {
			lib = cached
			result.FromCache = true
			e.sendProgress(progress, cachedLibraryUpdate(lib))
		}
	}

	if lib == nil {
		loaded, err := e.library.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		lib = loaded
		if e.cache != nil {
			e.cache.Store(ctx, lib)
		}
		e.sendProgress(progress, libraryLoadedUpdate(lib))
	}

	e.sendProgress(progress, buildKeysUpdate(len(lib.Tracks)))

	report := e.buildReport(lib)

	e.sendProgress(progress, groupsFoundUpdate(models.KeyMetadata, len(report.MetadataGroups), 1, 2))
	e.sendProgress(progress, groupsFoundUpdate(models.KeyLocation, len(report.LocationGroups), 2, 2))

	result.Library = lib
	result.Report = report
	result.Elapsed = time.Since(start)
	return result, nil
}

// buildReport derives both key spaces and collects multi-member buckets.
func (e *DuplicateEngine) buildReport(lib *models.Library) *models.Report {
	meta := make(map[string][]models.Track)
	loc := make(map[string][]models.Track)

	for _, t := range lib.Tracks {
		if key := MetadataKey(t, e.opts.FoldDiacritics); key != "" {
			meta[key] = append(meta[key], t)
		}
		if key := LocationKey(t); key != "" {
			loc[key] = append(loc[key], t)
		}
	}

	return &models.Report{
		LibraryPath:    lib.Path,
		TrackCount:     len(lib.Tracks),
		SkippedCount:   lib.Skipped,
		MetadataGroups: collectGroups(models.KeyMetadata, meta),
		LocationGroups: collectGroups(models.KeyLocation, loc),
	}
}

// collectGroups keeps buckets with at least two members, orders members by
// track ID and groups by key.
func collectGroups(kind models.KeyKind, buckets map[string][]models.Track) []models.DuplicateGroup {
	groups := make([]models.DuplicateGroup, 0, len(buckets))
	for key, members := range buckets {
		if len(members) < 2 {
			continue
		}

		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

		summaries := make([]models.TrackSummary, 0, len(members))
		for _, t := range members {
			summaries = append(summaries, t.Summary())
		}

		groups = append(groups, models.DuplicateGroup{
			Kind:   kind,
			Key:    key,
			Tracks: summaries,
		})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}
