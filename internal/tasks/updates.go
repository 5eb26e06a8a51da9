package tasks

import (
	"fmt"

	"github.com/desertthunder/dupx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadLibrary Phase = iota
	BuildKeys
	GroupTracks
	ProbeFiles
	ScoreGroups
	CompareTracks
	WriteReport
)

func (p Phase) String() string {
	switch p {
	case LoadLibrary:
		return "load_library"
	case BuildKeys:
		return "build_keys"
	case GroupTracks:
		return "group_tracks"
	case ProbeFiles:
		return "probe_files"
	case ScoreGroups:
		return "score_groups"
	case CompareTracks:
		return "compare_tracks"
	case WriteReport:
		return "write_report"
	default:
		return ""
	}
}

func loadingLibraryUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loading library from %s...", path),
	}
}

func libraryLoadedUpdate(lib *models.Library) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d tracks (%d skipped)", len(lib.Tracks), lib.Skipped),
		Data:    lib,
	}
}

func cachedLibraryUpdate(lib *models.Library) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d tracks from cache", len(lib.Tracks)),
		Data:    lib,
	}
}

func buildKeysUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildKeys,
		Step:    0,
		Total:   total,
		Message: "Deriving grouping keys...",
	}
}

func groupsFoundUpdate(kind models.KeyKind, count, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GroupTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found %d %s group(s)", count, kind),
	}
}

func probeFilesUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProbeFiles,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Probing %d track file(s)...", total),
	}
}

func probeFileUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProbeFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, path),
	}
}

func scoringUpdate(groups int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScoreGroups,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Scoring %d group(s)...", groups),
	}
}

func comparingTracksUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CompareTracks,
		Step:    step,
		Total:   total,
		Message: "Comparing track identities...",
	}
}

func similarFoundUpdate(pair models.SimilarPair) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CompareTracks,
		Step:    0,
		Total:   0,
		Message: fmt.Sprintf("%s ~ %s (%.2f)", pair.A.Title, pair.B.Title, pair.Score),
		Data:    pair,
	}
}
