// package allowlist persists duplicate groups a reviewer has approved.
//
// An allowlisted group is a set of track IDs the user has looked at and
// decided to keep; evaluation excludes it from KEEP/REMOVE verdicts.
// Membership is by exact sorted-ID-set equality within a key kind.
package allowlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/desertthunder/dupx/internal/models"
)

// FileName is the allowlist file name under the output directory.
const FileName = "allowlist.json"

// Entry is one approved duplicate group.
type Entry struct {
	Kind     models.KeyKind `json:"kind"`
	TrackIDs []int          `json:"track_ids"` // always sorted ascending
}

// File is the persisted allowlist.
type File struct {
	Entries []Entry `json:"entries"`
}

// Load reads the allowlist at path. A missing file yields an empty allowlist.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read allowlist: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal allowlist: %w", err)
	}
	return &f, nil
}

// Save writes the allowlist atomically by writing a temp file and renaming it.
func Save(path string, f *File) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create allowlist directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal allowlist: %w", err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp allowlist: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to atomically save allowlist: %w", err)
	}

	return nil
}

// Add records a group as approved. Returns false when an equal entry
// already exists.
func (f *File) Add(kind models.KeyKind, trackIDs []int) bool {
	ids := normalizeIDs(trackIDs)
	if len(ids) == 0 {
		return false
	}
	if f.Contains(kind, ids) {
		return false
	}
	f.Entries = append(f.Entries, Entry{Kind: kind, TrackIDs: ids})
	return true
}

// Remove drops the entry at index. Returns false when index is out of range.
func (f *File) Remove(index int) bool {
	if index < 0 || index >= len(f.Entries) {
		return false
	}
	f.Entries = append(f.Entries[:index], f.Entries[index+1:]...)
	return true
}

// Contains reports whether a group with the same kind and ID set is approved.
func (f *File) Contains(kind models.KeyKind, trackIDs []int) bool {
	ids := normalizeIDs(trackIDs)
	for _, e := range f.Entries {
		if e.Kind != kind {
			continue
		}
		if equalIDs(e.TrackIDs, ids) {
			return true
		}
	}
	return false
}

// Len returns the number of approved groups.
func (f *File) Len() int {
	return len(f.Entries)
}

// normalizeIDs copies and sorts the IDs so set comparisons are stable.
func normalizeIDs(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	sort.Ints(out)
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
