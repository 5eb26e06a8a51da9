package models

import "fmt"

// Track represents one catalog entry from the library export.
//
// Fields mirror the export's per-track dictionary keys; a zero value means
// the key was absent. Tracks are immutable once loaded.
type Track struct {
	ID           int    // Track ID as given in the export
	Title        string // Name
	Artist       string
	Album        string
	TotalTimeMS  int    // Total Time, in milliseconds
	Location     string // file location as written in the export (file:// URI or path)
	SizeBytes    int64  // Size, in bytes
	BitRate      int    // Bit Rate, in kbps
	SampleRate   int    // Sample Rate, in Hz
	PlayCount    int
	Rating       int    // 0-100
	PersistentID string
	DateAdded    string
}

// DurationSeconds returns the track duration rounded to the nearest whole second.
func (t Track) DurationSeconds() int {
	return (t.TotalTimeMS + 500) / 1000
}

// Display returns a one-line human-readable description of the track.
func (t Track) Display() string {
	s := fmt.Sprintf("%s - %s", t.Artist, t.Title)
	if t.Album != "" {
		s += fmt.Sprintf(" (%s)", t.Album)
	}
	return s
}

// Summary projects the track into the compact form embedded in reports.
func (t Track) Summary() TrackSummary {
	return TrackSummary{
		ID:       t.ID,
		Title:    t.Title,
		Artist:   t.Artist,
		Album:    t.Album,
		Seconds:  t.DurationSeconds(),
		Location: t.Location,
	}
}

// Library represents a fully loaded export.
type Library struct {
	Path    string  // path the export was loaded from
	Tracks  []Track // catalog entries in export order
	Skipped int     // malformed entries dropped during load
}

// Index returns a lookup table from track ID to track.
func (l *Library) Index() map[int]Track {
	idx := make(map[int]Track, len(l.Tracks))
	for _, t := range l.Tracks {
		idx[t.ID] = t
	}
	return idx
}
