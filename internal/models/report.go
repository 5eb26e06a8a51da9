package models

// KeyKind identifies which derived key produced a duplicate group.
type KeyKind string

const (
	KeyMetadata KeyKind = "metadata" // normalized (title, artist, album, duration) tuple
	KeyLocation KeyKind = "location" // canonicalized absolute file path
)

// TrackSummary is the compact track projection embedded in reports.
type TrackSummary struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Seconds  int    `json:"seconds"`
	Location string `json:"location,omitempty"`
}

// DuplicateGroup is a set of catalog entries sharing a derived key.
//
// Invariant: every group has at least two members, all members share the
// group key exactly, and members are sorted by track ID.
type DuplicateGroup struct {
	Kind   KeyKind        `json:"kind"`
	Key    string         `json:"key"`
	Tracks []TrackSummary `json:"tracks"`
}

// TrackIDs returns the member track IDs in group order.
func (g DuplicateGroup) TrackIDs() []int {
	ids := make([]int, len(g.Tracks))
	for i, t := range g.Tracks {
		ids[i] = t.ID
	}
	return ids
}

// Report holds the grouped duplicates for one scan.
//
// Reports contain no timestamps or run identifiers: rerunning a scan on
// unchanged input must produce byte-identical output.
type Report struct {
	LibraryPath    string           `json:"library_path"`
	TrackCount     int              `json:"track_count"`
	SkippedCount   int              `json:"skipped_count"`
	MetadataGroups []DuplicateGroup `json:"metadata_groups"`
	LocationGroups []DuplicateGroup `json:"location_groups"`
}

// Groups returns all groups, metadata first, preserving report order.
func (r *Report) Groups() []DuplicateGroup {
	groups := make([]DuplicateGroup, 0, len(r.MetadataGroups)+len(r.LocationGroups))
	groups = append(groups, r.MetadataGroups...)
	groups = append(groups, r.LocationGroups...)
	return groups
}

// GroupCount returns the total number of groups across both key kinds.
func (r *Report) GroupCount() int {
	return len(r.MetadataGroups) + len(r.LocationGroups)
}

// ScoredTrack is one group member with its quality score and verdict.
type ScoredTrack struct {
	Track  TrackSummary `json:"track"`
	Exists bool         `json:"exists"`
	Score  float64      `json:"score"`
	Keep   bool         `json:"keep"`
	Reason string       `json:"reason"`
}

// EvaluatedGroup is a duplicate group with members scored and ordered
// best-first.
type EvaluatedGroup struct {
	Kind   KeyKind       `json:"kind"`
	Key    string        `json:"key"`
	Tracks []ScoredTrack `json:"tracks"`
}

// Evaluation holds the quality evaluation derived from a report.
type Evaluation struct {
	ReportPath  string           `json:"report_path"`
	LibraryPath string           `json:"library_path"`
	GroupCount  int              `json:"group_count"`
	Allowlisted int              `json:"allowlisted"`
	KeepCount   int              `json:"keep_count"`
	RemoveCount int              `json:"remove_count"`
	Groups      []EvaluatedGroup `json:"groups"`
}

// SimilarPair is an advisory near-duplicate match between two tracks whose
// exact keys differ.
type SimilarPair struct {
	A     TrackSummary `json:"a"`
	B     TrackSummary `json:"b"`
	Score float64      `json:"score"`
}
