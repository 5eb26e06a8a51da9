package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
)

var (
	_ list.Item = groupItem{}
	_ list.Item = memberItem{}
)

// groupItem wraps [models.DuplicateGroup] to implement [list.Item].
//
// index is the group's position in the report, stable across list redraws.
type groupItem struct {
	index  int
	group  models.DuplicateGroup
	marked bool
}

func (i groupItem) FilterValue() string { return i.group.Key }
func (i groupItem) Title() string {
	title := fmt.Sprintf("[%s] %s", i.group.Kind, i.group.Key)
	if i.marked {
		title = fmt.Sprintf("✓ %s", title)
	}
	return title
}
func (i groupItem) Description() string {
	desc := fmt.Sprintf("%d tracks", len(i.group.Tracks))
	if i.marked {
		desc = fmt.Sprintf("%s • allowlisted", desc)
	}
	return desc
}

// memberItem wraps [models.TrackSummary] to implement [list.Item].
type memberItem struct {
	track models.TrackSummary
}

func (i memberItem) FilterValue() string { return i.track.Title }
func (i memberItem) Title() string {
	return fmt.Sprintf("%d. %s - %s", i.track.ID, i.track.Artist, i.track.Title)
}
func (i memberItem) Description() string {
	desc := shared.FormatDuration(i.track.Seconds)
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	if i.track.Location != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Location)
	}
	return desc
}
