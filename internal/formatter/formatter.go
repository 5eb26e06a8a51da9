// package formatter renders duplicate reports and evaluations to various formats (text, JSON, CSV, Markdown, HTML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
)

// Renderers write nothing run-specific: no timestamps, no run IDs. Rendering
// the same report twice yields identical bytes.

// ReadReport loads a JSON report export from path.
func ReadReport(path string) (*models.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no report at %s, run a scan first", shared.ErrReportNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrFileRead, err)
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}

	return &report, nil
}

// FindReport locates the report to read under dir: the conventional
// report.json when present, otherwise the most recently modified
// duplicates*.json left by earlier exports. When neither exists the
// conventional path comes back so callers surface the usual
// "run a scan first" error.
func FindReport(dir string) string {
	conventional := filepath.Join(dir, DefaultReportName("json"))
	if _, err := os.Stat(conventional); err == nil {
		return conventional
	}

	matches, err := filepath.Glob(filepath.Join(dir, "duplicates*.json"))
	if err != nil || len(matches) == 0 {
		return conventional
	}

	newest := matches[0]
	var newestTime time.Time
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.ModTime().After(newestTime) {
			newest = match
			newestTime = info.ModTime()
		}
	}
	return newest
}

// ReadEvaluation loads a JSON evaluation export from path.
func ReadEvaluation(path string) (*models.Evaluation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no evaluation at %s, run evaluate first", shared.ErrReportNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrFileRead, err)
	}

	var eval models.Evaluation
	if err := json.Unmarshal(data, &eval); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation %s: %w", path, err)
	}

	return &eval, nil
}

// ReportToText converts a Report to the plain text form written by the scan command.
func ReportToText(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("Duplicate Report\n")
	buf.WriteString("================\n\n")
	buf.WriteString(fmt.Sprintf("Library: %s\n", report.LibraryPath))
	buf.WriteString(fmt.Sprintf("Tracks:  %d (%d skipped)\n", report.TrackCount, report.SkippedCount))
	buf.WriteString(fmt.Sprintf("Groups:  %d metadata, %d location\n\n", len(report.MetadataGroups), len(report.LocationGroups)))

	if report.GroupCount() == 0 {
		buf.WriteString("No duplicates found.\n")
		return buf.Bytes(), nil
	}

	writeTextSection(&buf, "Metadata duplicates", report.MetadataGroups, true)
	writeTextSection(&buf, "Location duplicates", report.LocationGroups, false)

	return buf.Bytes(), nil
}

// writeTextSection renders one key-kind section. Locations print per member
// only when they are not already the group key.
func writeTextSection(buf *bytes.Buffer, title string, groups []models.DuplicateGroup, showLocations bool) {
	buf.WriteString(fmt.Sprintf("%s\n", title))
	for range title {
		buf.WriteByte('-')
	}
	buf.WriteString("\n\n")

	if len(groups) == 0 {
		buf.WriteString("(none)\n\n")
		return
	}

	for _, group := range groups {
		buf.WriteString(fmt.Sprintf("[%s]\n", group.Key))
		for _, track := range group.Tracks {
			buf.WriteString(fmt.Sprintf("  %d. %s [%s]\n", track.ID, summaryDisplay(track), shared.FormatDuration(track.Seconds)))
			if showLocations && track.Location != "" {
				buf.WriteString(fmt.Sprintf("      %s\n", track.Location))
			}
		}
		buf.WriteString("\n")
	}
}

func summaryDisplay(t models.TrackSummary) string {
	s := fmt.Sprintf("%s - %s", t.Artist, t.Title)
	if t.Album != "" {
		s += fmt.Sprintf(" (%s)", t.Album)
	}
	return s
}

// ReportToJSON converts a Report to indented JSON.
func ReportToJSON(report *models.Report) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// ReportToCSV converts a Report to CSV with one row per group member.
//
// Columns: Kind, Key, TrackID, Title, Artist, Album, Seconds, Location
func ReportToCSV(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Kind", "Key", "TrackID", "Title", "Artist", "Album", "Seconds", "Location"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, group := range report.Groups() {
		for _, track := range group.Tracks {
			record := []string{
				string(group.Kind),
				group.Key,
				strconv.Itoa(track.ID),
				track.Title,
				track.Artist,
				track.Album,
				strconv.Itoa(track.Seconds),
				track.Location,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown converts a Report to Markdown format.
func ReportToMarkdown(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Duplicate Report\n\n")
	buf.WriteString(fmt.Sprintf("**Library**: %s\n", report.LibraryPath))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d (%d skipped)\n", report.TrackCount, report.SkippedCount))
	buf.WriteString(fmt.Sprintf("**Groups**: %d metadata, %d location\n\n", len(report.MetadataGroups), len(report.LocationGroups)))

	if report.GroupCount() == 0 {
		buf.WriteString("No duplicates found.\n")
		return buf.Bytes(), nil
	}

	writeMarkdownSection(&buf, "Metadata duplicates", report.MetadataGroups)
	writeMarkdownSection(&buf, "Location duplicates", report.LocationGroups)

	return buf.Bytes(), nil
}

func writeMarkdownSection(buf *bytes.Buffer, title string, groups []models.DuplicateGroup) {
	buf.WriteString(fmt.Sprintf("## %s\n\n", title))

	if len(groups) == 0 {
		buf.WriteString("_none_\n\n")
		return
	}

	for _, group := range groups {
		buf.WriteString(fmt.Sprintf("### `%s`\n\n", group.Key))
		for i, track := range group.Tracks {
			buf.WriteString(fmt.Sprintf("%d. %s [%s]", i+1, summaryDisplay(track), shared.FormatDuration(track.Seconds)))
			if track.Location != "" {
				buf.WriteString(fmt.Sprintf(" `%s`", track.Location))
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}
}

// DefaultReportName returns the conventional report filename for a format.
func DefaultReportName(format string) string {
	switch format {
	case "text":
		return "report.txt"
	case "csv":
		return "report.csv"
	case "markdown":
		return "report.md"
	case "html":
		return "report.html"
	default:
		return "report.json"
	}
}

// WriteReportExport renders a report in the requested format and writes it to path.
//
// Unrecognized formats fall back to JSON. An empty path defaults to the
// conventional filename for the format in the working directory.
func WriteReportExport(report *models.Report, format, path string) (string, error) {
	if path == "" {
		path = DefaultReportName(format)
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case "text":
		data, err = ReportToText(report)
	case "csv":
		data, err = ReportToCSV(report)
	case "markdown":
		data, err = ReportToMarkdown(report)
	case "html":
		data, err = RenderReportHTML(report)
	case "json":
		fallthrough
	default:
		data, err = ReportToJSON(report)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrExportFailed, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrExportFailed, err)
	}

	return path, nil
}

// EvaluationToJSON converts an Evaluation to indented JSON.
func EvaluationToJSON(eval *models.Evaluation) ([]byte, error) {
	return shared.MarshalJSON(eval, true)
}

// EvaluationToText converts an Evaluation to the plain text verdict listing.
func EvaluationToText(eval *models.Evaluation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("Duplicate Evaluation\n")
	buf.WriteString("====================\n\n")
	buf.WriteString(fmt.Sprintf("Library:     %s\n", eval.LibraryPath))
	buf.WriteString(fmt.Sprintf("Groups:      %d evaluated, %d allowlisted\n", eval.GroupCount, eval.Allowlisted))
	buf.WriteString(fmt.Sprintf("Verdicts:    %d keep, %d remove\n\n", eval.KeepCount, eval.RemoveCount))

	for _, group := range eval.Groups {
		buf.WriteString(fmt.Sprintf("[%s] %s\n", group.Kind, group.Key))
		for _, st := range group.Tracks {
			verdict := "REMOVE"
			if st.Keep {
				verdict = "KEEP  "
			}
			presence := "missing"
			if st.Exists {
				presence = "present"
			}
			buf.WriteString(fmt.Sprintf("  %s %d. %s (score %.0f, %s) %s\n",
				verdict, st.Track.ID, summaryDisplay(st.Track), st.Score, presence, st.Reason))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// WriteEvaluationExport renders an evaluation as JSON or text and writes it to path.
func WriteEvaluationExport(eval *models.Evaluation, format, path string) (string, error) {
	if path == "" {
		path = "evaluation.json"
		if format == "text" {
			path = "evaluation.txt"
		}
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case "text":
		data, err = EvaluationToText(eval)
	default:
		data, err = EvaluationToJSON(eval)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrExportFailed, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrExportFailed, err)
	}

	return path, nil
}
