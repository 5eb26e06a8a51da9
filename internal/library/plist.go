package library

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
)

// parse walks the property-list document and collects track entries.
//
// The decoder runs in strict mode with no custom entity map, so undeclared
// entities fail the parse instead of expanding. DOCTYPE directives carrying
// an internal subset are rejected outright before any track is read; the
// plain external-reference DOCTYPE that Apple exports carry is allowed
// because the decoder never fetches it.
func (s *PlistService) parse(ctx context.Context, r io.Reader) ([]models.Track, int, error) {
	d := xml.NewDecoder(r)

	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, 0, fmt.Errorf("%w: no plist element found", shared.ErrParseFailed)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
		}

		switch t := tok.(type) {
		case xml.Directive:
			if err := rejectUnsafeDirective(t); err != nil {
				return nil, 0, err
			}
		case xml.StartElement:
			if t.Name.Local != "plist" {
				return nil, 0, fmt.Errorf("%w: unexpected root element <%s>", shared.ErrParseFailed, t.Name.Local)
			}
			return s.parsePlist(ctx, d)
		}
	}
}

// rejectUnsafeDirective refuses DOCTYPE declarations that define entities.
func rejectUnsafeDirective(dir xml.Directive) error {
	text := string(dir)
	upper := strings.ToUpper(text)
	if !strings.HasPrefix(strings.TrimSpace(upper), "DOCTYPE") {
		return nil
	}
	if strings.Contains(text, "[") || strings.Contains(upper, "<!ENTITY") {
		return fmt.Errorf("%w: DOCTYPE with internal subset", shared.ErrUnsafeXML)
	}
	return nil
}

// parsePlist descends through the top-level dict looking for the Tracks section.
func (s *PlistService) parsePlist(ctx context.Context, d *xml.Decoder) ([]models.Track, int, error) {
	top, err := nextElement(d)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
	}
	if top == nil || top.Name.Local != "dict" {
		return nil, 0, fmt.Errorf("%w: plist has no top-level dict", shared.ErrParseFailed)
	}

	for {
		keyStart, err := nextElement(d)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
		}
		if keyStart == nil {
			// End of the top-level dict without a Tracks section.
			return nil, 0, fmt.Errorf("%w: library has no Tracks section", shared.ErrParseFailed)
		}
		if keyStart.Name.Local != "key" {
			if err := d.Skip(); err != nil {
				return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
			}
			continue
		}

		var name string
		if err := d.DecodeElement(&name, keyStart); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
		}

		valStart, err := nextElement(d)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
		}
		if valStart == nil {
			return nil, 0, fmt.Errorf("%w: dangling key %q", shared.ErrParseFailed, name)
		}

		if name == "Tracks" && valStart.Name.Local == "dict" {
			return s.parseTracks(ctx, d)
		}

		if err := d.Skip(); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
		}
	}
}

// parseTracks reads the per-track dict entries in document order.
//
// Entries that cannot be modeled (missing or unparsable Track ID, repeated
// IDs, non-dict values) are skipped with a warning; the rest of the run
// continues.
func (s *PlistService) parseTracks(ctx context.Context, d *xml.Decoder) ([]models.Track, int, error) {
	var tracks []models.Track
	skipped := 0
	seen := make(map[int]bool)

	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		keyStart, err := nextElement(d)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
		}
		if keyStart == nil {
			return tracks, skipped, nil
		}
		if keyStart.Name.Local != "key" {
			if err := d.Skip(); err != nil {
				return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
			}
			continue
		}

		var entryKey string
		if err := d.DecodeElement(&entryKey, keyStart); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
		}

		valStart, err := nextElement(d)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
		}
		if valStart == nil {
			return tracks, skipped, nil
		}

		if valStart.Name.Local != "dict" {
			s.logger.Warn("skipping malformed track entry", "key", entryKey, "reason", "value is not a dict")
			skipped++
			if err := d.Skip(); err != nil {
				return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
			}
			continue
		}

		track, problems, err := parseTrack(d)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
		}

		if track.ID == 0 {
			problems = append(problems, "missing Track ID")
		}
		if len(problems) > 0 {
			s.logger.Warn("skipping malformed track entry", "key", entryKey, "reason", strings.Join(problems, "; "))
			skipped++
			continue
		}
		if seen[track.ID] {
			s.logger.Warn("skipping malformed track entry", "key", entryKey, "reason", fmt.Sprintf("duplicate Track ID %d", track.ID))
			skipped++
			continue
		}

		seen[track.ID] = true
		tracks = append(tracks, track)
	}
}

// parseTrack reads one track dict. Field-level value problems are collected
// rather than failing the parse, so the caller can skip just this entry.
func parseTrack(d *xml.Decoder) (models.Track, []string, error) {
	var t models.Track
	var problems []string

	for {
		keyStart, err := nextElement(d)
		if err != nil {
			return t, nil, err
		}
		if keyStart == nil {
			return t, problems, nil
		}
		if keyStart.Name.Local != "key" {
			if err := d.Skip(); err != nil {
				return t, nil, err
			}
			continue
		}

		var field string
		if err := d.DecodeElement(&field, keyStart); err != nil {
			return t, nil, err
		}

		valStart, err := nextElement(d)
		if err != nil {
			return t, nil, err
		}
		if valStart == nil {
			return t, problems, nil
		}

		switch field {
		case "Track ID":
			t.ID = decodeInt(d, valStart, field, &problems)
		case "Name":
			t.Title, err = decodeString(d, valStart)
		case "Artist":
			t.Artist, err = decodeString(d, valStart)
		case "Album":
			t.Album, err = decodeString(d, valStart)
		case "Total Time":
			t.TotalTimeMS = decodeInt(d, valStart, field, &problems)
		case "Location":
			t.Location, err = decodeString(d, valStart)
		case "Size":
			t.SizeBytes = int64(decodeInt(d, valStart, field, &problems))
		case "Bit Rate":
			t.BitRate = decodeInt(d, valStart, field, &problems)
		case "Sample Rate":
			t.SampleRate = decodeInt(d, valStart, field, &problems)
		case "Play Count":
			t.PlayCount = decodeInt(d, valStart, field, &problems)
		case "Rating":
			t.Rating = decodeInt(d, valStart, field, &problems)
		case "Persistent ID":
			t.PersistentID, err = decodeString(d, valStart)
		case "Date Added":
			t.DateAdded, err = decodeString(d, valStart)
		default:
			err = d.Skip()
		}
		if err != nil {
			return t, nil, err
		}
	}
}

// decodeString reads the character data of a scalar element.
func decodeString(d *xml.Decoder, start *xml.StartElement) (string, error) {
	var s string
	if err := d.DecodeElement(&s, start); err != nil {
		return "", err
	}
	return s, nil
}

// decodeInt reads an integer element leniently: a value that is valid XML
// but not a valid number is recorded as a problem instead of failing the
// document parse.
func decodeInt(d *xml.Decoder, start *xml.StartElement, field string, problems *[]string) int {
	var s string
	if err := d.DecodeElement(&s, start); err != nil {
		*problems = append(*problems, fmt.Sprintf("unreadable %s", field))
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s is not a number", field))
		return 0
	}
	return n
}

// nextElement advances to the next start element within the current parent.
// Returns nil when the parent's end element is reached.
func nextElement(d *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return &t, nil
		case xml.EndElement:
			return nil, nil
		case xml.Directive:
			if err := rejectUnsafeDirective(t); err != nil {
				return nil, err
			}
		}
	}
}
