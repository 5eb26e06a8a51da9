package tasks

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/desertthunder/dupx/internal/library"
	"github.com/desertthunder/dupx/internal/models"
)

// NormalizeField prepares a metadata field for exact-match grouping:
// lowercase, leading/trailing whitespace trimmed, internal runs of
// whitespace collapsed to a single space. With fold set, accented
// characters reduce to their base letters so "Beyoncé" and "Beyonce"
// group together.
func NormalizeField(s string, fold bool) string {
	s = strings.ToLower(s)
	if fold {
		s = foldDiacritics(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

func foldDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case 'ë', 'ê', 'è', 'é', 'ē', 'ė':
			b.WriteRune('e')
		case 'ï', 'î', 'ì', 'í', 'ī':
			b.WriteRune('i')
		case 'ö', 'ô', 'ò', 'ó', 'ō', 'ø':
			b.WriteRune('o')
		case 'ü', 'û', 'ù', 'ú', 'ū':
			b.WriteRune('u')
		case 'ä', 'â', 'à', 'á', 'ā', 'å':
			b.WriteRune('a')
		case 'ñ':
			b.WriteRune('n')
		case 'ß':
			b.WriteString("ss")
		case 'œ':
			b.WriteString("oe")
		case 'æ':
			b.WriteString("ae")
		default:
			if !unicode.Is(unicode.Mn, r) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// MetadataKey derives the exact-match identity key for a track from its
// normalized title, artist, album and duration rounded to whole seconds.
// Tracks with an empty normalized title carry no usable identity and get
// no key.
func MetadataKey(t models.Track, fold bool) string {
	title := NormalizeField(t.Title, fold)
	if title == "" {
		return ""
	}
	artist := NormalizeField(t.Artist, fold)
	album := NormalizeField(t.Album, fold)
	return fmt.Sprintf("%s|%s|%s|%d", title, artist, album, t.DurationSeconds())
}

// LocationKey derives the storage identity key for a track: its location
// decoded from URI form and reduced to a canonical path. Tracks without a
// location get no key.
func LocationKey(t models.Track) string {
	if t.Location == "" {
		return ""
	}
	return library.CanonicalPath(t.Location)
}

var (
	parenPattern   = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	bracketPattern = regexp.MustCompile(`\s*\[[^]]*\]\s*`)
)

// identityString renders the comparison form used for fuzzy matching: title
// and artist normalized, with parenthetical qualifiers, featuring credits and
// separator punctuation smoothed out so near-identical spellings line up.
func identityString(t models.Track, fold bool) string {
	title := parenPattern.ReplaceAllString(strings.ToLower(t.Title), " ")
	title = bracketPattern.ReplaceAllString(title, " ")

	s := title + " " + strings.ToLower(t.Artist)
	if fold {
		s = foldDiacritics(s)
	}
	for _, pat := range []string{"feat.", "feat ", "ft.", "ft ", "featuring "} {
		s = strings.ReplaceAll(s, pat, " ")
	}
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, " - ", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
