package tasks

import (
	"testing"

	"github.com/desertthunder/dupx/internal/models"
)

func TestNormalizeField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		fold  bool
		want  string
	}{
		{name: "lowercases", input: "Song A", want: "song a"},
		{name: "trims and collapses whitespace", input: "  Song \t A  ", want: "song a"},
		{name: "empty stays empty", input: "", want: ""},
		{name: "whitespace only collapses to empty", input: "   \t ", want: ""},
		{name: "accents preserved by default", input: "Tiësto", want: "tiësto"},
		{name: "accents fold on request", input: "Tiësto", fold: true, want: "tiesto"},
		{name: "eszett expands", input: "Straße", fold: true, want: "strasse"},
		{name: "ligatures expand", input: "Encyclopædia", fold: true, want: "encyclopaedia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeField(tt.input, tt.fold); got != tt.want {
				t.Errorf("NormalizeField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMetadataKey(t *testing.T) {
	track := models.Track{
		Title:       " Song  A ",
		Artist:      "The ARTIST",
		Album:       "Greatest Hits",
		TotalTimeMS: 180400,
	}

	want := "song a|the artist|greatest hits|180"
	if got := MetadataKey(track, false); got != want {
		t.Errorf("MetadataKey() = %q, want %q", got, want)
	}

	if got := MetadataKey(models.Track{Artist: "X", TotalTimeMS: 1000}, false); got != "" {
		t.Errorf("MetadataKey() for untitled track = %q, want empty", got)
	}
}

func TestLocationKey(t *testing.T) {
	tests := []struct {
		name  string
		track models.Track
		want  string
	}{
		{
			name:  "uri form decodes",
			track: models.Track{Location: "file://localhost/Users/a/Music/Song%20A.m4a"},
			want:  "/Users/a/Music/Song A.m4a",
		},
		{
			name:  "plain path cleans",
			track: models.Track{Location: "/Users/a/Music/../Music/Song A.m4a"},
			want:  "/Users/a/Music/Song A.m4a",
		},
		{
			name:  "missing location yields no key",
			track: models.Track{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocationKey(tt.track); got != tt.want {
				t.Errorf("LocationKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
