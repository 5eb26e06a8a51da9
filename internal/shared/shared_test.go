package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{
			name:   "basic normalization",
			title:  "Song Title",
			artist: "Artist Name",
			want:   "song title|artist name",
		},
		{
			name:   "extra whitespace",
			title:  "  Song   Title  ",
			artist: "  Artist   Name  ",
			want:   "song title|artist name",
		},
		{
			name:   "mixed case",
			title:  "SoNg TiTlE",
			artist: "ArTiSt NaMe",
			want:   "song title|artist name",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTrackKey(tt.title, tt.artist)
			if got != tt.want {
				t.Errorf("normalizeTrackKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "0:00"},
		{name: "under a minute", seconds: 45, want: "0:45"},
		{name: "exact minute", seconds: 60, want: "1:00"},
		{name: "minutes and seconds", seconds: 215, want: "3:35"},
		{name: "over an hour", seconds: 3725, want: "62:05"},
		{name: "negative clamps to zero", seconds: -30, want: "0:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestVerifyAndReadFile(t *testing.T) {
	t.Run("reads existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "library.xml")
		if err := os.WriteFile(path, []byte("<plist/>"), 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		data, err := VerifyAndReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		if string(data) != "<plist/>" {
			t.Errorf("expected file contents <plist/>, got %s", data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := VerifyAndReadFile(filepath.Join(t.TempDir(), "missing.xml"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := VerifyAndReadFile(t.TempDir())
		if err == nil {
			t.Fatal("expected error for directory")
		}
	})
}

func TestValidateJSON(t *testing.T) {
	if err := ValidateJSON([]byte(`{"tracks": []}`)); err != nil {
		t.Errorf("expected valid JSON to pass, got %v", err)
	}

	if err := ValidateJSON([]byte(`{"tracks": [`)); err == nil {
		t.Error("expected truncated JSON to fail")
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"count": 3}

	compact, err := MarshalJSON(v, false)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(compact) != `{"count":3}` {
		t.Errorf("unexpected compact output: %s", compact)
	}

	pretty, err := MarshalJSON(v, true)
	if err != nil {
		t.Fatalf("failed to marshal pretty: %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Errorf("expected indented output, got %s", pretty)
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}

	if a == b {
		t.Errorf("expected unique IDs, got %s twice", a)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dupx.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}

	logger.Info("scan started", "tracks", 10)

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file should exist: %v", err)
	}
}
