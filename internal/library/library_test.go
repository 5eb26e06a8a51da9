package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/dupx/internal/shared"
	tu "github.com/desertthunder/dupx/internal/testing"
)

func TestPlistServiceLoad(t *testing.T) {
	svc := NewPlistService(shared.NewLogger(os.Stderr))

	t.Run("loads well formed library", func(t *testing.T) {
		dir := t.TempDir()
		path := tu.MustWriteLibraryXML(t, dir,
			tu.LibraryTrack{ID: 101, Title: "Song A", Artist: "X", Album: "Y", TotalTimeMS: 180000, Location: "file://localhost/Users/a/Music/Song%20A.m4a", BitRate: 256, PlayCount: 3},
			tu.LibraryTrack{ID: 102, Title: "Song B", Artist: "X", Album: "Y", TotalTimeMS: 200000, Location: "file://localhost/Users/a/Music/Song%20B.m4a"},
			tu.LibraryTrack{ID: 103, Title: "Tell Me & More", Artist: "Z", TotalTimeMS: 95000},
		)

		lib, err := svc.Load(context.Background(), path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if len(lib.Tracks) != 3 {
			t.Fatalf("Load() track count = %d, want 3", len(lib.Tracks))
		}
		if lib.Skipped != 0 {
			t.Errorf("Load() skipped = %d, want 0", lib.Skipped)
		}
		if lib.Path != path {
			t.Errorf("Load() path = %s, want %s", lib.Path, path)
		}

		first := lib.Tracks[0]
		if first.ID != 101 || first.Title != "Song A" || first.Artist != "X" {
			t.Errorf("first track = %+v, want ID 101 / Song A / X", first)
		}
		if first.TotalTimeMS != 180000 || first.DurationSeconds() != 180 {
			t.Errorf("first track duration = %dms (%ds), want 180000ms (180s)", first.TotalTimeMS, first.DurationSeconds())
		}
		if first.BitRate != 256 || first.PlayCount != 3 {
			t.Errorf("first track bit rate/play count = %d/%d, want 256/3", first.BitRate, first.PlayCount)
		}

		// XML entity in the title should come through decoded
		if lib.Tracks[2].Title != "Tell Me & More" {
			t.Errorf("third track title = %q, want %q", lib.Tracks[2].Title, "Tell Me & More")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := svc.Load(context.Background(), filepath.Join(t.TempDir(), "nope.xml"))
		if !errors.Is(err, shared.ErrLibraryNotFound) {
			t.Errorf("Load() error = %v, want ErrLibraryNotFound", err)
		}
	})

	t.Run("directory instead of file", func(t *testing.T) {
		_, err := svc.Load(context.Background(), t.TempDir())
		if !errors.Is(err, shared.ErrLibraryNotFound) {
			t.Errorf("Load() error = %v, want ErrLibraryNotFound", err)
		}
	})

	t.Run("malformed document", func(t *testing.T) {
		path := writeFixture(t, `<?xml version="1.0"?><plist><dict><key>Tracks`)
		_, err := svc.Load(context.Background(), path)
		if !errors.Is(err, shared.ErrParseFailed) {
			t.Errorf("Load() error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("document without tracks section", func(t *testing.T) {
		path := writeFixture(t, `<?xml version="1.0"?><plist version="1.0"><dict><key>Major Version</key><integer>1</integer></dict></plist>`)
		_, err := svc.Load(context.Background(), path)
		if !errors.Is(err, shared.ErrParseFailed) {
			t.Errorf("Load() error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("rejects inline entity declarations", func(t *testing.T) {
		doc := `<?xml version="1.0"?>
<!DOCTYPE plist [
  <!ENTITY a "aaaaaaaaaa">
  <!ENTITY b "&a;&a;&a;&a;&a;&a;&a;&a;&a;&a;">
]>
<plist version="1.0"><dict><key>Tracks</key><dict></dict></dict></plist>`
		path := writeFixture(t, doc)
		_, err := svc.Load(context.Background(), path)
		if !errors.Is(err, shared.ErrUnsafeXML) {
			t.Errorf("Load() error = %v, want ErrUnsafeXML", err)
		}
	})

	t.Run("undeclared entity fails parse", func(t *testing.T) {
		doc := `<?xml version="1.0"?>
<plist version="1.0"><dict><key>Tracks</key><dict>
<key>1</key><dict><key>Track ID</key><integer>1</integer><key>Name</key><string>&bomb;</string></dict>
</dict></dict></plist>`
		path := writeFixture(t, doc)
		_, err := svc.Load(context.Background(), path)
		if !errors.Is(err, shared.ErrParseFailed) {
			t.Errorf("Load() error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("skips malformed entries", func(t *testing.T) {
		doc := `<?xml version="1.0"?>
<plist version="1.0"><dict><key>Tracks</key><dict>
<key>1</key><dict><key>Track ID</key><integer>1</integer><key>Name</key><string>Good</string></dict>
<key>2</key><string>not a dict</string>
<key>3</key><dict><key>Name</key><string>No ID</string></dict>
<key>4</key><dict><key>Track ID</key><integer>oops</integer><key>Name</key><string>Bad ID</string></dict>
</dict></dict></plist>`
		path := writeFixture(t, doc)

		lib, err := svc.Load(context.Background(), path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(lib.Tracks) != 1 {
			t.Errorf("Load() track count = %d, want 1", len(lib.Tracks))
		}
		if lib.Skipped != 3 {
			t.Errorf("Load() skipped = %d, want 3", lib.Skipped)
		}
		if len(lib.Tracks) > 0 && lib.Tracks[0].Title != "Good" {
			t.Errorf("surviving track = %q, want %q", lib.Tracks[0].Title, "Good")
		}
	})

	t.Run("skips duplicate track ids", func(t *testing.T) {
		doc := `<?xml version="1.0"?>
<plist version="1.0"><dict><key>Tracks</key><dict>
<key>7</key><dict><key>Track ID</key><integer>7</integer><key>Name</key><string>First</string></dict>
<key>7b</key><dict><key>Track ID</key><integer>7</integer><key>Name</key><string>Second</string></dict>
</dict></dict></plist>`
		path := writeFixture(t, doc)

		lib, err := svc.Load(context.Background(), path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(lib.Tracks) != 1 || lib.Skipped != 1 {
			t.Fatalf("Load() tracks/skipped = %d/%d, want 1/1", len(lib.Tracks), lib.Skipped)
		}
		if lib.Tracks[0].Title != "First" {
			t.Errorf("kept track = %q, want the first occurrence", lib.Tracks[0].Title)
		}
	})

	t.Run("cancelled context stops load", func(t *testing.T) {
		dir := t.TempDir()
		path := tu.MustWriteLibraryXML(t, dir, tu.LibraryTrack{ID: 1, Title: "A"})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := svc.Load(ctx, path); !errors.Is(err, context.Canceled) {
			t.Errorf("Load() error = %v, want context.Canceled", err)
		}
	})
}

func TestDecodeLocation(t *testing.T) {
	tests := []struct {
		name string
		loc  string
		want string
	}{
		{
			name: "file URI with localhost",
			loc:  "file://localhost/Users/a/Music/Song%20A.m4a",
			want: "/Users/a/Music/Song A.m4a",
		},
		{
			name: "file URI without host",
			loc:  "file:///Users/a/Music/Caf%C3%A9.mp3",
			want: "/Users/a/Music/Café.mp3",
		},
		{
			name: "windows drive path",
			loc:  "file://localhost/C:/Music/Song.mp3",
			want: "C:/Music/Song.mp3",
		},
		{
			name: "plain path passes through",
			loc:  "/Users/a/Music/Song.mp3",
			want: "/Users/a/Music/Song.mp3",
		},
		{
			name: "empty",
			loc:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeLocation(tt.loc); got != tt.want {
				t.Errorf("DecodeLocation(%q) = %q, want %q", tt.loc, got, tt.want)
			}
		})
	}
}

func TestCanonicalPath(t *testing.T) {
	tests := []struct {
		name string
		loc  string
		want string
	}{
		{
			name: "redundant segments collapse",
			loc:  "file:///Users/a/Music/../Music/Song.mp3",
			want: "/Users/a/Music/Song.mp3",
		},
		{
			name: "trailing slash dropped",
			loc:  "/Users/a/Music/Song.mp3/",
			want: "/Users/a/Music/Song.mp3",
		},
		{
			name: "same file through different URIs",
			loc:  "file://localhost/Users/a/Music/Song%20A.m4a",
			want: "/Users/a/Music/Song A.m4a",
		},
		{
			name: "empty location stays empty",
			loc:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalPath(tt.loc); got != tt.want {
				t.Errorf("CanonicalPath(%q) = %q, want %q", tt.loc, got, tt.want)
			}
		})
	}
}

func writeFixture(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Library.xml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// Compile-time check that the mock double stays usable as a Service.
var _ Service = (*tu.MockLibrary)(nil)
var _ Service = (*PlistService)(nil)
