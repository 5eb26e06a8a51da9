// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/dupx/internal/models"
)

// MockLibrary is a test double for the library loader service.
type MockLibrary struct {
	Lib *models.Library
	Err error
}

func (m *MockLibrary) Load(ctx context.Context, path string) (*models.Library, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Lib != nil {
		return m.Lib, nil
	}
	return &models.Library{Path: path}, nil
}

func (m *MockLibrary) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// LibraryTrack describes one catalog entry for [LibraryXML].
// Zero-valued fields are omitted from the rendered entry.
type LibraryTrack struct {
	ID          int
	Title       string
	Artist      string
	Album       string
	TotalTimeMS int
	Location    string
	SizeBytes   int64
	BitRate     int
	SampleRate  int
	PlayCount   int
	Rating      int
}

// LibraryXML renders a minimal Apple-style library export containing the
// given tracks, in order.
func LibraryXML(tracks ...LibraryTrack) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	b.WriteString("<plist version=\"1.0\">\n<dict>\n")
	b.WriteString("\t<key>Major Version</key><integer>1</integer>\n")
	b.WriteString("\t<key>Tracks</key>\n\t<dict>\n")

	for _, tr := range tracks {
		fmt.Fprintf(&b, "\t\t<key>%d</key>\n\t\t<dict>\n", tr.ID)
		fmt.Fprintf(&b, "\t\t\t<key>Track ID</key><integer>%d</integer>\n", tr.ID)
		writeEntry(&b, "Name", tr.Title)
		writeEntry(&b, "Artist", tr.Artist)
		writeEntry(&b, "Album", tr.Album)
		if tr.TotalTimeMS != 0 {
			fmt.Fprintf(&b, "\t\t\t<key>Total Time</key><integer>%d</integer>\n", tr.TotalTimeMS)
		}
		if tr.SizeBytes != 0 {
			fmt.Fprintf(&b, "\t\t\t<key>Size</key><integer>%d</integer>\n", tr.SizeBytes)
		}
		if tr.BitRate != 0 {
			fmt.Fprintf(&b, "\t\t\t<key>Bit Rate</key><integer>%d</integer>\n", tr.BitRate)
		}
		if tr.SampleRate != 0 {
			fmt.Fprintf(&b, "\t\t\t<key>Sample Rate</key><integer>%d</integer>\n", tr.SampleRate)
		}
		if tr.PlayCount != 0 {
			fmt.Fprintf(&b, "\t\t\t<key>Play Count</key><integer>%d</integer>\n", tr.PlayCount)
		}
		if tr.Rating != 0 {
			fmt.Fprintf(&b, "\t\t\t<key>Rating</key><integer>%d</integer>\n", tr.Rating)
		}
		writeEntry(&b, "Location", tr.Location)
		b.WriteString("\t\t</dict>\n")
	}

	b.WriteString("\t</dict>\n</dict>\n</plist>\n")
	return b.String()
}

func writeEntry(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "\t\t\t<key>%s</key><string>%s</string>\n", key, escapeXML(value))
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// MustWriteLibraryXML writes a rendered library export under dir and
// returns its path.
func MustWriteLibraryXML(t *testing.T, dir string, tracks ...LibraryTrack) string {
	t.Helper()
	path := filepath.Join(dir, "Library.xml")
	if err := os.WriteFile(path, []byte(LibraryXML(tracks...)), 0644); err != nil {
		t.Fatalf("Failed to write library fixture: %v", err)
	}
	return path
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
