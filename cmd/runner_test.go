package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/dupx/internal/allowlist"
	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
	tu "github.com/desertthunder/dupx/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			lib := &tu.MockLibrary{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "config.toml",
				Library:    lib,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.library != lib {
				t.Error("expected library service to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil library uses plist loader", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Library: nil,
			})

			if runner.library == nil {
				t.Error("expected default library loader to be set")
			}
			if runner.library.Name() != "Apple Music XML" {
				t.Errorf("expected plist loader, got %s", runner.library.Name())
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("writes plain text without formatting", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("simple text")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "simple text" {
				t.Errorf("expected 'simple text', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("allowlistPath", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Output.Dir = filepath.Join("some", "out")
		runner := NewRunner(RunnerOpts{Config: config})

		want := filepath.Join("some", "out", allowlist.FileName)
		if got := runner.allowlistPath(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("ensureDatabase", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = ":memory:"
		config.Database.MaxOpenConns = 1
		config.Database.MaxIdleConns = 1

		runner := NewRunner(RunnerOpts{Config: config})
		defer runner.Close()

		if err := runner.ensureDatabase(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.scans == nil || runner.caches == nil {
			t.Error("expected repositories to be wired")
		}

		db := runner.db
		if err := runner.ensureDatabase(); err != nil {
			t.Fatalf("expected no error on second call, got %v", err)
		}
		if runner.db != db {
			t.Error("expected database handle to be reused")
		}
	})
}

func TestRenderReport(t *testing.T) {
	report := &models.Report{
		LibraryPath: "/music/Library.xml",
		TrackCount:  2,
		MetadataGroups: []models.DuplicateGroup{
			{
				Kind: models.KeyMetadata,
				Key:  "song a|x|y|180",
				Tracks: []models.TrackSummary{
					{ID: 101, Title: "Song A", Artist: "X", Seconds: 180},
					{ID: 205, Title: "Song A", Artist: "X", Seconds: 180},
				},
			},
		},
	}

	for _, format := range []string{"text", "json", "csv", "markdown", "html"} {
		data, err := renderReport(report, format)
		if err != nil {
			t.Fatalf("renderReport(%s) returned error: %v", format, err)
		}
		if len(data) == 0 {
			t.Errorf("renderReport(%s) returned no data", format)
		}
	}

	t.Run("unknown format falls back to text", func(t *testing.T) {
		data, err := renderReport(report, "bogus")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), "Duplicate Report") {
			t.Errorf("expected text rendering, got %q", string(data))
		}
	})
}

func TestParseTrackIDs(t *testing.T) {
	t.Run("parses comma-separated IDs", func(t *testing.T) {
		ids, err := parseTrackIDs("101, 205,310")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []int{101, 205, 310}
		if len(ids) != len(want) {
			t.Fatalf("expected %d IDs, got %d", len(want), len(ids))
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("expected %d at %d, got %d", want[i], i, ids[i])
			}
		}
	})

	t.Run("rejects non-numeric IDs", func(t *testing.T) {
		if _, err := parseTrackIDs("101,abc"); err == nil {
			t.Error("expected error for non-numeric ID")
		}
	})

	t.Run("rejects fewer than two IDs", func(t *testing.T) {
		if _, err := parseTrackIDs("101"); err == nil {
			t.Error("expected error for a single ID")
		}
		if _, err := parseTrackIDs(""); err == nil {
			t.Error("expected error for no IDs")
		}
	})
}

func TestSplitGroups(t *testing.T) {
	groups := []models.DuplicateGroup{
		{Kind: models.KeyMetadata, Key: "a"},
		{Kind: models.KeyLocation, Key: "/x"},
		{Kind: models.KeyMetadata, Key: "b"},
	}

	meta, loc := splitGroups(groups)

	if len(meta) != 2 || len(loc) != 1 {
		t.Fatalf("expected 2 metadata and 1 location group, got %d and %d", len(meta), len(loc))
	}
	if meta[0].Key != "a" || meta[1].Key != "b" {
		t.Error("expected metadata groups in stored order")
	}
	if loc[0].Key != "/x" {
		t.Errorf("expected location group /x, got %s", loc[0].Key)
	}
}
