package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Library.Path != "./data/Library.xml" {
			t.Errorf("expected library path ./data/Library.xml, got %s", config.Library.Path)
		}

		if config.Library.DataDir != "./data" {
			t.Errorf("expected data dir ./data, got %s", config.Library.DataDir)
		}

		if config.Output.Dir != "./output" {
			t.Errorf("expected output dir ./output, got %s", config.Output.Dir)
		}

		if config.Output.Format != "text" {
			t.Errorf("expected format text, got %s", config.Output.Format)
		}

		if !config.Scan.FoldDiacritics {
			t.Error("expected diacritic folding enabled by default")
		}

		if config.Scan.FuzzyThreshold != 0.9 {
			t.Errorf("expected fuzzy threshold 0.9, got %v", config.Scan.FuzzyThreshold)
		}

		if config.Scan.ProbeWorkers != 4 {
			t.Errorf("expected 4 probe workers, got %d", config.Scan.ProbeWorkers)
		}

		if config.Scan.ProbeRate != 0 {
			t.Errorf("expected unthrottled probes by default, got %d", config.Scan.ProbeRate)
		}

		if config.Database.Path != "./dupx.db" {
			t.Errorf("expected database path ./dupx.db, got %s", config.Database.Path)
		}

		if config.Database.MaxOpenConns != 10 {
			t.Errorf("expected 10 max open conns, got %d", config.Database.MaxOpenConns)
		}

		if config.Database.MaxIdleConns != 5 {
			t.Errorf("expected 5 max idle conns, got %d", config.Database.MaxIdleConns)
		}

		if config.Server.Host != "127.0.0.1" {
			t.Errorf("expected server host 127.0.0.1, got %s", config.Server.Host)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Library.Path != defaultConfig.Library.Path {
			t.Errorf("created config library path doesn't match default")
		}

		if config.Scan.FuzzyThreshold != defaultConfig.Scan.FuzzyThreshold {
			t.Errorf("created config fuzzy threshold doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[library]
path = "/media/Library.xml"
data_dir = "/media"

[output]
dir = "/tmp/reports"
format = "markdown"

[scan]
fold_diacritics = false
fuzzy_threshold = 0.75
probe_workers = 8
probe_rate = 20

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Library.Path != "/media/Library.xml" {
			t.Errorf("expected library path /media/Library.xml, got %s", config.Library.Path)
		}

		if config.Output.Format != "markdown" {
			t.Errorf("expected format markdown, got %s", config.Output.Format)
		}

		if config.Scan.FoldDiacritics {
			t.Error("expected diacritic folding disabled")
		}

		if config.Scan.FuzzyThreshold != 0.75 {
			t.Errorf("expected fuzzy threshold 0.75, got %v", config.Scan.FuzzyThreshold)
		}

		if config.Scan.ProbeRate != 20 {
			t.Errorf("expected probe rate 20, got %d", config.Scan.ProbeRate)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
	})

	t.Run("LoadConfig with missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		if err == nil {
			t.Error("expected error loading missing config file")
		}
	})
}
