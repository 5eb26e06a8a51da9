package allowlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/dupx/internal/models"
	tu "github.com/desertthunder/dupx/internal/testing"
)

func TestAllowlist(t *testing.T) {
	t.Run("load missing file yields empty allowlist", func(t *testing.T) {
		f, err := Load(filepath.Join(t.TempDir(), FileName))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if f.Len() != 0 {
			t.Errorf("Len() = %d, want 0", f.Len())
		}
	})

	t.Run("add normalizes and deduplicates by ID set", func(t *testing.T) {
		f := &File{}

		if !f.Add(models.KeyMetadata, []int{30, 10, 20}) {
			t.Fatal("first Add() = false, want true")
		}
		if f.Add(models.KeyMetadata, []int{10, 20, 30}) {
			t.Error("Add() with same ID set in different order should be a no-op")
		}
		if !f.Add(models.KeyLocation, []int{10, 20, 30}) {
			t.Error("same ID set under a different kind should be a new entry")
		}

		if f.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", f.Len())
		}

		got := f.Entries[0].TrackIDs
		want := []int{10, 20, 30}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("stored IDs = %v, want %v", got, want)
				break
			}
		}
	})

	t.Run("contains matches regardless of order", func(t *testing.T) {
		f := &File{}
		f.Add(models.KeyMetadata, []int{1, 2})

		if !f.Contains(models.KeyMetadata, []int{2, 1}) {
			t.Error("Contains() = false for reordered IDs, want true")
		}
		if f.Contains(models.KeyMetadata, []int{1, 2, 3}) {
			t.Error("Contains() = true for superset, want false")
		}
		if f.Contains(models.KeyLocation, []int{1, 2}) {
			t.Error("Contains() = true across kinds, want false")
		}
	})

	t.Run("remove by index", func(t *testing.T) {
		f := &File{}
		f.Add(models.KeyMetadata, []int{1, 2})
		f.Add(models.KeyMetadata, []int{3, 4})

		if !f.Remove(0) {
			t.Fatal("Remove(0) = false, want true")
		}
		if f.Len() != 1 || f.Entries[0].TrackIDs[0] != 3 {
			t.Errorf("after Remove(0): entries = %+v", f.Entries)
		}
		if f.Remove(5) {
			t.Error("Remove() out of range = true, want false")
		}
	})

	t.Run("save and reload round trip", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", FileName)

		f := &File{}
		f.Add(models.KeyMetadata, []int{7, 3})
		f.Add(models.KeyLocation, []int{9, 8})

		if err := Save(path, f); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		tu.AssertFileExists(t, path)

		// Temp file must not linger after a successful save.
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Error("temp file left behind after Save()")
		}

		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if loaded.Len() != 2 {
			t.Fatalf("reloaded Len() = %d, want 2", loaded.Len())
		}
		if !loaded.Contains(models.KeyMetadata, []int{3, 7}) {
			t.Error("reloaded allowlist missing metadata entry")
		}
		if !loaded.Contains(models.KeyLocation, []int{8, 9}) {
			t.Error("reloaded allowlist missing location entry")
		}
	})

	t.Run("load rejects malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load() on malformed file should error")
		}
	})
}
