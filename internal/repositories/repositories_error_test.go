package repositories

import (
	"testing"

	"github.com/desertthunder/dupx/internal/models"
)

func TestScanRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewScanRepository(db)
			scan := models.NewScanRecord(0, "", 10, 0, 1, 0, 5)

			if err := repo.Create(scan); err == nil {
				t.Fatal("expected validation error for empty library path")
			}
		})

		t.Run("NegativeCounts", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewScanRepository(db)
			scan := models.NewScanRecord(0, "/music/Library.xml", -1, 0, 0, 0, 5)

			if err := repo.Create(scan); err == nil {
				t.Fatal("expected validation error for negative track count")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewScanRepository(db)

			_, err := repo.Get("nonexistent-id")
			if err == nil {
				t.Fatal("expected error when getting nonexistent scan")
			}
		})
	})

	t.Run("Latest", func(t *testing.T) {
		t.Run("EmptyHistory", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewScanRepository(db)

			_, err := repo.Latest()
			if err == nil {
				t.Fatal("expected error when no scans are recorded")
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewScanRepository(db)
			scan := newTestScan("/music/Library.xml")
			scan.SetID("nonexistent-id")

			err := repo.Update(scan)
			if err == nil {
				t.Fatal("expected error when updating nonexistent scan")
			}
		})

		t.Run("Deleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewScanRepository(db)
			scan := newTestScan("/music/Library.xml")

			if err := repo.Create(scan); err != nil {
				t.Fatalf("failed to create scan: %v", err)
			}

			if err := repo.Delete(scan.ID()); err != nil {
				t.Fatalf("failed to delete scan: %v", err)
			}

			err := repo.Update(scan)
			if err == nil {
				t.Fatal("expected error when updating deleted scan")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewScanRepository(db)

			err := repo.Delete("nonexistent-id")
			if err == nil {
				t.Fatal("expected error when deleting nonexistent scan")
			}
		})

		t.Run("AlreadyDeleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewScanRepository(db)
			scan := newTestScan("/music/Library.xml")

			if err := repo.Create(scan); err != nil {
				t.Fatalf("failed to create scan: %v", err)
			}

			if err := repo.Delete(scan.ID()); err != nil {
				t.Fatalf("failed to delete scan: %v", err)
			}

			err := repo.Delete(scan.ID())
			if err == nil {
				t.Fatal("expected error when deleting already deleted scan")
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("ExcludesDeleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewScanRepository(db)

			kept := newTestScan("/music/kept.xml")
			dropped := newTestScan("/music/dropped.xml")

			if err := repo.Create(kept); err != nil {
				t.Fatalf("failed to create kept scan: %v", err)
			}
			if err := repo.Create(dropped); err != nil {
				t.Fatalf("failed to create dropped scan: %v", err)
			}

			if err := repo.Delete(dropped.ID()); err != nil {
				t.Fatalf("failed to delete scan: %v", err)
			}

			scans, err := repo.List(map[string]any{})
			if err != nil {
				t.Fatalf("failed to list scans: %v", err)
			}

			if len(scans) != 1 {
				t.Errorf("expected 1 scan (excluding deleted), got %d", len(scans))
			}

			if len(scans) > 0 && scans[0].LibraryPath() != "/music/kept.xml" {
				t.Errorf("expected /music/kept.xml, got %s", scans[0].LibraryPath())
			}
		})
	})
}

func TestScanRepository_SaveGroupsUnknownScan(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewScanRepository(db)

	// scan_groups.scan_id references scans(id).
	err := repo.SaveGroups("nonexistent-id", []models.DuplicateGroup{
		{Kind: models.KeyMetadata, Key: "k", Tracks: []models.TrackSummary{{ID: 1}, {ID: 2}}},
	})
	if err == nil {
		t.Fatal("expected error when saving groups for nonexistent scan")
	}
}

func TestLibraryCacheRepositoryErrors(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewLibraryCacheRepository(db)

			_, _, err := repo.Get("/no/such/Library.xml")
			if err == nil {
				t.Fatal("expected error when getting nonexistent cache entry")
			}
		})
	})
}
