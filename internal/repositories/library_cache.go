package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
)

// LibraryCacheRepository stores parsed library payloads keyed by export path.
//
// The fingerprint column ties a payload to the exact file version it was
// parsed from; a changed export invalidates the entry on the next lookup.
type LibraryCacheRepository struct {
	db *sql.DB
}

// NewLibraryCacheRepository creates a new LibraryCacheRepository with the given database connection
func NewLibraryCacheRepository(db *sql.DB) *LibraryCacheRepository {
	return &LibraryCacheRepository{db: db}
}

// Put stores or replaces the cached payload for a library path
func (r *LibraryCacheRepository) Put(lib *models.Library, fingerprint string) error {
	payload, err := shared.MarshalJSON(lib, false)
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}

	query := `
		INSERT INTO library_cache (library_path, fingerprint, payload, cached_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(library_path) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			payload = excluded.payload,
			cached_at = excluded.cached_at
	`

	if _, err := r.db.Exec(query, lib.Path, fingerprint, string(payload), time.Now()); err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}

	return nil
}

// Get retrieves the cached library and its fingerprint for a path
func (r *LibraryCacheRepository) Get(path string) (*models.Library, string, error) {
	query := `
		SELECT payload, fingerprint
		FROM library_cache
		WHERE library_path = ?
	`

	var (
		payload     string
		fingerprint string
	)

	err := r.db.QueryRow(query, path).Scan(&payload, &fingerprint)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("cache entry not found")
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read cache entry: %w", err)
	}

	var lib models.Library
	if err := json.Unmarshal([]byte(payload), &lib); err != nil {
		return nil, "", fmt.Errorf("failed to decode cached library: %w", err)
	}

	return &lib, fingerprint, nil
}

// Evict removes the cache entry for a path, reporting whether one existed
func (r *LibraryCacheRepository) Evict(path string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM library_cache WHERE library_path = ?", path)
	if err != nil {
		return false, fmt.Errorf("failed to evict cache entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// Clear removes every cache entry, returning the number removed
func (r *LibraryCacheRepository) Clear() (int, error) {
	result, err := r.db.Exec("DELETE FROM library_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// Fingerprint derives a change marker for a file from its size and mtime.
// Re-parsing is only skipped while both remain identical.
func Fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return fmt.Sprintf("%d:%d", info.Size(), info.ModTime().UnixNano()), nil
}

// LibraryCacheAdapter implements tasks.LibraryCacher using LibraryCacheRepository.
//
// Lookups verify the stored fingerprint against the file on disk before
// returning a hit. All failures degrade to cache misses; a broken cache must
// never stop a scan.
type LibraryCacheAdapter struct {
	repo *LibraryCacheRepository
}

// NewLibraryCacheAdapter creates a new LibraryCacheAdapter with the given repository
func NewLibraryCacheAdapter(repo *LibraryCacheRepository) *LibraryCacheAdapter {
	return &LibraryCacheAdapter{repo: repo}
}

// Fetch returns the cached library for path while its fingerprint still matches the file on disk
func (a *LibraryCacheAdapter) Fetch(ctx context.Context, path string) (*models.Library, bool) {
	current, err := Fingerprint(path)
	if err != nil {
		return nil, false
	}

	lib, cached, err := a.repo.Get(path)
	if err != nil || cached != current {
		return nil, false
	}

	return lib, true
}

// Store caches a freshly parsed library keyed by its export path.
// Errors are dropped; the parsed library in hand is still valid.
func (a *LibraryCacheAdapter) Store(ctx context.Context, lib *models.Library) {
	if lib == nil || lib.Path == "" {
		return
	}

	fingerprint, err := Fingerprint(lib.Path)
	if err != nil {
		return
	}

	_ = a.repo.Put(lib, fingerprint)
}
