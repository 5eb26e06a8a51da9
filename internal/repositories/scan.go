package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
)

// ScanRepository implements models.Repository[*models.ScanRecord] for scan history.
//
// Each completed scan is stored as one summary row plus one scan_groups row per
// duplicate group. The position column preserves report order so stored groups
// render byte-identically to the original run.
type ScanRepository struct {
	db *sql.DB
}

// NewScanRepository creates a new ScanRepository with the given database connection
func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Create inserts a new [models.ScanRecord] into the database with generated ID and sequence
func (r *ScanRepository) Create(scan *models.ScanRecord) error {
	sequence, err := NextSequence(r.db, "scans")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	scan.SetID(id)

	if err := scan.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO scans (id, sequence, library_path, track_count, skipped_count, metadata_groups, location_groups, duration_ms, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		scan.LibraryPath(),
		scan.TrackCount(),
		scan.SkippedCount(),
		scan.MetadataGroups(),
		scan.LocationGroups(),
		scan.DurationMS(),
		scan.CreatedAt(),
		scan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan: %w", err)
	}

	return nil
}

// Get retrieves a scan by ID, excluding soft-deleted scans
func (r *ScanRepository) Get(id string) (*models.ScanRecord, error) {
	query := `
		SELECT id, sequence, library_path, track_count, skipped_count, metadata_groups, location_groups, duration_ms, created_at, updated_at, deleted_at
		FROM scans
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Latest retrieves the most recently recorded scan, excluding soft-deleted scans
func (r *ScanRepository) Latest() (*models.ScanRecord, error) {
	query := `
		SELECT id, sequence, library_path, track_count, skipped_count, metadata_groups, location_groups, duration_ms, created_at, updated_at, deleted_at
		FROM scans
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query))
}

// Update modifies an existing scan's summary counts
func (r *ScanRepository) Update(scan *models.ScanRecord) error {
	if err := scan.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	scan.SetUpdatedAt(now)

	query := `
		UPDATE scans
		SET library_path = ?, track_count = ?, skipped_count = ?, metadata_groups = ?, location_groups = ?, duration_ms = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		scan.LibraryPath(),
		scan.TrackCount(),
		scan.SkippedCount(),
		scan.MetadataGroups(),
		scan.LocationGroups(),
		scan.DurationMS(),
		now,
		scan.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update scan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scan not found or already deleted: %s", scan.ID())
	}

	return nil
}

// Delete soft-deletes a scan by ID
func (r *ScanRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE scans
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scan not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves scans matching the given criteria, newest first, excluding soft-deleted scans.
//
// Supported criteria: "library_path" (exact match) and "limit" (int).
func (r *ScanRepository) List(criteria map[string]any) ([]*models.ScanRecord, error) {
	query := `
		SELECT id, sequence, library_path, track_count, skipped_count, metadata_groups, location_groups, duration_ms, created_at, updated_at, deleted_at
		FROM scans
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if path, ok := criteria["library_path"].(string); ok && path != "" {
		query += " AND library_path = ?"
		args = append(args, path)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	var scans []*models.ScanRecord
	for rows.Next() {
		scan, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return scans, nil
}

// SaveGroups stores a scan's duplicate groups in report order.
//
// The running position index spans both kinds, so GetGroups restores the exact
// metadata-then-location ordering the report was rendered with.
func (r *ScanRepository) SaveGroups(scanID string, groups []models.DuplicateGroup) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO scan_groups (scan_id, kind, group_key, position, member_count, tracks)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	for i, group := range groups {
		payload, err := shared.MarshalJSON(group.Tracks, false)
		if err != nil {
			return fmt.Errorf("failed to encode group members: %w", err)
		}

		if _, err := tx.Exec(query, scanID, string(group.Kind), group.Key, i, len(group.Tracks), string(payload)); err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit groups: %w", err)
	}

	return nil
}

// GetGroups retrieves a scan's stored duplicate groups in their original order
func (r *ScanRepository) GetGroups(scanID string) ([]models.DuplicateGroup, error) {
	query := `
		SELECT kind, group_key, tracks
		FROM scan_groups
		WHERE scan_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []models.DuplicateGroup
	for rows.Next() {
		var (
			kind    string
			key     string
			payload string
		)

		if err := rows.Scan(&kind, &key, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}

		var tracks []models.TrackSummary
		if err := json.Unmarshal([]byte(payload), &tracks); err != nil {
			return nil, fmt.Errorf("failed to decode group members: %w", err)
		}

		groups = append(groups, models.DuplicateGroup{
			Kind:   models.KeyKind(kind),
			Key:    key,
			Tracks: tracks,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return groups, nil
}

// Purge permanently removes all scans and their groups, returning the number of scans removed
func (r *ScanRepository) Purge() (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM scan_groups"); err != nil {
		return 0, fmt.Errorf("failed to purge groups: %w", err)
	}

	result, err := tx.Exec("DELETE FROM scans")
	if err != nil {
		return 0, fmt.Errorf("failed to purge scans: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit purge: %w", err)
	}

	return int(rows), nil
}

// scanOne scans a single [sql.Row] into a [models.ScanRecord]
func (r *ScanRepository) scanOne(row *sql.Row) (*models.ScanRecord, error) {
	var (
		id         string
		sequence   int
		path       string
		trackCount int
		skipped    int
		metaGroups int
		locGroups  int
		durationMS int64
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &path, &trackCount, &skipped, &metaGroups, &locGroups, &durationMS, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scan not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	record := models.NewScanRecord(sequence, path, trackCount, skipped, metaGroups, locGroups, durationMS)
	record.SetID(id)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}

// scanRow scans a row from [sql.Rows] into a [models.ScanRecord]
func (r *ScanRepository) scanRow(rows *sql.Rows) (*models.ScanRecord, error) {
	var (
		id         string
		sequence   int
		path       string
		trackCount int
		skipped    int
		metaGroups int
		locGroups  int
		durationMS int64
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &path, &trackCount, &skipped, &metaGroups, &locGroups, &durationMS, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	record := models.NewScanRecord(sequence, path, trackCount, skipped, metaGroups, locGroups, durationMS)
	record.SetID(id)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}
