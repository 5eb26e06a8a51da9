package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/dupx/internal/allowlist"
	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AllowlistShow prints allowlist entries with their indexes.
func (r *Runner) AllowlistShow(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	path := r.allowlistPath()
	file, err := allowlist.Load(path)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(file, cmd.Bool("pretty"))
	}

	if file.Len() == 0 {
		r.writePlain("Allowlist is empty (%s)\n", path)
		return nil
	}

	r.writePlainHeader("Allowlist")
	for i, entry := range file.Entries {
		ids := make([]string, len(entry.TrackIDs))
		for j, id := range entry.TrackIDs {
			ids[j] = strconv.Itoa(id)
		}
		r.writePlain("%d. [%s] tracks %s\n", i, entry.Kind, strings.Join(ids, ", "))
	}
	r.writePlain("\n%d entries in %s\n", file.Len(), path)
	return nil
}

// AllowlistAdd appends a group of track IDs to the allowlist.
func (r *Runner) AllowlistAdd(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	kind := models.KeyKind(cmd.String("kind"))
	if kind != models.KeyMetadata && kind != models.KeyLocation {
		return fmt.Errorf("%w: kind must be 'metadata' or 'location'", shared.ErrInvalidFlag)
	}

	ids, err := parseTrackIDs(cmd.String("ids"))
	if err != nil {
		return err
	}

	path := r.allowlistPath()
	file, err := allowlist.Load(path)
	if err != nil {
		return err
	}

	if !file.Add(kind, ids) {
		r.writePlain("Entry already present, nothing to do.\n")
		return nil
	}

	if err := allowlist.Save(path, file); err != nil {
		return err
	}

	r.logger.Info("allowlist entry added", "kind", kind, "tracks", len(ids))
	r.writePlain("✓ Added entry %d to %s\n", file.Len()-1, path)
	return nil
}

// AllowlistRemove deletes the entry at the given index.
func (r *Runner) AllowlistRemove(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	index := cmd.Int("index")
	path := r.allowlistPath()

	file, err := allowlist.Load(path)
	if err != nil {
		return err
	}

	if !file.Remove(index) {
		return fmt.Errorf("%w: no allowlist entry at index %d", shared.ErrInvalidArgument, index)
	}

	if err := allowlist.Save(path, file); err != nil {
		return err
	}

	r.writePlain("✓ Removed entry %d, %d remaining\n", index, file.Len())
	return nil
}

// parseTrackIDs splits a comma-separated ID list. At least two IDs are
// required: a single track cannot form a duplicate group.
func parseTrackIDs(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a track ID", shared.ErrInvalidFlag, part)
		}
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: need at least two track IDs", shared.ErrInvalidFlag)
	}
	return ids, nil
}
