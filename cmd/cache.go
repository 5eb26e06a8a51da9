package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/dupx/internal/repositories"
	"github.com/urfave/cli/v3"
)

// CacheShow prints the cache entry for a library export, if any.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	path := cmd.String("library")
	if path == "" {
		path = r.config.Library.Path
	}

	lib, fingerprint, err := r.caches.Get(path)
	if err != nil {
		r.writePlain("No cache entry for %s\n", path)
		return nil
	}

	r.writePlainHeader("Library Cache")
	r.writePlain("Library: %s\n", path)
	r.writePlain("Tracks: %d (%d skipped)\n", len(lib.Tracks), lib.Skipped)
	r.writePlain("Fingerprint: %s\n", fingerprint)

	current, err := repositories.Fingerprint(path)
	switch {
	case err != nil:
		r.writePlain("Status: export file missing, next scan will re-parse\n")
	case current == fingerprint:
		r.writePlain("Status: fresh, next scan served from cache\n")
	default:
		r.writePlain("Status: stale, next scan will re-parse\n")
	}
	return nil
}

// CacheEvict drops the cache entry for a library export.
func (r *Runner) CacheEvict(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	path := cmd.String("library")
	if path == "" {
		path = r.config.Library.Path
	}

	removed, err := r.caches.Evict(path)
	if err != nil {
		return fmt.Errorf("failed to evict cache entry: %w", err)
	}
	if !removed {
		r.writePlain("No cache entry for %s\n", path)
		return nil
	}

	r.logger.Info("cache entry evicted", "library", path)
	r.writePlain("✓ Cache entry dropped for %s\n", path)
	return nil
}

// CacheClear drops every cached library.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	removed, err := r.caches.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.writePlain("✓ Removed %d cache entries\n", removed)
	return nil
}
