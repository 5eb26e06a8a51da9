package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/dupx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup initializes the configuration file, data directories and database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.config = config
	r.configPath = configPath

	for _, dir := range []string{config.Library.DataDir, config.Output.Dir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	r.writePlain("✓ Configuration ready at %s\n", configPath)
	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Point library.path in %s at your exported Library.xml\n", configPath)
	r.writePlain("2. Run 'dupx scan' to find duplicates\n")
	return nil
}

// SetupShow prints the fully resolved configuration.
func (r *Runner) SetupShow(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	config := r.config

	if cmd.Bool("json") {
		return r.writeJSON(config, true)
	}

	r.writePlainHeader("Configuration")
	r.writePlain("Config file:       %s\n", r.configPath)
	r.writePlain("Library path:      %s\n", config.Library.Path)
	r.writePlain("Data directory:    %s\n", config.Library.DataDir)
	r.writePlain("Output directory:  %s\n", config.Output.Dir)
	r.writePlain("Report format:     %s\n", config.Output.Format)
	r.writePlain("Fold diacritics:   %t\n", config.Scan.FoldDiacritics)
	r.writePlain("Fuzzy threshold:   %.2f\n", config.Scan.FuzzyThreshold)
	r.writePlain("Probe workers:     %d\n", config.Scan.ProbeWorkers)
	r.writePlain("Probe rate:        %d/s\n", config.Scan.ProbeRate)
	r.writePlain("Database path:     %s\n", config.Database.Path)
	r.writePlain("Server address:    %s:%d\n", config.Server.Host, config.Server.Port)
	return nil
}
