package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dupx/internal/allowlist"
	"github.com/desertthunder/dupx/internal/formatter"
	"github.com/desertthunder/dupx/internal/library"
	"github.com/desertthunder/dupx/internal/repositories"
	"github.com/desertthunder/dupx/internal/shared"
	"github.com/desertthunder/dupx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	library    library.Service
	engine     *tasks.DuplicateEngine
	logger     *log.Logger
	output     io.Writer

	db     *sql.DB
	scans  *repositories.ScanRepository
	caches *repositories.LibraryCacheRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Library    library.Service
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Library == nil {
		opts.Library = library.NewPlistService(opts.Logger)
	}

	engine := tasks.NewDuplicateEngine(opts.Library, tasks.EngineOpts{
		FoldDiacritics: opts.Config.Scan.FoldDiacritics,
	})

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		library:    opts.Library,
		engine:     engine,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger for all subsequent commands.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, scanCommand, evaluateCommand, similarCommand, allowlistCommand, reviewCommand, historyCommand, serveCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reloadConfig swaps in the configuration named by the command's --config flag
// when it differs from the one the runner booted with. The engine is rebuilt
// so key-folding options from the new file take effect.
func (r *Runner) reloadConfig(cmd *cli.Command) {
	path := cmd.String("config")
	if path == "" || path == r.configPath {
		return
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current settings", "path", path, "error", err)
		return
	}

	r.config = config
	r.configPath = path
	r.engine = tasks.NewDuplicateEngine(r.library, tasks.EngineOpts{
		FoldDiacritics: config.Scan.FoldDiacritics,
	})
	if r.caches != nil {
		r.engine.SetCache(repositories.NewLibraryCacheAdapter(r.caches))
	}
}

// ensureDatabase opens the configured database on first use, applies pending
// migrations and wires the repositories. The parsed-library cache attaches to
// the engine as a side effect.
func (r *Runner) ensureDatabase() error {
	if r.db != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.scans = repositories.NewScanRepository(db)
	r.caches = repositories.NewLibraryCacheRepository(db)
	r.engine.SetCache(repositories.NewLibraryCacheAdapter(r.caches))
	return nil
}

// reportPath resolves the machine-readable report location: the --report flag
// when given, otherwise report.json in the output directory, falling back to
// the newest duplicates*.json from older exports.
func (r *Runner) reportPath(cmd *cli.Command) string {
	if path := cmd.String("report"); path != "" {
		return path
	}
	return formatter.FindReport(r.config.Output.Dir)
}

// allowlistPath resolves the allowlist location inside the output directory.
func (r *Runner) allowlistPath() string {
	return filepath.Join(r.config.Output.Dir, allowlist.FileName)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
