package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Torresmi9294/kodi-romm-repo/internal/config"
	"github.com/Torresmi9294/kodi-romm-repo/internal/domain/addon"
	"github.com/Torresmi9294/kodi-romm-repo/internal/logger"
	"github.com/Torresmi9294/kodi-romm-repo/internal/repository/index"
)

// Options contains inputs for the generator entry point.
type Options struct {
	// ConfigPath is an optional path to a YAML settings file; flags override
	// its values, and no settings are loaded when it is empty.
	ConfigPath string
	// ZipsFolder is the directory tree scanned for *.zip archives.
	ZipsFolder string
	// OutputFolder is the directory receiving addons.xml and addons.xml.md5.
	OutputFolder string
	// Summary receives the human-readable run summary (defaults to stdout).
	Summary io.Writer
}

var (
	// ErrNoAddonsFound is returned when scanning yields zero usable archives.
	ErrNoAddonsFound = errors.New("no add-ons found")

	// errGeneratorRunning indicates another generator run owns the output folder.
	errGeneratorRunning = errors.New("another generator run is in progress")
)

// generator aggregates descriptors from packaged archives into a repository index.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type generator struct {
	// cfg holds the archive and output folder settings.
	cfg *config.Config
	// repo persists the aggregated index and its checksum.
	repo index.Repository
	// summary receives the human-readable run report.
	summary io.Writer
}

// Run executes the generation workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "repo-generator")

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	gen, err := newGenerator(ctx, cfg, opts.Summary)
	if err != nil {
		return fmt.Errorf("initialize generator: %w", err)
	}

	if err = gen.Run(ctx); err != nil {
		return fmt.Errorf("generator failed: %w", err)
	}

	logger.Info(ctx, "Generator completed successfully")

	return nil
}

// resolveConfig merges the optional settings file with the provided options.
func resolveConfig(opts *Options) (*config.Config, error) {
	cfg := new(config.Config)

	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if opts.ZipsFolder != "" {
		cfg.ZipsFolder = opts.ZipsFolder
	}

	if opts.OutputFolder != "" {
		cfg.OutputFolder = opts.OutputFolder
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newGenerator creates a generator instance and refuses to start while
// another run holds the output folder.
func newGenerator(ctx context.Context, cfg *config.Config, summary io.Writer) (*generator, error) {
	if isGeneratorRunningNow(ctx, markerPath(cfg.OutputFolder)) {
		return nil, errGeneratorRunning
	}

	if summary == nil {
		summary = os.Stdout
	}

	return &generator{
		cfg:     cfg,
		repo:    index.NewFileRepository(cfg.OutputFolder),
		summary: summary,
	}, nil
}

// Run scans the archives, selects the newest release per identifier and
// writes the aggregated index. Nothing is written when the selection is empty.
func (g *generator) Run(ctx context.Context) error {
	marker := markerPath(g.cfg.OutputFolder)

	// The output folder may not exist yet; the marker only guards an
	// existing one, artifacts are created by the repository on save.
	if err := createRunMarker(marker); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "Unable to create run marker", "path", marker, "error", err)
	}

	defer removeRunMarker(ctx, marker)

	logger.InfoKV(ctx, "Scanning archives", "folder", g.cfg.ZipsFolder)

	selection, err := newScanner(g.cfg.ZipsFolder).scan(ctx)
	if err != nil {
		return err
	}

	if selection.Len() == 0 {
		return fmt.Errorf("%w under %s", ErrNoAddonsFound, g.cfg.ZipsFolder)
	}

	selected := selection.Sorted()

	logger.InfoKV(ctx, "Writing repository index",
		"folder", g.cfg.OutputFolder,
		"addons", len(selected))

	result, err := g.repo.Save(ctx, selected)
	if err != nil {
		return err
	}

	g.printSummary(selected, result)

	return nil
}

// printSummary reports the generated files and the included releases.
func (g *generator) printSummary(selected []*addon.Addon, result *index.Result) {
	var builder strings.Builder

	builder.WriteString("Generated:\n")
	builder.WriteString(" - ")
	builder.WriteString(result.IndexPath)
	builder.WriteString("\n - ")
	builder.WriteString(result.ChecksumPath)
	builder.WriteString("\n\nIncluded add-ons (latest only):\n")

	for _, entry := range selected {
		builder.WriteString(" - ")
		builder.WriteString(entry.ID)
		builder.WriteString(" @ ")
		builder.WriteString(entry.Version.String())
		builder.WriteString("  (")
		builder.WriteString(filepath.Base(entry.SourcePath))
		builder.WriteString(")\n")
	}

	_, _ = fmt.Fprint(g.summary, builder.String())
}
