package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/Torresmi9294/kodi-romm-repo/internal/config"
	"github.com/Torresmi9294/kodi-romm-repo/internal/logger"
)

const (
	// markerFilename marks that a generator run is in flight so two runs do
	// not race over the same output files.
	markerFilename = "repo-generator-marker.bin"

	// markerLifetime is the period after which a stale run marker is
	// eligible for cleanup.
	markerLifetime = 30 * time.Second

	// baseGeneratorExecutable is the process name checked during stale
	// marker recovery; the platform extension is appended when needed.
	baseGeneratorExecutable = "repo-generator"
)

// markerPath places the run marker next to the generated artifacts.
func markerPath(outputFolder string) string {
	return filepath.Join(outputFolder, markerFilename)
}

// isGeneratorRunningNow checks presence of a run marker and attempts recovery
// if it looks stale. A fresh marker, or a stale one with another generator
// process still alive, means a concurrent run owns the output folder.
func isGeneratorRunningNow(ctx context.Context, path string) bool {
	fileInfo, err := os.Stat(path)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The run marker is too old, attempting cleanup")

		if anotherGeneratorAlive() {
			return true
		}

		if err = os.Remove(path); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	logger.Infof(ctx, "Unable to read run marker: %v", err)

	return false
}

// createRunMarker writes the marker file before generation starts.
func createRunMarker(path string) error {
	return os.WriteFile(path, []byte(generatorExecutable()), config.DefaultFilePermissions)
}

// removeRunMarker deletes the marker file once generation is done.
func removeRunMarker(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "Unable to remove run marker", "path", path, "error", err)
	}
}

// anotherGeneratorAlive reports whether a different generator process exists.
func anotherGeneratorAlive() bool {
	processList, err := ps.Processes()
	if err != nil {
		// Cannot prove the owner is gone, assume it is still running.
		return true
	}

	thisProcessID := os.Getpid()
	executable := generatorExecutable()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == executable {
			return true
		}
	}

	return false
}

// generatorExecutable returns the generator process name for this platform.
func generatorExecutable() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return baseGeneratorExecutable + ".exe"
	}

	return baseGeneratorExecutable
}
