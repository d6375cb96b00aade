package generator

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Torresmi9294/kodi-romm-repo/internal/domain/addon"
	"github.com/Torresmi9294/kodi-romm-repo/internal/logger"
)

// descriptorSuffix is matched case-insensitively against archive entry names.
// The leading slash means a descriptor at the archive root does not qualify;
// Kodi add-on zips always nest the descriptor under the add-on folder.
const descriptorSuffix = "/addon.xml"

// errDescriptorNotFound is returned when an archive carries no addon.xml entry.
var errDescriptorNotFound = errors.New("no addon.xml found in archive")

// scanner discovers add-on descriptors under a directory tree of zip archives.
type scanner struct {
	// root is the directory walked recursively for *.zip files.
	root string
}

// newScanner creates a scanner over the provided archive folder.
func newScanner(root string) *scanner {
	return &scanner{
		root: root,
	}
}

// scan walks the archive folder and builds the selection table of the newest
// descriptor per identifier. A broken or descriptor-less archive produces a
// warning and is skipped; the walk continues. An unreadable root is fatal.
func (s *scanner) scan(ctx context.Context) (*addon.Selection, error) {
	selection := addon.NewSelection()

	walkErr := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		// Extension match is case-sensitive, like a literal *.zip glob.
		if entry.IsDir() || filepath.Ext(path) != ".zip" {
			return nil
		}

		discovered, readErr := readDescriptor(path)
		if readErr != nil {
			logger.WarnKV(ctx, "Skipping archive", "path", path, "error", readErr)

			return nil
		}

		if selection.Add(discovered) {
			logger.DebugKV(ctx, "Selected descriptor",
				"id", discovered.ID,
				"version", discovered.Version.String(),
				"path", path)
		}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, walkErr)
	}

	return selection, nil
}

// readDescriptor opens an archive and parses its embedded addon.xml.
func readDescriptor(path string) (*addon.Addon, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	// Best-effort cleanup.
	defer func() {
		_ = reader.Close()
	}()

	descriptor := findDescriptor(&reader.Reader)
	if descriptor == nil {
		return nil, errDescriptorNotFound
	}

	contents, err := readArchiveFile(descriptor)
	if err != nil {
		return nil, err
	}

	parsed, err := addon.ParseDescriptor(contents, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", descriptor.Name, err)
	}

	return parsed, nil
}

// findDescriptor returns the first archive entry ending in /addon.xml.
func findDescriptor(reader *zip.Reader) *zip.File {
	for _, file := range reader.File {
		if strings.HasSuffix(strings.ToLower(file.Name), descriptorSuffix) {
			return file
		}
	}

	return nil
}

// readArchiveFile extracts a single archive entry into memory.
func readArchiveFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.Name, err)
	}

	defer func() {
		_ = rc.Close()
	}()

	contents, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}

	return contents, nil
}
