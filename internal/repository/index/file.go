package index

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // The repository format mandates MD5 for the index digest.
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Torresmi9294/kodi-romm-repo/internal/domain/addon"
)

const (
	// IndexFilename is the aggregated metadata document served to clients.
	IndexFilename = "addons.xml"

	// ChecksumFilename carries the hex MD5 digest of the index bytes.
	ChecksumFilename = "addons.xml.md5"

	// xmlHeader is the fixed declaration the index starts with.
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	// defaultFileMode is used for the generated artifacts.
	defaultFileMode os.FileMode = 0o644

	// defaultDirMode is used when creating the output directory.
	defaultDirMode os.FileMode = 0o755
)

// Result describes the files written by a Save call.
type Result struct {
	// IndexPath is the location of the written addons.xml.
	IndexPath string
	// ChecksumPath is the location of the written addons.xml.md5.
	ChecksumPath string
	// Checksum is the hex MD5 digest stored in ChecksumPath.
	Checksum string
}

// Repository persists the aggregated add-on index.
type Repository interface {
	Save(ctx context.Context, addons []*addon.Addon) (*Result, error)
}

// FileRepository writes the index and its checksum into a directory on disk.
// Both files are fully overwritten on every Save.
type FileRepository struct {
	// dir is the output directory receiving both artifacts.
	dir string
}

// NewFileRepository creates a repository writing into the provided directory.
// The directory is created on Save if it does not exist yet.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{
		dir: filepath.Clean(dir),
	}
}

// Save serializes the add-ons into addons.xml and writes addons.xml.md5 next
// to it. The descriptor fragments are embedded in the order given; callers
// pass them identifier-sorted. The digest is computed over the exact bytes of
// the file after it has been written, so the checksum always matches what a
// client downloads.
func (r *FileRepository) Save(_ context.Context, addons []*addon.Addon) (*Result, error) {
	if err := os.MkdirAll(r.dir, defaultDirMode); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var buf bytes.Buffer

	buf.WriteString(xmlHeader)
	buf.WriteString("<addons>\n")

	for _, entry := range addons {
		buf.Write(entry.Descriptor)
		buf.WriteByte('\n')
	}

	buf.WriteString("</addons>\n")

	indexPath := filepath.Join(r.dir, IndexFilename)
	if err := os.WriteFile(indexPath, buf.Bytes(), defaultFileMode); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}

	checksum, err := fileChecksum(indexPath)
	if err != nil {
		return nil, err
	}

	checksumPath := filepath.Join(r.dir, ChecksumFilename)
	if err = os.WriteFile(checksumPath, []byte(checksum), defaultFileMode); err != nil {
		return nil, fmt.Errorf("write checksum: %w", err)
	}

	return &Result{
		IndexPath:    indexPath,
		ChecksumPath: checksumPath,
		Checksum:     checksum,
	}, nil
}

// fileChecksum returns the hex MD5 digest of the file's content.
func fileChecksum(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read back index: %w", err)
	}

	digest := md5.Sum(contents) //nolint:gosec // See above: format-mandated digest, not a security control.

	return hex.EncodeToString(digest[:]), nil
}
