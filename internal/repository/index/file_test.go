package index

import (
	"context"
	"crypto/md5" //nolint:gosec // Recomputed independently to cross-check the stored digest.
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Torresmi9294/kodi-romm-repo/internal/domain/addon"
)

// testAddon builds a minimal selected entry for serialization tests.
func testAddon(t *testing.T, id, version string) *addon.Addon {
	t.Helper()

	data := `<addon id="` + id + `" version="` + version + `"/>`

	entry, err := addon.ParseDescriptor([]byte(data), id+".zip")
	require.NoError(t, err)

	return entry
}

// TestFileRepository_Save verifies the layout of both generated files and
// that the stored digest matches an independently recomputed one.
func TestFileRepository_Save(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := NewFileRepository(dir)

	entries := []*addon.Addon{
		testAddon(t, "a.addon", "1.0.0"),
		testAddon(t, "b.addon", "2.1.0"),
	}

	result, err := repo.Save(context.Background(), entries)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, IndexFilename), result.IndexPath)
	require.Equal(t, filepath.Join(dir, ChecksumFilename), result.ChecksumPath)

	contents, err := os.ReadFile(result.IndexPath)
	require.NoError(t, err)

	text := string(contents)
	require.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`))
	require.Contains(t, text, "<addons>")
	require.Contains(t, text, "</addons>")

	// Fragments appear in the order passed in.
	require.Less(t,
		strings.Index(text, `id="a.addon"`),
		strings.Index(text, `id="b.addon"`))

	// Stored digest equals the digest of the index bytes.
	stored, err := os.ReadFile(result.ChecksumPath)
	require.NoError(t, err)

	digest := md5.Sum(contents) //nolint:gosec // Format-mandated digest.
	require.Equal(t, hex.EncodeToString(digest[:]), string(stored))
	require.Equal(t, result.Checksum, string(stored))

	// The checksum file is a bare hex string.
	require.Len(t, stored, 2*md5.Size)
}

// TestFileRepository_CreatesOutputDirectory saves into a directory that does
// not exist yet.
func TestFileRepository_CreatesOutputDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "repo", "nested")
	repo := NewFileRepository(dir)

	result, err := repo.Save(context.Background(), []*addon.Addon{testAddon(t, "a.addon", "1.0.0")})
	require.NoError(t, err)

	_, err = os.Stat(result.IndexPath)
	require.NoError(t, err)
}

// TestFileRepository_OverwritesPreviousRun ensures outputs are fully replaced.
func TestFileRepository_OverwritesPreviousRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := NewFileRepository(dir)

	first, err := repo.Save(context.Background(), []*addon.Addon{testAddon(t, "a.addon", "1.0.0")})
	require.NoError(t, err)

	second, err := repo.Save(context.Background(), []*addon.Addon{testAddon(t, "a.addon", "2.0.0")})
	require.NoError(t, err)
	require.NotEqual(t, first.Checksum, second.Checksum)

	contents, err := os.ReadFile(second.IndexPath)
	require.NoError(t, err)
	require.NotContains(t, string(contents), `version="1.0.0"`)
}
