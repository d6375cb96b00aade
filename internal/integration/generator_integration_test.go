package integration

import (
	"archive/zip"
	"context"
	"crypto/md5" //nolint:gosec // Digest recomputed independently to verify the checksum file.
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Torresmi9294/kodi-romm-repo/internal/repository/index"
	"github.com/Torresmi9294/kodi-romm-repo/internal/service/generator"
)

// packAddon writes a realistic add-on archive with a descriptor and payload.
func packAddon(t *testing.T, dir, id, version string) {
	t.Helper()

	path := filepath.Join(dir, id+"-"+version+".zip")

	out, err := os.Create(path)
	require.NoError(t, err)

	writer := zip.NewWriter(out)

	descriptor, err := writer.Create(id + "/addon.xml")
	require.NoError(t, err)

	_, err = descriptor.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<addon id="` + id + `" version="` + version + `" name="` + id + `" provider-name="tester">` + "\n" +
		`  <requires><import addon="xbmc.python" version="3.0.0"/></requires>` + "\n" +
		`  <extension point="xbmc.python.pluginsource" library="main.py"><provides>video</provides></extension>` + "\n" +
		`</addon>`))
	require.NoError(t, err)

	payload, err := writer.Create(id + "/main.py")
	require.NoError(t, err)

	_, err = payload.Write([]byte("# placeholder payload\n"))
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	require.NoError(t, out.Close())
}

// TestGenerator_EndToEnd builds a zips folder with several releases, runs the
// generator, and verifies the emitted index and checksum byte by byte.
func TestGenerator_EndToEnd(t *testing.T) {
	t.Parallel()

	zips := t.TempDir()
	out := filepath.Join(t.TempDir(), "repo")

	packAddon(t, zips, "plugin.video.example", "1.2.0")
	packAddon(t, zips, "plugin.video.example", "1.3.0")
	packAddon(t, zips, "repository.example", "1.0.0")

	// A corrupt archive must not abort the run.
	require.NoError(t, os.WriteFile(filepath.Join(zips, "broken.zip"), []byte("not a zip"), 0o644))

	var summary strings.Builder

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := generator.Run(ctx, &generator.Options{
		ZipsFolder:   zips,
		OutputFolder: out,
		Summary:      &summary,
	})
	require.NoError(t, err)

	indexBytes, err := os.ReadFile(filepath.Join(out, index.IndexFilename))
	require.NoError(t, err)

	text := string(indexBytes)
	require.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`))
	require.Contains(t, text, `id="plugin.video.example" version="1.3.0"`)
	require.Contains(t, text, `id="repository.example" version="1.0.0"`)
	require.NotContains(t, text, `version="1.2.0"`)

	// plugin.* sorts before repository.*.
	require.Less(t,
		strings.Index(text, `id="plugin.video.example"`),
		strings.Index(text, `id="repository.example"`))

	// Checksum file equals the digest of the sibling index file.
	checksumBytes, err := os.ReadFile(filepath.Join(out, index.ChecksumFilename))
	require.NoError(t, err)

	digest := md5.Sum(indexBytes) //nolint:gosec // Format-mandated digest.
	require.Equal(t, hex.EncodeToString(digest[:]), string(checksumBytes))

	// Summary lists both generated files and the selected releases.
	report := summary.String()
	require.Contains(t, report, index.IndexFilename)
	require.Contains(t, report, index.ChecksumFilename)
	require.Contains(t, report, "plugin.video.example @ 1.3.0")
	require.Contains(t, report, "repository.example @ 1.0.0")
}

// TestGenerator_EmptyFolderFails verifies the fatal path for a folder with no
// usable archives: non-zero result and no outputs.
func TestGenerator_EmptyFolderFails(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "repo")

	err := generator.Run(context.Background(), &generator.Options{
		ZipsFolder:   t.TempDir(),
		OutputFolder: out,
		Summary:      new(strings.Builder),
	})
	require.ErrorIs(t, err, generator.ErrNoAddonsFound)

	_, err = os.Stat(out)
	require.ErrorIs(t, err, os.ErrNotExist)
}
