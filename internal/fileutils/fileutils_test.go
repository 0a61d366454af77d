package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"nebenkosten/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, fileutils.FileExists(path))
	assert.False(t, fileutils.FileExists(filepath.Join(dir, "missing.txt")))
	assert.False(t, fileutils.FileExists(dir), "directories are not files")
}

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, fileutils.DirectoryExists(dir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(dir, "missing")))
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, fileutils.EnsureDirectoryExists(dir))
	assert.True(t, fileutils.DirectoryExists(dir))

	// Idempotent on an existing directory.
	assert.NoError(t, fileutils.EnsureDirectoryExists(dir))
}

func TestWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.txt")
	require.NoError(t, fileutils.WriteFile(path, []byte("inhalt"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "inhalt", string(data))
}

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755))

	files, err := fileutils.ListPDFs(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "a.PDF"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.pdf"), files[1])
}

func TestListPDFsMissingDirectory(t *testing.T) {
	_, err := fileutils.ListPDFs(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
