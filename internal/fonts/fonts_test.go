package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("font"), 0o644))
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Inter", "Inter-Regular.ttf"))
	touch(t, filepath.Join(dir, "Mono.OTF"))
	touch(t, filepath.Join(dir, "README.md"))

	got, err := ScanDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Inter/Inter-Regular.ttf", "Mono.OTF"}, got)

	got, err = ScanDir(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindPrefersRegular(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Google_Sans", "GoogleSans-Bold.ttf"))
	touch(t, filepath.Join(dir, "Google_Sans", "GoogleSans-Regular.ttf"))

	got, err := Find("google sans", dir)
	require.NoError(t, err)
	assert.Equal(t, "GoogleSans-Regular.ttf", filepath.Base(got))

	got, err = Find("GoogleSans-Bold.ttf", dir)
	require.NoError(t, err)
	assert.Equal(t, "GoogleSans-Bold.ttf", filepath.Base(got))

	_, err = Find("Comic", dir)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = Find("  ", dir)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindAcceptsAPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Custom.ttf")
	touch(t, path)
	got, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}
