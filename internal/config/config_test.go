package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "RENDER_WIDTH", "SESSION_TTL", "CATALOG_PATH", "CACHE_DIR"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "3000", c.Port)
	assert.True(t, c.Development())
	assert.Equal(t, 640, c.RenderWidth)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Empty(t, c.CatalogPath)
	assert.Equal(t, "cache/environments", c.CacheDir)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("RENDER_WIDTH", "1024")
	t.Setenv("RENDER_HEIGHT", "bad")
	t.Setenv("SESSION_TTL", "90s")
	c := Load()
	assert.Equal(t, "9000", c.Port)
	assert.False(t, c.Development())
	assert.Equal(t, 1024, c.RenderWidth)
	assert.Equal(t, 480, c.RenderHeight)
	assert.Equal(t, 90*time.Second, c.SessionTTL)
}

func TestPrefsRoundTripAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config", "configurator.json")
	assert.Equal(t, DefaultPrefs(), LoadPrefs(path))

	p := DefaultPrefs()
	p.AutoRotate = false
	p.CaptureDir = "out"
	p.Font = "Inter"
	require.NoError(t, SavePrefs(path, p))
	assert.Equal(t, p, LoadPrefs(path))

	require.NoError(t, os.WriteFile(path, []byte(`{"show_hud": false}`), 0o644))
	partial := LoadPrefs(path)
	assert.False(t, partial.ShowHUD)
	assert.True(t, partial.AutoRotate, "absent fields keep defaults")

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
	assert.Equal(t, DefaultPrefs(), LoadPrefs(path))
}
