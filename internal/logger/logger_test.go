package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLinesRecordEntries(t *testing.T) {
	l := Discard()
	l.Log("cmd set -wheel sport")
	l.Warn("environment map unavailable", zap.String("path", "x.hdr"))
	l.Debug("ignored variant")

	lines := l.Lines()
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "] cmd set -wheel sport"), lines[0])
	assert.Contains(t, lines[1], "WARN environment map unavailable")
	assert.True(t, strings.HasPrefix(lines[2], "["))
}

func TestLinesAreBounded(t *testing.T) {
	l, err := New(Config{Level: "info", Format: "console", OutputPath: "stderr", Lines: 3})
	require.NoError(t, err)
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		l.Info(m)
	}
	lines := l.Lines()
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "c"))
	assert.True(t, strings.HasSuffix(lines[2], "e"))

	lines[0] = "changed"
	assert.NotEqual(t, "changed", l.Lines()[0], "Lines returns a copy")
}

func TestLevelFiltersLines(t *testing.T) {
	l, err := New(Config{Level: "warn", OutputPath: "stderr"})
	require.NoError(t, err)
	l.Info("quiet")
	l.Error("loud")
	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "loud")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "viewer.log")
	l, err := New(Config{Level: "debug", Format: "json", OutputPath: path})
	require.NoError(t, err)
	l.Info("capture saved", zap.String("path", "captures/a.png"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"capture saved"`)
}

func TestBadLevelDefaultsToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPath: "stderr"})
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("shown")
	assert.Len(t, l.Lines(), 1)
}
