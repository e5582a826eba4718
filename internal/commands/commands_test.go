package commands

import (
	"context"
	"flag"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/configurator"
	"vehicle-configurator/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParse(t *testing.T) {
	args, ok := Parse("cmd set -wheel sport")
	require.True(t, ok)
	assert.Equal(t, []string{"set", "-wheel", "sport"}, args)

	args, ok = Parse("cmd ")
	assert.True(t, ok)
	assert.Nil(t, args)

	_, ok = Parse("hello")
	assert.False(t, ok)
	_, ok = Parse("CMD set")
	assert.False(t, ok)
}

func TestExecuteFreshFlagsEachRun(t *testing.T) {
	r := NewRegistry()
	var seen []string
	r.Register("echo", "print -msg", func(fs *flag.FlagSet) func() error {
		msg := fs.String("msg", "default", "")
		return func() error {
			seen = append(seen, *msg)
			return nil
		}
	})

	require.NoError(t, r.Execute([]string{"echo", "-msg", "one"}))
	require.NoError(t, r.Execute([]string{"echo"}))
	assert.Equal(t, []string{"one", "default"}, seen)

	assert.ErrorContains(t, r.Execute(nil), "missing subcommand")
	assert.ErrorContains(t, r.Execute([]string{"nope"}), "unknown command")
	assert.Error(t, r.Execute([]string{"echo", "-bogus"}))
	assert.Equal(t, []string{"echo - print -msg"}, r.Help())
	assert.True(t, r.Has("echo"))
	assert.False(t, r.Has("nope"))
}

type output struct {
	mu    sync.Mutex
	lines []string
	ch    chan string
}

func newOutput() *output { return &output{ch: make(chan string, 64)} }

func (o *output) write(s string) {
	o.mu.Lock()
	o.lines = append(o.lines, s)
	o.mu.Unlock()
	select {
	case o.ch <- s:
	default:
	}
}

func (o *output) all() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.lines, "\n")
}

type stillFrame struct{}

func (stillFrame) Frame(context.Context) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func setup(t *testing.T) (*Registry, *configurator.Session, *output) {
	t.Helper()
	s := configurator.NewSession("console", catalog.Default(zap.NewNop()), zap.NewNop(), configurator.Options{Source: stillFrame{}})
	t.Cleanup(s.Close)
	out := newOutput()
	r := NewRegistry()
	RegisterConfigurator(r, s, t.TempDir(), out.write)
	return r, s, out
}

func TestSetAppliesOnlyGivenFlags(t *testing.T) {
	r, s, out := setup(t)
	require.NoError(t, r.Execute([]string{"set", "-wheel", "sport", "-spoiler", "gt"}))
	sel := s.Selection()
	assert.Equal(t, "sport", sel.Wheel)
	assert.Equal(t, "gt", sel.Spoiler)
	assert.Equal(t, catalog.Default(zap.NewNop()).DefaultBodyColor(), sel.BodyColor)
	assert.Contains(t, out.all(), "total "+catalog.FormatPrice(70000))

	require.NoError(t, r.Execute([]string{"set", "-headlight", "laser"}))
	assert.Contains(t, out.all(), "ignored 1 unknown option(s)")
	assert.Equal(t, "standard", s.Selection().Headlight)

	assert.Error(t, r.Execute([]string{"set"}))
}

func TestResetAndPrice(t *testing.T) {
	r, s, out := setup(t)
	require.NoError(t, r.Execute([]string{"set", "-headlight", "led"}))
	require.NoError(t, r.Execute([]string{"price"}))
	assert.Contains(t, out.all(), "LED Matrix")

	require.NoError(t, r.Execute([]string{"reset"}))
	assert.False(t, s.Quote().HasModifications)
}

func TestRotate(t *testing.T) {
	r, s, _ := setup(t)
	c := s.Composer()
	require.NoError(t, r.Execute([]string{"rotate"}))
	assert.Equal(t, scene.Paused, c.State())
	require.NoError(t, r.Execute([]string{"rotate", "-on"}))
	assert.Equal(t, scene.Rotating, c.State())
	require.NoError(t, r.Execute([]string{"rotate", "-off"}))
	assert.Equal(t, scene.Paused, c.State())
	assert.Error(t, r.Execute([]string{"rotate", "-on", "-off"}))
}

func TestCaptureReportsPath(t *testing.T) {
	r, _, out := setup(t)
	dir := t.TempDir()
	require.NoError(t, r.Execute([]string{"capture", "-dir", dir}))
	select {
	case line := <-out.ch:
		assert.True(t, strings.HasPrefix(line, "saved "+dir), line)
	case <-time.After(2 * time.Second):
		t.Fatal("capture never reported")
	}
}

func TestRunLine(t *testing.T) {
	r, s, _ := setup(t)

	handled, err := r.Run("cmd set -bumper sport")
	assert.True(t, handled)
	require.NoError(t, err)
	assert.Equal(t, "sport", s.Selection().Bumper)

	handled, err = r.Run("set -decal racing")
	assert.True(t, handled)
	require.NoError(t, err)

	handled, err = r.Run("make it red")
	assert.False(t, handled)
	assert.NoError(t, err)

	handled, err = r.Run("cmd ")
	assert.True(t, handled)
	assert.Error(t, err)
}
