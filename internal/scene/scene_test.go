package scene

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/customization"
	"vehicle-configurator/internal/geom"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixtures(t *testing.T) (*catalog.Catalog, customization.Selection) {
	t.Helper()
	c := catalog.Default(zap.NewNop())
	return c, customization.Baseline(c)
}

func TestBuildComposesVehicle(t *testing.T) {
	c, sel := fixtures(t)
	g := Build(c, sel, View{Environment: NeutralEnvironment()})
	for _, name := range []string{"body", "wheels", "overlay"} {
		assert.NotNil(t, g.Vehicle.Child(name), name)
	}
	assert.Nil(t, g.Vehicle.Child("overlay").Child("spoiler"))

	sel.Spoiler, sel.Decal = "gt", "racing"
	full := Build(c, sel, View{})
	assert.NotNil(t, full.Vehicle.Child("overlay").Child("spoiler"))
	assert.NotNil(t, full.Vehicle.Child("overlay").Child("decals"))
	assert.Greater(t, full.Count(), g.Count())
}

func TestBuildIsPure(t *testing.T) {
	c, sel := fixtures(t)
	v := View{Angle: 0.3, Camera: DefaultOrbit(60).Camera(), Environment: NeutralEnvironment()}
	assert.Equal(t, Build(c, sel, v), Build(c, sel, v))
}

func TestBackdropDoesNotRotate(t *testing.T) {
	c, sel := fixtures(t)
	a := Build(c, sel, View{Angle: 0})
	b := Build(c, sel, View{Angle: 1.2})
	assert.Equal(t, a.Backdrop, b.Backdrop)
	assert.Equal(t, geom.Vec3{0, 1.2, 0}, b.Vehicle.Rotation)

	var groundWorld mgl32.Mat4
	b.Walk(func(p geom.Primitive, world mgl32.Mat4) {
		if p.Name == "ground" {
			groundWorld = world
		}
	})
	assert.Equal(t, geom.Transform(geom.Vec3{}, geom.Vec3{}, geom.Vec3{40, 1, 40}), groundWorld)
}

func TestRigHasKeyFillAndRim(t *testing.T) {
	kinds := map[LightKind]int{}
	names := map[string]bool{}
	for _, l := range Rig() {
		kinds[l.Kind]++
		names[l.Name] = true
	}
	assert.Equal(t, 1, kinds[Ambient])
	assert.Equal(t, 1, kinds[Hemisphere])
	assert.GreaterOrEqual(t, kinds[Directional], 3)
	for _, n := range []string{"key", "fill", "rim"} {
		assert.True(t, names[n], n)
	}
}

func TestRotationStateMachine(t *testing.T) {
	c, _ := fixtures(t)
	comp := NewComposer(c, zap.NewNop())
	require.Equal(t, Rotating, comp.State())

	comp.Tick()
	comp.Tick()
	assert.InDelta(t, 2*DefaultStep, comp.Angle(), 1e-7)

	assert.Equal(t, Paused, comp.Toggle())
	comp.Tick()
	assert.InDelta(t, 2*DefaultStep, comp.Angle(), 1e-7)

	assert.Equal(t, Rotating, comp.Toggle())
	comp.Tick()
	assert.InDelta(t, 3*DefaultStep, comp.Angle(), 1e-7)

	comp.SetAutoRotate(false)
	assert.Equal(t, Paused, comp.State())
	assert.Equal(t, "paused", comp.State().String())
}

func TestDragMovesCameraButKeepsRotationState(t *testing.T) {
	c, _ := fixtures(t)
	comp := NewComposer(c, zap.NewNop())
	before := comp.Camera().Position

	comp.BeginDrag()
	comp.Drag(120, 0)
	assert.Equal(t, Rotating, comp.State())
	during := comp.Camera().Position
	assert.NotEqual(t, before, during)
	comp.Tick()
	assert.Equal(t, during, comp.Camera().Position, "no inertia while dragging")
	comp.EndDrag()
	assert.Equal(t, Rotating, comp.State())
}

func TestOrbitClampsPolarAndDistance(t *testing.T) {
	o := DefaultOrbit(60)
	o.BeginDrag()
	o.Drag(0, -100000)
	assert.Equal(t, o.MaxPolar, o.Polar)
	o.Drag(0, 100000)
	assert.Equal(t, o.MinPolar, o.Polar)
	o.EndDrag()

	o.Zoom(1000)
	for i := 0; i < 600; i++ {
		o.Update()
	}
	assert.InDelta(t, o.MaxDistance, o.Distance, 1e-3)
	o.Zoom(-1000)
	for i := 0; i < 600; i++ {
		o.Update()
	}
	assert.InDelta(t, o.MinDistance, o.Distance, 1e-3)
	assert.Greater(t, o.Position()[1], o.Target[1], "camera stays above the target")
	assert.Equal(t, DefaultOrbit(60).Position(), DefaultOrbit(60).Camera().Position, "callable on a returned orbit")
}

func TestOrbitInertiaDecays(t *testing.T) {
	o := DefaultOrbit(60)
	o.BeginDrag()
	o.Drag(50, 0)
	o.EndDrag()
	start := o.Azimuth
	o.Update()
	assert.Greater(t, o.Azimuth, start)
	for i := 0; i < 600; i++ {
		o.Update()
	}
	settled := o.Azimuth
	o.Update()
	assert.InDelta(t, settled, o.Azimuth, 1e-5)
}

func writePNG(t *testing.T, top, bottom color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			c := top
			if y >= 3 {
				c = bottom
			}
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "env.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadEnvironment(t *testing.T) {
	c, sel := fixtures(t)
	comp := NewComposer(c, zap.NewNop())
	defer comp.Close()

	sky := color.RGBA{0, 0, 255, 255}
	ground := color.RGBA{0, 255, 0, 255}
	path := writePNG(t, sky, ground)

	require.NoError(t, <-comp.LoadEnvironment(context.Background(), path))
	env := comp.Environment()
	assertNear(t, sky, env.Sky)
	assertNear(t, ground, env.Ground)
	assert.False(t, env.Fallback)
	assert.NotNil(t, env.Image)
	assert.Equal(t, env.Ground, comp.Compose(sel).Environment.Ground)
}

func assertNear(t *testing.T, want, got color.RGBA) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1)
	assert.InDelta(t, want.G, got.G, 1)
	assert.InDelta(t, want.B, got.B, 1)
}

func TestMissingEnvironmentFallsBackToNeutral(t *testing.T) {
	c, sel := fixtures(t)
	comp := NewComposer(c, zap.NewNop())
	defer comp.Close()

	err := <-comp.LoadEnvironment(context.Background(), filepath.Join(t.TempDir(), "missing.hdr"))
	require.Error(t, err)
	env := comp.Environment()
	assert.True(t, env.Fallback)
	assert.Equal(t, NeutralEnvironment().Sky, env.Sky)

	g := comp.Compose(sel)
	assert.Positive(t, g.Vehicle.Count(), "scene still renders")
}

func TestLoadAbandonedAfterClose(t *testing.T) {
	c, _ := fixtures(t)
	release := make(chan struct{})
	slow := func(ctx context.Context, path string) (image.Image, error) {
		<-release
		return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
	}
	comp := NewComposer(c, zap.NewNop(), WithLoader(slow))
	before := comp.Environment()

	done := comp.LoadEnvironment(context.Background(), "env.png")
	comp.Close()
	close(release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("load did not finish")
	}
	assert.Equal(t, before, comp.Environment())
	assert.ErrorIs(t, <-comp.LoadEnvironment(context.Background(), "again.png"), ErrClosed)
}

func TestNewerLoadSupersedesOlder(t *testing.T) {
	c, _ := fixtures(t)
	first := make(chan struct{})
	loader := func(ctx context.Context, path string) (image.Image, error) {
		if path == "old.png" {
			<-first
		}
		img := image.NewRGBA(image.Rect(0, 0, 1, 3))
		return img, nil
	}
	comp := NewComposer(c, zap.NewNop(), WithLoader(loader))
	defer comp.Close()

	old := comp.LoadEnvironment(context.Background(), "old.png")
	require.NoError(t, <-comp.LoadEnvironment(context.Background(), "new.png"))
	close(first)
	err := <-old
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.False(t, errors.Is(err, ErrClosed), "the composer is still open")
	assert.Equal(t, "new.png", comp.Environment().Source)
}

func TestCancelledLoadLeavesEnvironment(t *testing.T) {
	c, _ := fixtures(t)
	loader := func(ctx context.Context, path string) (image.Image, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	comp := NewComposer(c, zap.NewNop(), WithLoader(loader))
	defer comp.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := comp.LoadEnvironment(ctx, "env.png")
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, comp.Environment().Fallback)
}
