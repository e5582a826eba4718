package scene

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/customization"
	"vehicle-configurator/internal/metrics"

	"github.com/anthonynsimon/bild/transform"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// RotationState is the auto-rotation state machine: Rotating or Paused.
type RotationState int

const (
	Rotating RotationState = iota
	Paused
)

func (s RotationState) String() string {
	if s == Rotating {
		return "rotating"
	}
	return "paused"
}

// DefaultStep is the angle the vehicle turns per rendered frame while rotating.
const DefaultStep = float32(0.005)

var (
	// ErrClosed is returned for work abandoned because the composer was closed.
	ErrClosed = errors.New("composer closed")
	// ErrSuperseded is returned by a load replaced by a newer LoadEnvironment call.
	ErrSuperseded = errors.New("environment load superseded")
)

// Loader decodes an environment map.
type Loader func(ctx context.Context, path string) (image.Image, error)

// Composer owns the state that outlives a single frame: rotation, orbit camera and the
// environment. Selection changes never touch it; each frame calls Compose with the
// current selection.
type Composer struct {
	cat  *catalog.Catalog
	log  *zap.Logger
	load Loader

	mu     sync.Mutex
	state  RotationState
	angle  float32
	step   float32
	orbit  Orbit
	env    Environment
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// Option configures a Composer.
type Option func(*Composer)

// WithLoader replaces the file-based environment loader.
func WithLoader(l Loader) Option { return func(c *Composer) { c.load = l } }

// WithStep sets the per-frame rotation increment.
func WithStep(step float32) Option { return func(c *Composer) { c.step = step } }

// WithAutoRotate sets the initial rotation state.
func WithAutoRotate(on bool) Option {
	return func(c *Composer) {
		if on {
			c.state = Rotating
		} else {
			c.state = Paused
		}
	}
}

// WithFPS sizes the orbit springs for the given frame rate.
func WithFPS(fps int) Option { return func(c *Composer) { c.orbit = DefaultOrbit(fps) } }

// NewComposer starts rotating with the neutral environment.
func NewComposer(cat *catalog.Catalog, log *zap.Logger, opts ...Option) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Composer{
		cat:   cat,
		log:   log.Named("scene"),
		load:  DecodeFile,
		state: Rotating,
		step:  DefaultStep,
		orbit: DefaultOrbit(60),
		env:   NeutralEnvironment(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the rotation state.
func (c *Composer) State() RotationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Toggle flips between Rotating and Paused and returns the new state.
func (c *Composer) Toggle() RotationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Rotating {
		c.state = Paused
	} else {
		c.state = Rotating
	}
	return c.state
}

// SetAutoRotate forces the rotation state.
func (c *Composer) SetAutoRotate(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.state = Rotating
	} else {
		c.state = Paused
	}
}

// Angle returns the vehicle's current yaw.
func (c *Composer) Angle() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.angle
}

// Tick advances one rendered frame: the yaw moves by the step while rotating, and the
// orbit runs its inertia and zoom easing. Orbit drags never change the rotation state.
func (c *Composer) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Rotating {
		c.angle += c.step
	}
	c.orbit.Update()
}

// BeginDrag, Drag, EndDrag and Zoom forward user camera input to the orbit.
func (c *Composer) BeginDrag() {
	c.mu.Lock()
	c.orbit.BeginDrag()
	c.mu.Unlock()
}

func (c *Composer) Drag(dx, dy float32) {
	c.mu.Lock()
	c.orbit.Drag(dx, dy)
	c.mu.Unlock()
}

func (c *Composer) EndDrag() {
	c.mu.Lock()
	c.orbit.EndDrag()
	c.mu.Unlock()
}

func (c *Composer) Zoom(delta float32) {
	c.mu.Lock()
	c.orbit.Zoom(delta)
	c.mu.Unlock()
}

// Camera returns the current camera.
func (c *Composer) Camera() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orbit.Camera()
}

// Orbit returns a copy of the orbit state.
func (c *Composer) Orbit() Orbit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orbit
}

// Environment returns the current environment; neutral until a map has loaded.
func (c *Composer) Environment() Environment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.env
}

// Compose builds the frame for sel with the current rotation, camera and environment.
func (c *Composer) Compose(sel customization.Selection) *Graph {
	c.mu.Lock()
	v := View{Angle: c.angle, Camera: c.orbit.Camera(), Environment: c.env}
	c.mu.Unlock()
	return Build(c.cat, sel, v)
}

// LoadEnvironment decodes an environment map in the background and returns a channel
// that receives the outcome once. Interaction is never blocked; the scene keeps the
// neutral environment until the load succeeds. A failed load switches to the neutral
// fallback and is logged. Results of a load superseded by a newer call, cancelled
// through ctx, or finishing after Close are dropped without touching the composer.
func (c *Composer) LoadEnvironment(ctx context.Context, path string) <-chan error {
	done := make(chan error, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		done <- ErrClosed
		return done
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.gen++
	gen := c.gen
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		defer cancel()
		img, err := c.load(ctx, path)
		if err == nil {
			err = ctx.Err()
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		switch {
		case c.closed:
			done <- ErrClosed
			return
		case gen != c.gen:
			done <- ErrSuperseded
			return
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			done <- ctxErr
			return
		}
		metrics.RecordEnvironment(err)
		if err != nil {
			c.log.Warn("environment map unavailable, using neutral backdrop", zap.String("path", path), zap.Error(err))
			env := NeutralEnvironment()
			env.Source = path
			env.Fallback = true
			c.env = env
			done <- err
			return
		}
		c.env = EnvironmentFrom(img, path)
		c.log.Info("environment map loaded", zap.String("path", path))
		done <- nil
	}()
	return done
}

// Close abandons any in-flight environment load. Later loads are refused.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// DecodeFile reads an image file (png, jpeg, webp or bmp).
func DecodeFile(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// EnvironmentFrom derives backdrop colors from an equirectangular map by averaging its
// upper, middle and lower thirds.
func EnvironmentFrom(img image.Image, source string) Environment {
	bands := transform.Resize(img, 1, 3, transform.Box)
	at := func(y int) color.RGBA {
		c := bands.RGBAAt(0, y)
		c.A = 0xff
		return c
	}
	return Environment{
		Sky:     at(0),
		Horizon: at(1),
		Ground:  at(2),
		Image:   img,
		Source:  source,
	}
}
