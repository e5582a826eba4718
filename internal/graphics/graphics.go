package graphics

import (
	"context"
	"errors"
	"image"
	"sync"

	"vehicle-configurator/internal/capture"
	"vehicle-configurator/internal/metrics"
	"vehicle-configurator/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// ErrWindowClosed is returned to capture requests pending when the window closes.
var ErrWindowClosed = errors.New("window closed")

// Options configures the viewer window.
type Options struct {
	Title      string
	Width      int
	Height     int
	FPS        int
	Fullscreen bool
}

type request struct {
	reply chan image.Image
}

// Window owns the raylib window and main loop. It is also a capture.FrameSource: Frame
// asks the loop to read back the next completed 3D pass, so captures never include the
// HUD or console.
type Window struct {
	// OnOpen runs once the GPU context exists, before the first frame.
	OnOpen func()
	// OnClose runs after the loop ends, while the GPU context still exists.
	OnClose func()

	opts Options
	log  *zap.Logger

	requests chan request
	done     chan struct{}

	mu   sync.Mutex
	open bool
}

// New returns a window that is not yet open. Run opens it.
func New(opts Options, log *zap.Logger) *Window {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Window{
		opts:     opts,
		log:      log.Named("window"),
		requests: make(chan request),
		done:     make(chan struct{}),
	}
}

// Frame waits for the draw loop to read back its next 3D pass.
func (w *Window) Frame(ctx context.Context) (image.Image, error) {
	w.mu.Lock()
	open := w.open
	w.mu.Unlock()
	if !open {
		return nil, capture.ErrNotReady
	}
	req := request{reply: make(chan image.Image, 1)}
	select {
	case w.requests <- req:
	case <-w.done:
		return nil, ErrWindowClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case img := <-req.reply:
		return img, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run opens the window and drives the main loop until it is closed. Each frame it calls
// update (input), then draw3D (the world, inside its own 3D mode), services pending
// captures, then draws overlay (HUD, console). ESC belongs to the console, so the window
// closes only through its close button.
func (w *Window) Run(update, draw3D, overlay func()) {
	flags := uint32(rl.FlagMsaa4xHint | rl.FlagVsyncHint | rl.FlagWindowResizable)
	if w.opts.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(w.opts.Width), int32(w.opts.Height), w.opts.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(int32(w.opts.FPS))

	w.mu.Lock()
	w.open = true
	w.mu.Unlock()
	defer w.shutdown()
	if w.OnClose != nil {
		defer w.OnClose()
	}
	if w.OnOpen != nil {
		w.OnOpen()
	}
	w.log.Info("window opened", zap.Int("width", w.opts.Width), zap.Int("height", w.opts.Height))

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		t := metrics.NewTimer()
		draw3D()
		metrics.RecordRender("window", t.Duration())
		w.serviceCaptures()
		overlay()
		rl.EndDrawing()
	}
}

// serviceCaptures answers every request queued since the last frame with one readback.
func (w *Window) serviceCaptures() {
	var pending []request
drain:
	for {
		select {
		case req := <-w.requests:
			pending = append(pending, req)
		default:
			break drain
		}
	}
	if len(pending) == 0 {
		return
	}
	img := readScreen()
	for _, req := range pending {
		req.reply <- img
	}
}

func (w *Window) shutdown() {
	w.mu.Lock()
	w.open = false
	w.mu.Unlock()
	close(w.done)
	w.log.Info("window closed")
}

// readScreen copies the back buffer into Go memory.
func readScreen() image.Image {
	shot := rl.LoadImageFromScreen()
	defer rl.UnloadImage(shot)
	cols := rl.LoadImageColors(shot)
	defer rl.UnloadImageColors(cols)

	img := image.NewRGBA(image.Rect(0, 0, int(shot.Width), int(shot.Height)))
	for i, c := range cols {
		img.Pix[i*4+0] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// Camera converts the composer's camera to raylib's.
func Camera(c scene.Camera) rl.Camera3D {
	fovy := c.FovY
	if fovy <= 0 {
		fovy = scene.DefaultFovY
	}
	return rl.Camera3D{
		Position:   rl.NewVector3(c.Position[0], c.Position[1], c.Position[2]),
		Target:     rl.NewVector3(c.Target[0], c.Target[1], c.Target[2]),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       fovy,
		Projection: rl.CameraPerspective,
	}
}
