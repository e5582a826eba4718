// Package configurator ties one customization session together: the selection store, the
// scene composer, a headless renderer and the capture service. It is the boundary the
// HTTP surface and the CLI talk to.
package configurator

import (
	"context"
	"image"
	"strings"
	"sync"
	"time"

	"vehicle-configurator/internal/capture"
	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/customization"
	"vehicle-configurator/internal/download"
	"vehicle-configurator/internal/metrics"
	"vehicle-configurator/internal/raster"
	"vehicle-configurator/internal/scene"

	"go.uber.org/zap"
)

// Input is the inbound selection interface: any subset of the customization fields plus
// the auto-rotate flag.
type Input struct {
	customization.Update
	AutoRotate *bool `json:"autoRotate,omitempty"`
}

// Quote is the outbound pricing interface. Collaborators treat TotalPrice as
// authoritative and never recompute it.
type Quote struct {
	Selection        customization.Selection `json:"selection"`
	Lines            []customization.Line    `json:"lines"`
	TotalPrice       int64                   `json:"totalPrice"`
	FormattedTotal   string                  `json:"formattedTotal"`
	HasModifications bool                    `json:"hasModifications"`
	AutoRotate       bool                    `json:"autoRotate"`
}

// Options sizes the headless renderer. When Source is set, captures read from it (a
// display window) instead of the headless renderer. CacheDir holds environment maps
// fetched from URLs.
type Options struct {
	Width    int
	Height   int
	Source   capture.FrameSource
	CacheDir string
}

// Session is one configurator. Its methods are safe to call from concurrent handlers;
// mutations are serialized so the store keeps a single writer.
type Session struct {
	ID      string
	Created time.Time

	log      *zap.Logger
	cat      *catalog.Catalog
	composer *scene.Composer
	renderer *raster.Renderer
	capture  *capture.Service

	mu       sync.Mutex
	store    *customization.Store
	touched  time.Time
	version  uint64 // bumped by every accepted change
	rendered uint64 // version of the last Render; 0 before the first
}

// NewSession starts a session at the catalog baseline. Nothing is rendered until Render.
func NewSession(id string, cat *catalog.Catalog, log *zap.Logger, opts Options) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", id))
	r := raster.New(opts.Width, opts.Height, log)
	var src capture.FrameSource = r
	if opts.Source != nil {
		src = opts.Source
	}
	now := time.Now()
	return &Session{
		ID:       id,
		Created:  now,
		log:      log,
		cat:      cat,
		composer: scene.NewComposer(cat, log, scene.WithLoader(download.NewCache(opts.CacheDir).Loader(scene.DecodeFile))),
		renderer: r,
		capture:  capture.New(src, log),
		store:    customization.NewStore(cat, log),
		touched:  now,
		version:  1,
	}
}

// Apply merges in into the selection and returns how many fields were ignored.
func (s *Session) Apply(in Input) (rejected int) {
	s.mu.Lock()
	rejected = s.store.Update(in.Update)
	s.touched = time.Now()
	if fieldCount(in.Update) > rejected {
		s.version++
	}
	s.mu.Unlock()

	if in.AutoRotate != nil {
		s.composer.SetAutoRotate(*in.AutoRotate)
	}
	metrics.RecordUpdate(fieldCount(in.Update)-rejected, rejected)
	if rejected > 0 {
		s.log.Debug("selection update partially ignored", zap.Int("rejected", rejected))
	}
	return rejected
}

// Reset restores the baseline selection.
func (s *Session) Reset() {
	s.mu.Lock()
	s.store.Reset()
	s.touched = time.Now()
	s.version++
	s.mu.Unlock()
	metrics.ResetsTotal.Inc()
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() customization.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Selection()
}

// Quote derives the price from the current selection.
func (s *Session) Quote() Quote {
	s.mu.Lock()
	q := Quote{
		Selection:        s.store.Selection(),
		Lines:            s.store.Breakdown(),
		TotalPrice:       s.store.TotalPrice(),
		HasModifications: s.store.HasModifications(),
	}
	s.mu.Unlock()
	q.FormattedTotal = catalog.FormatPrice(q.TotalPrice)
	q.AutoRotate = s.composer.State() == scene.Rotating
	metrics.QuoteTotal.Observe(float64(q.TotalPrice))
	return q
}

// Advance steps the composer frames times, as a display loop would.
func (s *Session) Advance(frames int) {
	for i := 0; i < frames; i++ {
		s.composer.Tick()
	}
}

// Render draws the current selection and retains it as the frame captures read.
func (s *Session) Render() *image.RGBA {
	s.mu.Lock()
	sel, v := s.store.Selection(), s.version
	s.mu.Unlock()

	img := s.renderer.Render(s.composer.Compose(sel))

	s.mu.Lock()
	s.rendered = max(s.rendered, v)
	s.mu.Unlock()
	return img
}

// Stale reports whether the selection changed after the last Render. It is false before
// the first Render, when captures are simply not ready.
func (s *Session) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered != 0 && s.rendered != s.version
}

// CaptureFrame returns the last rendered frame as PNG, or nil before the first Render.
func (s *Session) CaptureFrame(ctx context.Context) []byte {
	return s.capture.CaptureFrame(ctx)
}

// Thumbnail returns the last rendered frame scaled to width, or nil.
func (s *Session) Thumbnail(ctx context.Context, width int) []byte {
	return s.capture.Thumbnail(ctx, width)
}

// QuoteImage returns the last rendered frame captioned with the quote, or nil.
func (s *Session) QuoteImage(ctx context.Context) []byte {
	return s.capture.Quote(ctx, s.Caption())
}

// Save writes the current frame as a PNG under dir and returns its path.
func (s *Session) Save(ctx context.Context, dir string) (string, error) {
	return s.capture.Save(ctx, dir)
}

// Caption labels a quote image with brand, model, the modified categories and the total.
func (s *Session) Caption() capture.Caption {
	q := s.Quote()
	title := strings.TrimSpace(q.Selection.Brand + " " + q.Selection.Model)
	if title == "" {
		title = "Custom build"
	}
	c := capture.Caption{Title: title, Total: "Total " + q.FormattedTotal}
	for _, l := range q.Lines {
		if l.Price == 0 {
			continue
		}
		c.Lines = append(c.Lines, CategoryLabel(l.Category)+": "+l.Name+" "+catalog.FormatPrice(l.Price))
	}
	return c
}

// LoadEnvironment loads an environment map for this session's renders in the background.
func (s *Session) LoadEnvironment(ctx context.Context, path string) <-chan error {
	return s.composer.LoadEnvironment(ctx, path)
}

// Composer exposes rotation and camera controls.
func (s *Session) Composer() *scene.Composer { return s.composer }

// LastActive is when the selection was last read or changed.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.touched = now
	s.mu.Unlock()
}

// Close abandons in-flight environment loads.
func (s *Session) Close() {
	s.composer.Close()
}

func fieldCount(u customization.Update) int {
	n := 0
	for _, f := range []*string{u.BodyColor, u.Wheel, u.Headlight, u.Bumper, u.Spoiler, u.Decal, u.PaintProtection, u.Brand, u.Model} {
		if f != nil {
			n++
		}
	}
	return n
}

// CategoryLabel is the display name of a priced category.
func CategoryLabel(c catalog.Category) string {
	switch c {
	case catalog.Wheels:
		return "Wheels"
	case catalog.Headlights:
		return "Headlights"
	case catalog.Bumper:
		return "Bumper"
	case catalog.Spoiler:
		return "Spoiler"
	case catalog.Decal:
		return "Decals"
	case catalog.PaintProtection:
		return "Paint protection"
	}
	return string(c)
}
