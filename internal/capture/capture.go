// Package capture turns the most recently completed frame into portable images for
// preview, download and quote attachment. Capture never fails loudly: when no frame is
// available the byte-returning calls give nil, meaning "try again later".
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"vehicle-configurator/internal/metrics"

	"github.com/anthonynsimon/bild/transform"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrNotReady means the render surface has not completed a frame yet.
var ErrNotReady = errors.New("capture: frame not ready")

// DefaultThumbWidth bounds thumbnail width in pixels.
const DefaultThumbWidth = 320

// FrameSource services a capture request against its latest completed frame.
type FrameSource interface {
	Frame(ctx context.Context) (image.Image, error)
}

// Service reads frames from a FrameSource. It holds no state of its own, so any number of
// calls leave the configurator untouched.
type Service struct {
	src FrameSource
	log *zap.Logger
}

// New returns a capture service over src.
func New(src FrameSource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{src: src, log: log.Named("capture")}
}

// Snapshot returns the current frame or an error wrapping ErrNotReady.
func (s *Service) Snapshot(ctx context.Context) (image.Image, error) {
	if s == nil || s.src == nil {
		return nil, ErrNotReady
	}
	img, err := s.src.Frame(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNotReady
	}
	return img, nil
}

// CaptureFrame returns the current frame as PNG, or nil when none is available.
func (s *Service) CaptureFrame(ctx context.Context) []byte {
	return s.capture(ctx, "frame", func(img image.Image) image.Image { return img })
}

// Thumbnail returns the current frame scaled to at most width pixels wide, as PNG.
func (s *Service) Thumbnail(ctx context.Context, width int) []byte {
	if width <= 0 {
		width = DefaultThumbWidth
	}
	return s.capture(ctx, "thumbnail", func(img image.Image) image.Image {
		return Scale(img, width)
	})
}

// Quote returns the current frame with a caption strip below it, as PNG.
func (s *Service) Quote(ctx context.Context, c Caption) []byte {
	return s.capture(ctx, "quote", func(img image.Image) image.Image {
		return Annotate(img, c)
	})
}

// Save writes the current frame to dir as capture-<id>.png and returns the path.
func (s *Service) Save(ctx context.Context, dir string) (string, error) {
	data := s.CaptureFrame(ctx)
	if data == nil {
		return "", ErrNotReady
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create capture dir: %w", err)
	}
	path := filepath.Join(dir, "capture-"+uuid.NewString()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write capture: %w", err)
	}
	s.log.Info("capture saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}

func (s *Service) capture(ctx context.Context, kind string, process func(image.Image) image.Image) []byte {
	img, err := s.Snapshot(ctx)
	if err != nil {
		s.logger().Debug("capture skipped", zap.String("kind", kind), zap.Error(err))
		metrics.RecordCapture(kind, 0)
		return nil
	}
	data, err := Encode(process(img))
	if err != nil {
		s.logger().Warn("capture encode failed", zap.String("kind", kind), zap.Error(err))
		metrics.RecordCapture(kind, 0)
		return nil
	}
	metrics.RecordCapture(kind, len(data))
	return data
}

func (s *Service) logger() *zap.Logger {
	if s == nil || s.log == nil {
		return zap.NewNop()
	}
	return s.log
}

// Encode writes img as PNG.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Scale shrinks img to width, keeping the aspect ratio. Images already narrower are
// returned unchanged.
func Scale(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() <= width {
		return img
	}
	height := max(1, b.Dy()*width/b.Dx())
	return transform.Resize(img, width, height, transform.Linear)
}

// Caption is the text strip under a quote image.
type Caption struct {
	Title string
	Lines []string
	Total string
}

const (
	lineHeight = 16
	padding    = 8
)

var (
	stripColor = color.RGBA{0x11, 0x14, 0x1a, 0xff}
	textColor  = color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	totalColor = color.RGBA{0xfa, 0xcc, 0x15, 0xff}
)

// Annotate draws img with c rendered in a strip beneath it.
func Annotate(img image.Image, c Caption) *image.RGBA {
	b := img.Bounds()
	rows := len(c.Lines) + 1
	if c.Total != "" {
		rows++
	}
	strip := rows*lineHeight + 2*padding
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+strip))
	draw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)
	draw.Draw(out, image.Rect(0, b.Dy(), b.Dx(), b.Dy()+strip), image.NewUniform(stripColor), image.Point{}, draw.Src)

	y := b.Dy() + padding + lineHeight - 4
	text(out, c.Title, padding, y, textColor)
	for _, l := range c.Lines {
		y += lineHeight
		text(out, l, padding, y, textColor)
	}
	if c.Total != "" {
		y += lineHeight
		text(out, c.Total, padding, y, totalColor)
	}
	return out
}

func text(dst draw.Image, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
