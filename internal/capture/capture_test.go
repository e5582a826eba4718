package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/customization"
	"vehicle-configurator/internal/raster"
	"vehicle-configurator/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	img   image.Image
	err   error
	calls int
}

func (s *stubSource) Frame(ctx context.Context) (image.Image, error) {
	s.calls++
	return s.img, s.err
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestCaptureBeforeFirstFrameIsNil(t *testing.T) {
	svc := New(&stubSource{err: errors.New("surface missing")}, zap.NewNop())
	assert.Nil(t, svc.CaptureFrame(context.Background()))
	assert.Nil(t, svc.Thumbnail(context.Background(), 64))
	assert.Nil(t, svc.Quote(context.Background(), Caption{Title: "x"}))

	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestCaptureWithoutSource(t *testing.T) {
	assert.Nil(t, New(nil, nil).CaptureFrame(context.Background()))
	var svc *Service
	assert.Nil(t, svc.CaptureFrame(context.Background()))
}

func TestEmptyFrameIsNotReady(t *testing.T) {
	svc := New(&stubSource{img: image.NewRGBA(image.Rect(0, 0, 0, 0))}, zap.NewNop())
	assert.Nil(t, svc.CaptureFrame(context.Background()))
}

func TestCaptureFrameEncodesPNG(t *testing.T) {
	src := &stubSource{img: solid(20, 10, color.RGBA{10, 20, 30, 255})}
	svc := New(src, zap.NewNop())
	data := svc.CaptureFrame(context.Background())
	require.NotNil(t, data)

	img := decode(t, data)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())
	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, []uint32{10, 20, 30}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestCaptureIsIdempotent(t *testing.T) {
	src := &stubSource{img: solid(8, 8, color.RGBA{200, 0, 0, 255})}
	svc := New(src, zap.NewNop())
	first := svc.CaptureFrame(context.Background())
	second := svc.CaptureFrame(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, 2, src.calls)
}

func TestThumbnailKeepsAspect(t *testing.T) {
	svc := New(&stubSource{img: solid(400, 200, color.RGBA{1, 2, 3, 255})}, zap.NewNop())
	img := decode(t, svc.Thumbnail(context.Background(), 100))
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	small := decode(t, svc.Thumbnail(context.Background(), 1000))
	assert.Equal(t, 400, small.Bounds().Dx(), "never upscaled")

	def := decode(t, svc.Thumbnail(context.Background(), 0))
	assert.Equal(t, DefaultThumbWidth, def.Bounds().Dx())
}

func TestQuoteAddsCaptionStrip(t *testing.T) {
	frame := solid(200, 100, color.RGBA{0, 0, 0xff, 0xff})
	svc := New(&stubSource{img: frame}, zap.NewNop())
	data := svc.Quote(context.Background(), Caption{
		Title: "Mahindra Thar",
		Lines: []string{"Wheels: Sport", "Spoiler: GT"},
		Total: "Total " + catalog.FormatPrice(85000),
	})
	img := decode(t, data)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100+4*lineHeight+2*padding, img.Bounds().Dy())

	r, g, b, _ := img.At(100, 50).RGBA()
	assert.Equal(t, []uint32{0, 0, 0xff}, []uint32{r >> 8, g >> 8, b >> 8}, "frame copied unchanged")

	lit := 0
	for y := 100; y < img.Bounds().Dy(); y++ {
		for x := 0; x < 200; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r>>8 > 0x80 {
				lit++
			}
		}
	}
	assert.Positive(t, lit, "caption text drawn")
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures")
	svc := New(&stubSource{img: solid(4, 4, color.RGBA{255, 255, 255, 255})}, zap.NewNop())
	path, err := svc.Save(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decode(t, data)

	_, err = New(&stubSource{err: errors.New("nope")}, zap.NewNop()).Save(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestCaptureFromSoftwareRenderer(t *testing.T) {
	c := catalog.Default(zap.NewNop())
	r := raster.New(80, 60, zap.NewNop())
	svc := New(r, zap.NewNop())
	require.Nil(t, svc.CaptureFrame(context.Background()), "nothing painted yet")

	g := scene.Build(c, customization.Baseline(c), scene.View{Camera: scene.DefaultOrbit(60).Camera(), Environment: scene.NeutralEnvironment()})
	r.Render(g)
	data := svc.CaptureFrame(context.Background())
	require.NotNil(t, data)
	assert.Equal(t, image.Rect(0, 0, 80, 60), decode(t, data).Bounds())
	assert.Equal(t, data, svc.CaptureFrame(context.Background()))
}
