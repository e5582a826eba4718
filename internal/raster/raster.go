// Package raster is a headless software renderer for scene graphs. It keeps the last
// completed frame until the next one replaces it, so captures can be serviced at any time
// after the first render without a window or GPU.
package raster

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sort"
	"sync"

	"vehicle-configurator/internal/geom"
	"vehicle-configurator/internal/metrics"
	"vehicle-configurator/internal/scene"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	nearPlane = 0.1
	farPlane  = 200
)

// ErrNoFrame is returned by Frame before the first Render completes.
var ErrNoFrame = errors.New("no frame rendered yet")

// Renderer draws scene graphs into RGBA images of a fixed size.
type Renderer struct {
	width  int
	height int
	log    *zap.Logger

	mu     sync.RWMutex
	last   *image.RGBA
	frames uint64
}

// New returns a renderer for width x height frames. Non-positive sizes fall back to 640x480.
func New(width, height int, log *zap.Logger) *Renderer {
	if width <= 0 || height <= 0 {
		width, height = 640, 480
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{width: width, height: height, log: log.Named("raster")}
}

// Size returns the frame size in pixels.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Frames is the number of completed renders.
func (r *Renderer) Frames() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frames
}

// Frame returns the most recently completed frame. The image is never written again.
func (r *Renderer) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return nil, ErrNoFrame
	}
	return r.last, nil
}

// Render draws g and makes it the retained frame.
func (r *Renderer) Render(g *scene.Graph) *image.RGBA {
	timer := metrics.NewTimer()
	f := newFrame(r.width, r.height, g)
	f.background(g.Environment)

	var opaque, glass []item
	g.Walk(func(p geom.Primitive, world mgl32.Mat4) {
		it := item{p: p, world: world}
		if p.Material.Alpha() < 1 {
			glass = append(glass, it)
			return
		}
		opaque = append(opaque, it)
	})
	// Glass goes back to front over the finished opaque pass.
	sort.SliceStable(glass, func(i, j int) bool {
		return f.distance(glass[i].world) > f.distance(glass[j].world)
	})
	for _, it := range opaque {
		f.draw(it)
	}
	for _, it := range glass {
		f.draw(it)
	}

	r.mu.Lock()
	r.last = f.img
	r.frames++
	r.mu.Unlock()

	d := timer.Duration()
	metrics.RecordRender("software", d)
	r.log.Debug("frame rendered", zap.Int("primitives", len(opaque)+len(glass)), zap.Duration("took", d))
	return f.img
}

type item struct {
	p     geom.Primitive
	world mgl32.Mat4
}

// frame is the per-render working state.
type frame struct {
	img    *image.RGBA
	depth  []float32
	w, h   int
	vp     mgl32.Mat4
	eye    mgl32.Vec3
	lights []scene.Light
}

func newFrame(w, h int, g *scene.Graph) *frame {
	cam := g.Camera
	fovy := cam.FovY
	if fovy <= 0 {
		fovy = scene.DefaultFovY
	}
	eye := mgl32.Vec3(cam.Position)
	target := mgl32.Vec3(cam.Target)
	if eye == target {
		eye = target.Add(mgl32.Vec3{0, 0, 1})
	}
	proj := mgl32.Perspective(mgl32.DegToRad(fovy), float32(w)/float32(h), nearPlane, farPlane)
	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
	depth := make([]float32, w*h)
	for i := range depth {
		depth[i] = 1
	}
	return &frame{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		depth:  depth,
		w:      w,
		h:      h,
		vp:     proj.Mul4(view),
		eye:    eye,
		lights: g.Lights,
	}
}

func (f *frame) distance(world mgl32.Mat4) float32 {
	return world.Col(3).Vec3().Sub(f.eye).Len()
}

// background fills every pixel with the environment seen along its view ray: the map
// when one is loaded, otherwise the sky/horizon/ground gradient.
func (f *frame) background(env scene.Environment) {
	inv := f.vp.Inv()
	far := func(x, y float32) mgl32.Vec3 {
		p := inv.Mul4x1(mgl32.Vec4{x, y, 1, 1})
		return p.Vec3().Mul(1 / p.W())
	}
	// Far-plane points are affine in NDC, so corners are enough.
	bl, br, tl := far(-1, -1), far(1, -1), far(-1, 1)
	dx, dy := br.Sub(bl), tl.Sub(bl)

	for y := 0; y < f.h; y++ {
		ny := 1 - (float32(y)+0.5)/float32(f.h)
		for x := 0; x < f.w; x++ {
			nx := (float32(x) + 0.5) / float32(f.w)
			dir := bl.Add(dx.Mul(nx)).Add(dy.Mul(ny)).Sub(f.eye).Normalize()
			f.set(x, y, sampleEnv(env, dir))
		}
	}
}

func sampleEnv(env scene.Environment, dir mgl32.Vec3) color.RGBA {
	if env.Image != nil {
		b := env.Image.Bounds()
		u := math32.Atan2(dir[2], dir[0])/(2*math32.Pi) + 0.5
		v := 0.5 - math32.Asin(clamp(dir[1], -1, 1))/math32.Pi
		px := b.Min.X + min(int(u*float32(b.Dx())), b.Dx()-1)
		py := b.Min.Y + min(int(v*float32(b.Dy())), b.Dy()-1)
		c := color.RGBAModel.Convert(env.Image.At(px, py)).(color.RGBA)
		c.A = 0xff
		return c
	}
	if dir[1] >= 0 {
		return lerp(env.Horizon, env.Sky, clamp(dir[1]*2, 0, 1))
	}
	return lerp(env.Horizon, env.Ground, clamp(-dir[1]*4, 0, 1))
}

// clipVert is a clip-space position.
type clipVert = mgl32.Vec4

func (f *frame) draw(it item) {
	mesh := meshes[it.p.Kind]
	if mesh == nil {
		return
	}
	m := it.p.Material
	alpha := m.Alpha()
	double := it.p.Kind == geom.Plane
	for _, t := range mesh {
		var w [3]mgl32.Vec3
		for i := range t {
			w[i] = it.world.Mul4x1(t[i].Vec4(1)).Vec3()
		}
		n := w[1].Sub(w[0]).Cross(w[2].Sub(w[0]))
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		if n.Dot(f.eye.Sub(w[0])) <= 0 {
			if !double {
				continue
			}
			n = n.Mul(-1)
		}
		centroid := w[0].Add(w[1]).Add(w[2]).Mul(1.0 / 3)
		c := shade(m, n, centroid, f.eye, f.lights)

		poly := []clipVert{
			f.vp.Mul4x1(w[0].Vec4(1)),
			f.vp.Mul4x1(w[1].Vec4(1)),
			f.vp.Mul4x1(w[2].Vec4(1)),
		}
		poly = clipNear(poly)
		for i := 1; i+1 < len(poly); i++ {
			f.fill(poly[0], poly[i], poly[i+1], c, alpha)
		}
	}
}

// clipNear clips a convex polygon against the near plane (z >= -w).
func clipNear(in []clipVert) []clipVert {
	inside := func(v clipVert) bool { return v.Z() >= -v.W() }
	var out []clipVert
	for i := range in {
		a, b := in[i], in[(i+1)%len(in)]
		ain, bin := inside(a), inside(b)
		if ain {
			out = append(out, a)
		}
		if ain != bin {
			da, db := a.Z()+a.W(), b.Z()+b.W()
			t := da / (da - db)
			out = append(out, a.Add(b.Sub(a).Mul(t)))
		}
	}
	return out
}

// fill rasterizes one clip-space triangle with a flat color.
func (f *frame) fill(a, b, c clipVert, col color.RGBA, alpha float32) {
	var sx, sy, sz [3]float32
	for i, v := range [3]clipVert{a, b, c} {
		if v.W() <= 0 {
			return
		}
		sx[i] = (v.X()/v.W() + 1) * 0.5 * float32(f.w)
		sy[i] = (1 - v.Y()/v.W()) * 0.5 * float32(f.h)
		sz[i] = v.Z() / v.W()
	}
	area := edge(sx[0], sy[0], sx[1], sy[1], sx[2], sy[2])
	if area == 0 {
		return
	}
	minX := max(0, int(math32.Floor(min(sx[0], sx[1], sx[2]))))
	maxX := min(f.w-1, int(math32.Ceil(max(sx[0], sx[1], sx[2]))))
	minY := max(0, int(math32.Floor(min(sy[0], sy[1], sy[2]))))
	maxY := min(f.h-1, int(math32.Ceil(max(sy[0], sy[1], sy[2]))))

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(sx[1], sy[1], sx[2], sy[2], px, py) / area
			w1 := edge(sx[2], sy[2], sx[0], sy[0], px, py) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*sz[0] + w1*sz[1] + w2*sz[2]
			i := y*f.w + x
			if z < -1 || z >= f.depth[i] {
				continue
			}
			if alpha < 1 {
				f.set(x, y, lerp(f.at(x, y), col, alpha))
				continue
			}
			f.depth[i] = z
			f.set(x, y, col)
		}
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (f *frame) set(x, y int, c color.RGBA) {
	i := f.img.PixOffset(x, y)
	f.img.Pix[i], f.img.Pix[i+1], f.img.Pix[i+2], f.img.Pix[i+3] = c.R, c.G, c.B, 0xff
}

func (f *frame) at(x, y int) color.RGBA {
	return f.img.RGBAAt(x, y)
}

func lerp(a, b color.RGBA, t float32) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xff}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
