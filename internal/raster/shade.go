package raster

import (
	"image/color"

	"vehicle-configurator/internal/geom"
	"vehicle-configurator/internal/scene"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type rgb [3]float32

func toRGB(c color.RGBA) rgb {
	return rgb{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func (a rgb) add(b rgb) rgb       { return rgb{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a rgb) mul(b rgb) rgb       { return rgb{a[0] * b[0], a[1] * b[1], a[2] * b[2]} }
func (a rgb) scale(s float32) rgb { return rgb{a[0] * s, a[1] * s, a[2] * s} }

func (a rgb) rgba() color.RGBA {
	ch := func(v float32) uint8 { return uint8(clamp(v, 0, 1)*255 + 0.5) }
	return color.RGBA{ch(a[0]), ch(a[1]), ch(a[2]), 0xff}
}

// shade lights one flat face. Metals lose diffuse and tint their highlight; clearcoat
// adds a second, tighter highlight on top.
func shade(m geom.Material, n, p, eye mgl32.Vec3, lights []scene.Light) color.RGBA {
	base := toRGB(m.Color)
	v := eye.Sub(p).Normalize()
	white := rgb{1, 1, 1}
	specTint := white.scale(1 - m.Metalness).add(base.scale(m.Metalness))
	gloss := 1 - clamp(m.Roughness, 0, 1)
	power := 8 + 120*gloss*gloss
	coatPower := 8 + 200*(1-clamp(m.ClearcoatRoughness, 0, 1))

	var diffuse, spec rgb
	for _, l := range lights {
		lc := toRGB(l.Color).scale(l.Intensity)
		switch l.Kind {
		case scene.Ambient:
			diffuse = diffuse.add(lc)
		case scene.Hemisphere:
			t := 0.5 + 0.5*n[1]
			sky := toRGB(l.Color)
			ground := toRGB(l.GroundColor)
			diffuse = diffuse.add(ground.scale(1 - t).add(sky.scale(t)).scale(l.Intensity))
		case scene.Directional, scene.Point:
			dir := mgl32.Vec3(l.Position)
			if l.Kind == scene.Point {
				dir = dir.Sub(p)
			}
			if dir.Len() == 0 {
				continue
			}
			dir = dir.Normalize()
			ndl := n.Dot(dir)
			if ndl <= 0 {
				continue
			}
			diffuse = diffuse.add(lc.scale(ndl))
			h := dir.Add(v).Normalize()
			ndh := max(0, n.Dot(h))
			s := math32.Pow(ndh, power) * (0.04 + 0.6*gloss)
			s += m.Clearcoat * math32.Pow(ndh, coatPower) * 0.5
			spec = spec.add(lc.mul(specTint).scale(s))
		}
	}

	out := base.mul(diffuse).scale(1 - 0.7*m.Metalness)
	out = out.add(base.scale(0.15 * m.Metalness)).add(spec)
	if m.EmissiveIntensity > 0 {
		out = out.add(toRGB(m.Emissive).scale(m.EmissiveIntensity))
	}
	return out.rgba()
}
