package overlay

import (
	"image/color"
	"sort"

	"vehicle-configurator/internal/geom"
)

// decal is one flat colored panel of a layout.
type decal struct {
	name string
	pos  geom.Vec3
	rot  geom.Vec3
	size geom.Vec3
	col  color.RGBA
}

var (
	white   = color.RGBA{0xf5, 0xf5, 0xf5, 0xff}
	orange  = color.RGBA{0xf9, 0x73, 0x16, 0xff}
	yellow  = color.RGBA{0xfa, 0xcc, 0x15, 0xff}
	red     = color.RGBA{0xdc, 0x26, 0x26, 0xff}
	black   = color.RGBA{0x0a, 0x0a, 0x0a, 0xff}
	cyan    = color.RGBA{0x06, 0xb6, 0xd4, 0xff}
	magenta = color.RGBA{0xd9, 0x46, 0xef, 0xff}
	lime    = color.RGBA{0x84, 0xcc, 0x16, 0xff}
)

// sides mirrors a side-panel layout onto both flanks (z > 0 left, z < 0 right).
func sides(name string, x, y, rotZ float32, size geom.Vec3, col color.RGBA) []decal {
	const flank = float32(0.905)
	return []decal{
		{name + "-left", geom.Vec3{x, y, flank}, geom.Vec3{0, 0, rotZ}, size, col},
		{name + "-right", geom.Vec3{x, y, -flank}, geom.Vec3{0, 0, rotZ}, size, col},
	}
}

func concat(groups ...[]decal) []decal {
	var out []decal
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// layouts is the fixed micro-layout of every decal variant. The baseline ("none") has no
// entry and therefore no geometry.
var layouts = map[string][]decal{
	"racing": concat(
		[]decal{
			{"hood-stripe-left", geom.Vec3{1.35, 1.0, 0.12}, geom.Vec3{0, 0, -0.05}, geom.Vec3{1.28, 0.005, 0.12}, white},
			{"hood-stripe-right", geom.Vec3{1.35, 1.0, -0.12}, geom.Vec3{0, 0, -0.05}, geom.Vec3{1.28, 0.005, 0.12}, white},
			{"roof-stripe-left", geom.Vec3{-0.25, 1.475, 0.12}, geom.Vec3{}, geom.Vec3{1.78, 0.005, 0.12}, white},
			{"roof-stripe-right", geom.Vec3{-0.25, 1.475, -0.12}, geom.Vec3{}, geom.Vec3{1.78, 0.005, 0.12}, white},
			{"trunk-stripe-left", geom.Vec3{-1.6, 0.999, 0.12}, geom.Vec3{0, 0, 0.04}, geom.Vec3{0.78, 0.005, 0.12}, white},
			{"trunk-stripe-right", geom.Vec3{-1.6, 0.999, -0.12}, geom.Vec3{0, 0, 0.04}, geom.Vec3{0.78, 0.005, 0.12}, white},
		},
		sides("side-stripe", 0, 0.7, 0, geom.Vec3{3.8, 0.06, 0.005}, white),
	),
	"flames": concat(
		sides("flame-outer", 1.4, 0.62, 0.3, geom.Vec3{0.9, 0.08, 0.005}, red),
		sides("flame-middle", 1.15, 0.72, 0.25, geom.Vec3{1.0, 0.07, 0.005}, orange),
		sides("flame-inner", 0.85, 0.8, 0.35, geom.Vec3{0.8, 0.06, 0.005}, yellow),
	),
	"tribal": concat(
		sides("tribal-rear", -1.3, 0.72, 0, geom.Vec3{0.7, 0.25, 0.005}, black),
		sides("tribal-front", 1.5, 0.72, 0, geom.Vec3{0.5, 0.2, 0.005}, black),
	),
	"geometric": concat(
		sides("square-front-top", 0.6, 0.85, 0, geom.Vec3{0.18, 0.18, 0.005}, cyan),
		sides("square-front-bottom", 0.6, 0.55, 0, geom.Vec3{0.18, 0.18, 0.005}, magenta),
		sides("square-rear-top", -0.8, 0.85, 0, geom.Vec3{0.18, 0.18, 0.005}, yellow),
		sides("square-rear-bottom", -0.8, 0.55, 0, geom.Vec3{0.18, 0.18, 0.005}, lime),
	),
}

// DecalLayouts lists the variants that have a layout, sorted.
func DecalLayouts() []string {
	out := make([]string, 0, len(layouts))
	for k := range layouts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Decals returns the layout for id, or nil when id has none.
func Decals(id string) *geom.Node {
	layout, ok := layouts[id]
	if !ok {
		return nil
	}
	n := geom.NewNode("decals")
	for _, d := range layout {
		n.Add(geom.RotatedBox("decal-"+d.name, d.pos, d.rot, d.size, geom.Solid(d.col, 0.5)))
	}
	return n
}
