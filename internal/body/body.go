// Package body builds the vehicle shell: a fixed set of panels whose positions never
// change, painted from one body material and finished by the paint-protection tuple.
// The vehicle points down +X with Y up; +Z is the left side.
package body

import (
	"image/color"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/customization"
	"vehicle-configurator/internal/geom"
)

// Params is everything the shell depends on.
type Params struct {
	BodyColor color.RGBA
	Bumper    catalog.BumperSpec
	Finish    catalog.FinishSpec
}

var (
	// TrimColor is the near-black used for non sport-tier bumpers and the grille.
	TrimColor = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	// fallbackBody is used when neither the selection nor the catalog default parse.
	fallbackBody = color.RGBA{0x80, 0x80, 0x80, 0xff}
	glassColor   = color.RGBA{0x1f, 0x29, 0x37, 0xff}
)

// BumperBase is the unscaled bumper box (depth along X, height, width along Z).
var BumperBase = geom.Vec3{0.22, 0.28, 1.84}

// Bumper mount points. Positions are constant; only the box dimensions vary.
var (
	FrontBumperPos = geom.Vec3{2.05, 0.5, 0}
	RearBumperPos  = geom.Vec3{-2.05, 0.5, 0}
)

// ParamsFor resolves a selection into shell parameters. Unknown bumper or finish ids
// resolve to the catalog baseline; an unparsable color falls back to the catalog default.
func ParamsFor(c *catalog.Catalog, sel customization.Selection) Params {
	col, err := catalog.ParseColor(sel.BodyColor)
	if err != nil {
		if col, err = catalog.ParseColor(c.DefaultBodyColor()); err != nil {
			col = fallbackBody
		}
	}
	return Params{
		BodyColor: col,
		Bumper:    c.Bumper(sel.Bumper),
		Finish:    c.Finish(sel.PaintProtection),
	}
}

// Paint is the one body material every body-colored panel shares.
func Paint(p Params) geom.Material {
	return geom.Material{
		Color:              p.BodyColor,
		Metalness:          p.Finish.Metalness,
		Roughness:          p.Finish.Roughness,
		Clearcoat:          p.Finish.Clearcoat,
		ClearcoatRoughness: p.Finish.ClearcoatRoughness,
	}
}

// BumperMaterial is the body paint for sport-tier kits and near-black trim otherwise,
// whatever the body color.
func BumperMaterial(p Params) geom.Material {
	if p.Bumper.BodyColored {
		return Paint(p)
	}
	return geom.Solid(TrimColor, 0.7)
}

// BumperSize scales BumperBase by the variant's multipliers. Zero multipliers count as 1.
func BumperSize(s catalog.BumperSpec) geom.Vec3 {
	m := [3]float32{s.Thickness, s.Height, s.Depth}
	for i := range m {
		if m[i] <= 0 {
			m[i] = 1
		}
	}
	return geom.Vec3{BumperBase[0] * m[0], BumperBase[1] * m[1], BumperBase[2] * m[2]}
}

// panel is a box at a fixed place.
type panel struct {
	name string
	pos  geom.Vec3
	rot  geom.Vec3
	size geom.Vec3
}

// bodyPanels are painted with Paint, in draw order.
var bodyPanels = []panel{
	{"lower-shell", geom.Vec3{0, 0.7, 0}, geom.Vec3{}, geom.Vec3{4.0, 0.5, 1.8}},
	{"cabin", geom.Vec3{-0.2, 1.18, 0}, geom.Vec3{}, geom.Vec3{2.1, 0.46, 1.62}},
	{"roof", geom.Vec3{-0.25, 1.44, 0}, geom.Vec3{}, geom.Vec3{1.8, 0.06, 1.58}},
	{"hood", geom.Vec3{1.35, 0.97, 0}, geom.Vec3{0, 0, -0.05}, geom.Vec3{1.3, 0.05, 1.72}},
	{"trunk", geom.Vec3{-1.6, 0.97, 0}, geom.Vec3{0, 0, 0.04}, geom.Vec3{0.8, 0.05, 1.72}},
	{"a-pillar-left", geom.Vec3{0.78, 1.2, 0.78}, geom.Vec3{0, 0, 0.55}, geom.Vec3{0.08, 0.52, 0.07}},
	{"a-pillar-right", geom.Vec3{0.78, 1.2, -0.78}, geom.Vec3{0, 0, 0.55}, geom.Vec3{0.08, 0.52, 0.07}},
	{"c-pillar-left", geom.Vec3{-1.2, 1.2, 0.78}, geom.Vec3{0, 0, -0.5}, geom.Vec3{0.08, 0.52, 0.07}},
	{"c-pillar-right", geom.Vec3{-1.2, 1.2, -0.78}, geom.Vec3{0, 0, -0.5}, geom.Vec3{0.08, 0.52, 0.07}},
	{"skirt-left", geom.Vec3{0, 0.42, 0.91}, geom.Vec3{}, geom.Vec3{2.2, 0.1, 0.05}},
	{"skirt-right", geom.Vec3{0, 0.42, -0.91}, geom.Vec3{}, geom.Vec3{2.2, 0.1, 0.05}},
	{"mirror-left", geom.Vec3{0.7, 1.05, 0.98}, geom.Vec3{}, geom.Vec3{0.14, 0.09, 0.16}},
	{"mirror-right", geom.Vec3{0.7, 1.05, -0.98}, geom.Vec3{}, geom.Vec3{0.14, 0.09, 0.16}},
}

// glassPanels make up the greenhouse glazing.
var glassPanels = []panel{
	{"windshield", geom.Vec3{0.72, 1.2, 0}, geom.Vec3{0, 0, 0.55}, geom.Vec3{0.04, 0.5, 1.5}},
	{"rear-window", geom.Vec3{-1.15, 1.2, 0}, geom.Vec3{0, 0, -0.5}, geom.Vec3{0.04, 0.5, 1.5}},
	{"side-window-left", geom.Vec3{-0.2, 1.22, 0.815}, geom.Vec3{}, geom.Vec3{1.8, 0.34, 0.02}},
	{"side-window-right", geom.Vec3{-0.2, 1.22, -0.815}, geom.Vec3{}, geom.Vec3{1.8, 0.34, 0.02}},
}

// BodyPanelNames lists every panel that must carry the body paint.
func BodyPanelNames() []string {
	out := make([]string, len(bodyPanels))
	for i, p := range bodyPanels {
		out[i] = p.name
	}
	return out
}

// Build assembles the shell. Same Params always give the same node.
func Build(p Params) *geom.Node {
	paint := Paint(p)
	glass := geom.Material{Color: glassColor, Metalness: 0.1, Roughness: 0.05, Opacity: 0.35}
	trim := geom.Solid(TrimColor, 0.7)

	n := geom.NewNode("body")
	for _, bp := range bodyPanels {
		n.Add(geom.RotatedBox(bp.name, bp.pos, bp.rot, bp.size, paint))
	}
	for _, gp := range glassPanels {
		n.Add(geom.RotatedBox(gp.name, gp.pos, gp.rot, gp.size, glass))
	}
	n.Add(geom.Box("grille", geom.Vec3{2.01, 0.75, 0}, geom.Vec3{0.03, 0.18, 0.9}, trim))

	bumper := BumperMaterial(p)
	size := BumperSize(p.Bumper)
	n.Add(
		geom.Box("front-bumper", FrontBumperPos, size, bumper),
		geom.Box("rear-bumper", RearBumperPos, size, bumper),
	)
	return n
}
