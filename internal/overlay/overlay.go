// Package overlay attaches the parts mounted on the shell: head and tail lights, the
// spoiler, and decal panels. Baseline variants contribute no geometry.
package overlay

import (
	"image/color"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/geom"
)

var (
	housingColor = color.RGBA{0x22, 0x22, 0x22, 0xff}
	standColor   = color.RGBA{0x18, 0x18, 0x18, 0xff}

	// TailLens and TailGlow are fixed; taillights are not configurable.
	TailLens      = color.RGBA{0xb0, 0x00, 0x00, 0xff}
	TailGlow      = color.RGBA{0xff, 0x00, 0x00, 0xff}
	TailIntensity = float32(0.8)
)

// Headlight mount points (left, right). Housing geometry is fixed.
var HeadlightMounts = [2]geom.Vec3{{2.02, 0.8, 0.62}, {2.02, 0.8, -0.62}}

var tailMounts = [2]geom.Vec3{{-2.02, 0.82, 0.65}, {-2.02, 0.82, -0.65}}

// Lights builds both headlights from spec and the two fixed red taillights.
func Lights(spec catalog.HeadlightSpec) *geom.Node {
	n := geom.NewNode("lights")
	housing := geom.Solid(housingColor, 0.5)
	lens := geom.Glow(spec.LensColor.RGBA, spec.EmissiveColor.RGBA, spec.Intensity)
	side := [2]string{"left", "right"}
	for i, m := range HeadlightMounts {
		n.Add(
			geom.Box("headlight-housing-"+side[i], m, geom.Vec3{0.06, 0.12, 0.34}, housing),
			geom.Box("headlight-lens-"+side[i], geom.Vec3{m[0] + 0.035, m[1], m[2]}, geom.Vec3{0.02, 0.1, 0.3}, lens),
		)
	}
	tail := geom.Glow(TailLens, TailGlow, TailIntensity)
	for i, m := range tailMounts {
		n.Add(geom.Box("taillight-"+side[i], m, geom.Vec3{0.03, 0.1, 0.3}, tail))
	}
	return n
}

// trunkTop is the height of the trunk lid surface the spoiler mounts on.
const trunkTop = float32(1.0)

// spoilerX is where the blade sits along the vehicle.
const spoilerX = float32(-1.85)

// Spoiler builds the blade and, when spec.Endplates is set, two endplates and two support
// stands. It returns nil when ok is false so no spoiler geometry exists at all.
func Spoiler(spec catalog.SpoilerSpec, ok bool, paint geom.Material) *geom.Node {
	if !ok {
		return nil
	}
	bladeY := trunkTop + spec.Height + spec.Thickness/2
	n := geom.NewNode("spoiler")
	n.Add(geom.Box("spoiler-blade", geom.Vec3{spoilerX, bladeY, 0}, geom.Vec3{0.35, spec.Thickness, spec.Width}, paint))
	if !spec.Endplates {
		return n
	}
	dark := geom.Solid(standColor, 0.6)
	for _, z := range [2]float32{spec.Width / 2, -spec.Width / 2} {
		name := "left"
		if z < 0 {
			name = "right"
		}
		n.Add(geom.Box("spoiler-endplate-"+name, geom.Vec3{spoilerX, bladeY, z}, geom.Vec3{0.38, 0.14, 0.02}, dark))
		n.Add(geom.Box("spoiler-stand-"+name, geom.Vec3{spoilerX, trunkTop + spec.Height/2, z * 0.6}, geom.Vec3{0.06, spec.Height, 0.04}, dark))
	}
	return n
}

// Build composes lights, spoiler and decals for one selection.
func Build(c *catalog.Catalog, headlight, spoiler, decal string, paint geom.Material) *geom.Node {
	n := geom.NewNode("overlay")
	n.AddChild(Lights(c.Headlight(headlight)))
	spec, ok := c.Spoiler(spoiler)
	n.AddChild(Spoiler(spec, ok, paint))
	n.AddChild(Decals(c.DecalID(decal)))
	return n
}
