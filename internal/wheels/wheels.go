// Package wheels assembles one wheel unit (tire, rim, spokes, hub cap, lug nuts, brake
// disc) from a catalog.WheelSpec and mounts it at the four axle positions.
package wheels

import (
	"fmt"
	"image/color"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/geom"

	"github.com/chewxy/math32"
)

// LugNuts is the number of lug nuts on every hub, spaced evenly (72° apart).
const LugNuts = 5

// Axle is one mounting point. Right-side wheels are yawed by π so the hub face points
// outward on both sides.
type Axle struct {
	Name  string
	X, Z  float32
	Right bool
}

// Axles are the four fixed mounting points: front/rear along X, left/right along Z.
var Axles = [4]Axle{
	{Name: "front-left", X: 1.3, Z: 0.85},
	{Name: "front-right", X: 1.3, Z: -0.85, Right: true},
	{Name: "rear-left", X: -1.3, Z: 0.85},
	{Name: "rear-right", X: -1.3, Z: -0.85, Right: true},
}

var (
	rubber    = geom.Solid(color.RGBA{0x14, 0x14, 0x14, 0xff}, 0.9)
	discColor = color.RGBA{0x6b, 0x6b, 0x6b, 0xff}
	nutColor  = color.RGBA{0xc8, 0xc8, 0xc8, 0xff}
)

// axleRot turns the unit cylinder's Y axis onto Z, the axle direction.
var axleRot = geom.Vec3{math32.Pi / 2, 0, 0}

// GroundOffset is the height of the wheel center above the ground plane. It equals the
// tire radius so the tire's lowest point sits at y = 0 for every variant.
func GroundOffset(spec catalog.WheelSpec) float32 {
	return spec.Radius
}

// Unit builds one wheel centered at the origin with its axle along Z and the hub face
// toward +Z.
func Unit(spec catalog.WheelSpec) *geom.Node {
	r, t := spec.Radius, spec.TireThickness
	face := t/2 + 0.01
	rim := geom.Metal(spec.RimColor.RGBA, 0.9, 0.25)
	hub := geom.Metal(spec.HubColor.RGBA, 0.8, 0.3)

	n := geom.NewNode("wheel")
	n.Add(
		geom.Disc("tire", geom.Vec3{}, axleRot, r, t, rubber),
		geom.Disc("rim", geom.Vec3{0, 0, 0.005}, axleRot, r*0.68, t*1.04, rim),
	)

	spokeLen := r * 0.5
	for i := 0; i < spec.Spokes; i++ {
		a := 2 * math32.Pi * float32(i) / float32(spec.Spokes)
		mid := r*0.18 + spokeLen/2
		n.Add(geom.RotatedBox(
			fmt.Sprintf("spoke-%d", i),
			geom.Vec3{math32.Cos(a) * mid, math32.Sin(a) * mid, face},
			geom.Vec3{0, 0, a},
			geom.Vec3{spokeLen, 0.045, 0.03},
			rim,
		))
	}

	n.Add(geom.Disc("hub-cap", geom.Vec3{0, 0, face + 0.01}, axleRot, r*0.2, 0.03, hub))
	ring := r * 0.13
	for i := 0; i < LugNuts; i++ {
		a := LugAngle(i)
		n.Add(geom.Disc(
			fmt.Sprintf("lug-nut-%d", i),
			geom.Vec3{math32.Cos(a) * ring, math32.Sin(a) * ring, face + 0.035},
			axleRot, 0.015, 0.025,
			geom.Metal(nutColor, 0.9, 0.2),
		))
	}
	n.Add(geom.Disc("brake-disc", geom.Vec3{0, 0, -t * 0.15}, axleRot, r*0.55, 0.025, geom.Metal(discColor, 0.7, 0.4)))
	return n
}

// LugAngle is the angle of lug nut i around the hub, in radians.
func LugAngle(i int) float32 {
	return 2 * math32.Pi * float32(i) / LugNuts
}

// Build mounts a unit at each axle, lifted by GroundOffset.
func Build(spec catalog.WheelSpec) *geom.Node {
	n := geom.NewNode("wheels")
	y := GroundOffset(spec)
	for _, ax := range Axles {
		w := Unit(spec)
		w.Name = ax.Name
		w.Position = geom.Vec3{ax.X, y, ax.Z}
		if ax.Right {
			w.Rotation = geom.Vec3{0, math32.Pi, 0}
		}
		n.AddChild(w)
	}
	return n
}
