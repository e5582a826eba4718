// Package scene composes body, wheels and overlay into one rotatable vehicle group and
// hosts the camera, lighting rig and static environment backdrop around it.
// Build is a pure function of the selection; Composer carries the little state that
// lives between frames (rotation, orbit, environment).
package scene

import (
	"image"
	"image/color"

	"vehicle-configurator/internal/body"
	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/customization"
	"vehicle-configurator/internal/geom"
	"vehicle-configurator/internal/overlay"
	"vehicle-configurator/internal/wheels"

	"github.com/go-gl/mathgl/mgl32"
)

// LightKind selects how a Light contributes.
type LightKind string

const (
	Ambient     LightKind = "ambient"
	Hemisphere  LightKind = "hemisphere"
	Directional LightKind = "directional"
	Point       LightKind = "point"
)

// Light is one member of the lighting rig. Directional lights shine from Position toward
// the origin; hemisphere lights blend Color (sky) and GroundColor by surface normal.
type Light struct {
	Name        string
	Kind        LightKind
	Color       color.RGBA
	GroundColor color.RGBA
	Intensity   float32
	Position    geom.Vec3
}

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position geom.Vec3
	Target   geom.Vec3
	FovY     float32 // degrees
}

// Environment is the static backdrop. Image is the decoded environment map when one has
// loaded; renderers that cannot use it draw the Sky/Horizon/Ground gradient instead.
type Environment struct {
	Sky      color.RGBA
	Horizon  color.RGBA
	Ground   color.RGBA
	Image    image.Image
	Source   string
	Fallback bool
}

// NeutralEnvironment is the studio gray used until (or instead of) an environment map.
func NeutralEnvironment() Environment {
	return Environment{
		Sky:     color.RGBA{0x3a, 0x40, 0x4a, 0xff},
		Horizon: color.RGBA{0x8a, 0x90, 0x98, 0xff},
		Ground:  color.RGBA{0x2a, 0x2c, 0x30, 0xff},
	}
}

// Graph is one frame's worth of scene description.
type Graph struct {
	Camera      Camera
	Lights      []Light
	Environment Environment
	// Backdrop does not inherit the vehicle's rotation.
	Backdrop *geom.Node
	// Vehicle is the rotating group: body, wheels and overlay.
	Vehicle *geom.Node
}

// View is the per-frame state Build needs besides the selection.
type View struct {
	Angle       float32
	Camera      Camera
	Environment Environment
}

// Rig is the fixed lighting: ambient and hemisphere fill plus key, fill and rim lights.
func Rig() []Light {
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	return []Light{
		{Name: "ambient", Kind: Ambient, Color: white, Intensity: 0.3},
		{Name: "hemisphere", Kind: Hemisphere, Color: color.RGBA{0xdd, 0xee, 0xff, 0xff}, GroundColor: color.RGBA{0x44, 0x44, 0x33, 0xff}, Intensity: 0.35},
		{Name: "key", Kind: Directional, Color: color.RGBA{0xff, 0xfa, 0xf0, 0xff}, Intensity: 1.1, Position: geom.Vec3{10, 10, 5}},
		{Name: "fill", Kind: Directional, Color: white, Intensity: 0.45, Position: geom.Vec3{-8, 6, -6}},
		{Name: "rim", Kind: Directional, Color: color.RGBA{0xcc, 0xdd, 0xff, 0xff}, Intensity: 0.6, Position: geom.Vec3{-5, 4, 10}},
		{Name: "top", Kind: Point, Color: white, Intensity: 0.4, Position: geom.Vec3{0, 8, 0}},
	}
}

// Vehicle builds the rotating group from a selection.
func Vehicle(c *catalog.Catalog, sel customization.Selection) *geom.Node {
	bp := body.ParamsFor(c, sel)
	v := geom.NewNode("vehicle")
	v.AddChild(
		body.Build(bp),
		wheels.Build(c.Wheel(sel.Wheel)),
		overlay.Build(c, sel.Headlight, sel.Spoiler, sel.Decal, body.Paint(bp)),
	)
	return v
}

// Backdrop builds the static floor the vehicle stands on.
func Backdrop(env Environment) *geom.Node {
	n := geom.NewNode("backdrop")
	n.Add(
		geom.Sheet("ground", geom.Vec3{}, geom.Vec3{}, 40, 40, geom.Solid(env.Ground, 0.95)),
		geom.Disc("turntable", geom.Vec3{0, -0.01, 0}, geom.Vec3{}, 3.2, 0.02, geom.Metal(env.Horizon, 0.2, 0.6)),
	)
	return n
}

// Build assembles a full frame. It keeps no state between calls.
func Build(c *catalog.Catalog, sel customization.Selection, v View) *Graph {
	vehicle := Vehicle(c, sel)
	vehicle.Rotation = geom.Vec3{0, v.Angle, 0}
	return &Graph{
		Camera:      v.Camera,
		Lights:      Rig(),
		Environment: v.Environment,
		Backdrop:    Backdrop(v.Environment),
		Vehicle:     vehicle,
	}
}

// Walk visits every primitive of the frame with its world matrix, backdrop first.
func (g *Graph) Walk(fn func(p geom.Primitive, world mgl32.Mat4)) {
	g.Backdrop.Walk(mgl32.Ident4(), fn)
	g.Vehicle.Walk(mgl32.Ident4(), fn)
}

// Count is the number of drawable primitives in the frame.
func (g *Graph) Count() int {
	return g.Backdrop.Count() + g.Vehicle.Count()
}
