// Package geom describes scene geometry as unit primitives (cube 1x1x1, sphere radius 0.5,
// cylinder radius 0.5 height 1 along Y, plane 1x1 in XZ) placed by position, Euler rotation
// and scale, grouped into a node tree. Descriptors are plain values regenerated on every
// selection change; renderers only read them.
package geom

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind is a unit primitive shape.
type Kind string

const (
	Cube     Kind = "cube"
	Sphere   Kind = "sphere"
	Cylinder Kind = "cylinder"
	Plane    Kind = "plane"
)

// Vec3 is a position, rotation (radians, XYZ order) or scale.
type Vec3 = [3]float32

// Material is a physically-based surface description. Renderers that cannot do clearcoat
// approximate it with specular strength.
type Material struct {
	Color              color.RGBA
	Metalness          float32
	Roughness          float32
	Clearcoat          float32
	ClearcoatRoughness float32
	Emissive           color.RGBA
	EmissiveIntensity  float32
	// Opacity below 1 marks glass; zero means opaque.
	Opacity float32
}

// Alpha returns the effective opacity in (0,1].
func (m Material) Alpha() float32 {
	if m.Opacity <= 0 || m.Opacity > 1 {
		return 1
	}
	return m.Opacity
}

// Solid is a plain dielectric surface.
func Solid(c color.RGBA, roughness float32) Material {
	return Material{Color: c, Roughness: roughness}
}

// Metal is a metallic surface.
func Metal(c color.RGBA, metalness, roughness float32) Material {
	return Material{Color: c, Metalness: metalness, Roughness: roughness}
}

// Glow is an emissive surface.
func Glow(c, emissive color.RGBA, intensity float32) Material {
	return Material{Color: c, Roughness: 0.2, Emissive: emissive, EmissiveIntensity: intensity}
}

// Primitive is one drawable unit shape.
type Primitive struct {
	Name     string
	Kind     Kind
	Position Vec3
	Rotation Vec3
	Scale    Vec3
	Material Material
}

// Box is a cube scaled to size (x, y, z).
func Box(name string, pos, size Vec3, m Material) Primitive {
	return Primitive{Name: name, Kind: Cube, Position: pos, Scale: size, Material: m}
}

// RotatedBox is a Box with an Euler rotation.
func RotatedBox(name string, pos, rot, size Vec3, m Material) Primitive {
	return Primitive{Name: name, Kind: Cube, Position: pos, Rotation: rot, Scale: size, Material: m}
}

// Disc is a cylinder of the given radius and height whose axis is rotated by rot.
func Disc(name string, pos, rot Vec3, radius, height float32, m Material) Primitive {
	return Primitive{Name: name, Kind: Cylinder, Position: pos, Rotation: rot, Scale: Vec3{2 * radius, height, 2 * radius}, Material: m}
}

// Ball is a sphere of the given radius.
func Ball(name string, pos Vec3, radius float32, m Material) Primitive {
	return Primitive{Name: name, Kind: Sphere, Position: pos, Scale: Vec3{2 * radius, 2 * radius, 2 * radius}, Material: m}
}

// Sheet is a plane of width (x) by depth (z).
func Sheet(name string, pos, rot Vec3, width, depth float32, m Material) Primitive {
	return Primitive{Name: name, Kind: Plane, Position: pos, Rotation: rot, Scale: Vec3{width, 1, depth}, Material: m}
}

// Transform returns T * Rx * Ry * Rz * S for the given components. Zero scale axes
// count as 1 so a zero-value Primitive still draws at unit size.
func Transform(pos, rot, scale Vec3) mgl32.Mat4 {
	sx, sy, sz := scale[0], scale[1], scale[2]
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if sz == 0 {
		sz = 1
	}
	m := mgl32.Translate3D(pos[0], pos[1], pos[2])
	m = m.Mul4(Rotation(rot))
	return m.Mul4(mgl32.Scale3D(sx, sy, sz))
}

// Rotation returns the XYZ-order Euler rotation matrix.
func Rotation(rot Vec3) mgl32.Mat4 {
	m := mgl32.Ident4()
	if rot[0] != 0 {
		m = m.Mul4(mgl32.HomogRotate3DX(rot[0]))
	}
	if rot[1] != 0 {
		m = m.Mul4(mgl32.HomogRotate3DY(rot[1]))
	}
	if rot[2] != 0 {
		m = m.Mul4(mgl32.HomogRotate3DZ(rot[2]))
	}
	return m
}

// Local returns the primitive's model matrix relative to its node.
func (p Primitive) Local() mgl32.Mat4 {
	return Transform(p.Position, p.Rotation, p.Scale)
}
