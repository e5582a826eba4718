package raster

import (
	"vehicle-configurator/internal/geom"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Unit mesh resolution; matches the viewer's raylib meshes.
const (
	sphereRings    = 12
	sphereSlices   = 16
	cylinderSlices = 20
)

// tri is a triangle in a unit mesh, wound so the right-hand normal points outward.
type tri [3]mgl32.Vec3

// meshes holds one unit mesh per primitive kind, built once.
var meshes = map[geom.Kind][]tri{
	geom.Cube:     unitCube(),
	geom.Sphere:   unitSphere(),
	geom.Cylinder: unitCylinder(),
	geom.Plane:    unitPlane(),
}

// outward flips t when its normal faces the mesh center. Every unit mesh is convex and
// centered on the origin, so this fixes winding for the whole set.
func outward(t tri) tri {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	c := t[0].Add(t[1]).Add(t[2])
	if n.Dot(c) < 0 {
		t[1], t[2] = t[2], t[1]
	}
	return t
}

func quad(a, b, c, d mgl32.Vec3) []tri {
	return []tri{outward(tri{a, b, c}), outward(tri{a, c, d})}
}

// unitCube is 1x1x1 centered on the origin.
func unitCube() []tri {
	h := float32(0.5)
	v := [8]mgl32.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	faces := [6][4]int{
		{0, 1, 2, 3}, {4, 5, 6, 7}, // back, front
		{0, 4, 7, 3}, {1, 5, 6, 2}, // left, right
		{0, 1, 5, 4}, {3, 2, 6, 7}, // bottom, top
	}
	var out []tri
	for _, f := range faces {
		out = append(out, quad(v[f[0]], v[f[1]], v[f[2]], v[f[3]])...)
	}
	return out
}

// unitSphere has radius 0.5.
func unitSphere() []tri {
	point := func(ring, slice int) mgl32.Vec3 {
		phi := math32.Pi * float32(ring) / sphereRings
		theta := 2 * math32.Pi * float32(slice) / sphereSlices
		sp, cp := math32.Sincos(phi)
		st, ct := math32.Sincos(theta)
		return mgl32.Vec3{0.5 * sp * ct, 0.5 * cp, 0.5 * sp * st}
	}
	var out []tri
	for r := 0; r < sphereRings; r++ {
		for s := 0; s < sphereSlices; s++ {
			a, b := point(r, s), point(r, s+1)
			c, d := point(r+1, s+1), point(r+1, s)
			switch r {
			case 0:
				out = append(out, outward(tri{a, c, d}))
			case sphereRings - 1:
				out = append(out, outward(tri{a, b, c}))
			default:
				out = append(out, quad(a, b, c, d)...)
			}
		}
	}
	return out
}

// unitCylinder has radius 0.5 and height 1 along Y, centered on the origin.
func unitCylinder() []tri {
	rim := func(s int, y float32) mgl32.Vec3 {
		st, ct := math32.Sincos(2 * math32.Pi * float32(s) / cylinderSlices)
		return mgl32.Vec3{0.5 * ct, y, 0.5 * st}
	}
	top, bottom := mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, -0.5, 0}
	var out []tri
	for s := 0; s < cylinderSlices; s++ {
		a, b := rim(s, -0.5), rim(s+1, -0.5)
		c, d := rim(s+1, 0.5), rim(s, 0.5)
		out = append(out, quad(a, b, c, d)...)
		out = append(out, outward(tri{top, d, c}), outward(tri{bottom, a, b}))
	}
	return out
}

// unitPlane is 1x1 in XZ facing +Y.
func unitPlane() []tri {
	h := float32(0.5)
	a, b := mgl32.Vec3{-h, 0, -h}, mgl32.Vec3{-h, 0, h}
	c, d := mgl32.Vec3{h, 0, h}, mgl32.Vec3{h, 0, -h}
	return []tri{{a, b, c}, {a, c, d}}
}
