package primitives

import (
	"image/color"
	"sort"

	"vehicle-configurator/internal/geom"
	"vehicle-configurator/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// cached holds mesh and material for a primitive kind. Created lazily on first Draw.
type cached struct {
	mesh rl.Mesh
	// offset recenters meshes whose origin is not their center.
	offset mgl32.Mat4
}

// Registry maps primitive kinds to meshes that share one lit material. Meshes are created
// on first use so that GPU resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache  map[geom.Kind]cached
	mtl    rl.Material
	shader rl.Shader
	locs   map[string]int32
	ready  bool
}

// NewRegistry returns a registry with no meshes.
func NewRegistry() *Registry {
	return &Registry{cache: make(map[geom.Kind]cached)}
}

// defaultSphereRings and defaultSphereSlices control sphere mesh resolution.
const defaultSphereRings = 16
const defaultSphereSlices = 24

// defaultCylinderSlices controls cylinder mesh resolution; wheels are cylinders.
const defaultCylinderSlices = 32

// defaultPlaneResX/Z: 1 subdivision = single quad (1x1 in XZ).
const defaultPlaneResX = 1
const defaultPlaneResZ = 1

// ensureMaterial loads the lit shader and the shared material.
func (r *Registry) ensureMaterial() {
	if r.ready {
		return
	}
	r.ready = true
	r.mtl = rl.LoadMaterialDefault()
	shader := rl.LoadShaderFromMemory(litVS, litFS)
	if !rl.IsShaderValid(shader) {
		return
	}
	r.shader = shader
	r.mtl.Shader = shader
	r.locs = make(map[string]int32)
	for _, name := range uniforms {
		r.locs[name] = rl.GetShaderLocation(shader, name)
	}
}

// ensure creates the mesh for k if not yet cached.
func (r *Registry) ensure(k geom.Kind) (cached, bool) {
	if c, ok := r.cache[k]; ok {
		return c, true
	}
	c := cached{offset: mgl32.Ident4()}
	switch k {
	case geom.Cube:
		c.mesh = rl.GenMeshCube(1, 1, 1)
	case geom.Sphere:
		// Radius 0.5 so diameter = 1, matching cube side length.
		c.mesh = rl.GenMeshSphere(0.5, defaultSphereRings, defaultSphereSlices)
	case geom.Cylinder:
		// Raylib cylinder: base Y=0, top Y=height. Offset -height/2 so center is at position.
		c.mesh = rl.GenMeshCylinder(0.5, 1, defaultCylinderSlices)
		c.offset = mgl32.Translate3D(0, -0.5, 0)
	case geom.Plane:
		c.mesh = rl.GenMeshPlane(1, 1, defaultPlaneResX, defaultPlaneResZ)
	default:
		return cached{}, false
	}
	r.cache[k] = c
	return c, true
}

// Matrix converts a column-major mgl32 matrix to raylib's layout. Both index elements the
// same way, so the fields map one to one.
func Matrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M4: m[4], M8: m[8], M12: m[12],
		M1: m[1], M5: m[5], M9: m[9], M13: m[13],
		M2: m[2], M6: m[6], M10: m[10], M14: m[14],
		M3: m[3], M7: m[7], M11: m[11], M15: m[15],
	}
}

type item struct {
	p     geom.Primitive
	world mgl32.Mat4
	dist  float32
}

// DrawGraph draws every primitive of g. Opaque primitives go first; glass is drawn back to
// front without depth writes so the body shows through it. Must be called between
// BeginMode3D and EndMode3D.
func (r *Registry) DrawGraph(g *scene.Graph) {
	r.ensureMaterial()
	r.setLights(g)

	eye := mgl32.Vec3(g.Camera.Position)
	var glass []item
	g.Walk(func(p geom.Primitive, world mgl32.Mat4) {
		if p.Material.Alpha() < 1 {
			glass = append(glass, item{p: p, world: world, dist: world.Col(3).Vec3().Sub(eye).Len()})
			return
		}
		r.Draw(p, world)
	})

	sort.SliceStable(glass, func(i, j int) bool { return glass[i].dist > glass[j].dist })
	rl.DisableDepthMask()
	for _, it := range glass {
		r.Draw(it.p, it.world)
	}
	rl.EnableDepthMask()
}

// Draw draws one primitive with its world matrix. Unknown kinds are skipped.
func (r *Registry) Draw(p geom.Primitive, world mgl32.Mat4) {
	c, ok := r.ensure(p.Kind)
	if !ok {
		return
	}
	r.setSurface(p.Material)
	if p.Kind == geom.Plane {
		rl.DisableBackfaceCulling()
		defer rl.EnableBackfaceCulling()
	}
	rl.DrawMesh(c.mesh, r.mtl, Matrix(world.Mul4(c.offset)))
}

// Unload releases GPU resources. Call before the window closes.
func (r *Registry) Unload() {
	for k, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		delete(r.cache, k)
	}
	if r.ready {
		rl.UnloadMaterial(r.mtl)
		r.ready = false
	}
}

func (r *Registry) setSurface(m geom.Material) {
	tint := m.Color
	tint.A = uint8(m.Alpha() * 255)
	if albedo := r.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	if !rl.IsShaderValid(r.shader) {
		return
	}
	emissive := scaled(m.Emissive, m.EmissiveIntensity)
	r.setFloat("metalness", m.Metalness)
	r.setFloat("roughness", m.Roughness)
	r.setFloat("clearcoat", m.Clearcoat)
	r.setVec3("emissive", emissive)
}

// setLights feeds the rig to the shader: ambient and hemisphere fold into one ambient
// term; the first two directional lights become key and fill.
func (r *Registry) setLights(g *scene.Graph) {
	if !rl.IsShaderValid(r.shader) {
		return
	}
	var ambient [3]float32
	var dirs [][3]float32
	var cols [][3]float32
	for _, l := range g.Lights {
		switch l.Kind {
		case scene.Ambient, scene.Hemisphere:
			c := scaled(l.Color, l.Intensity)
			for i := range ambient {
				ambient[i] += c[i]
			}
		case scene.Directional:
			dirs = append(dirs, mgl32.Vec3(l.Position).Normalize())
			cols = append(cols, scaled(l.Color, l.Intensity))
		}
	}
	for len(dirs) < 2 {
		dirs = append(dirs, [3]float32{0, 1, 0})
		cols = append(cols, [3]float32{})
	}
	r.setVec3("viewPos", g.Camera.Position)
	r.setVec3("ambient", ambient)
	r.setVec3("keyDir", dirs[0])
	r.setVec3("keyColor", cols[0])
	r.setVec3("fillDir", dirs[1])
	r.setVec3("fillColor", cols[1])
}

func (r *Registry) setFloat(name string, v float32) {
	if loc := r.locs[name]; loc >= 0 {
		rl.SetShaderValue(r.shader, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}

// setVec3 copies v to a local array (cgo-safe).
func (r *Registry) setVec3(name string, v [3]float32) {
	if loc := r.locs[name]; loc >= 0 {
		val := [3]float32{v[0], v[1], v[2]}
		rl.SetShaderValueV(r.shader, loc, val[:], rl.ShaderUniformVec3, 1)
	}
}

func scaled(c color.RGBA, k float32) [3]float32 {
	return [3]float32{float32(c.R) / 255 * k, float32(c.G) / 255 * k, float32(c.B) / 255 * k}
}
