package graphics

import (
	"vehicle-configurator/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const skyboxScale = 1000

// Backdrop draws the static environment behind the vehicle: an equirectangular panorama
// on a camera-centered cube when the environment has an image, a sky-to-ground gradient
// otherwise. GPU resources follow the environment's Source and are created lazily on
// the draw thread.
type Backdrop struct {
	source    string
	tex       rl.Texture2D
	mesh      rl.Mesh
	mtl       rl.Material
	loaded    bool
	camPosLoc int32
	texLoc    int32
}

// NewBackdrop returns a backdrop with nothing loaded.
func NewBackdrop() *Backdrop {
	return &Backdrop{}
}

// DrawGradient fills the screen with the environment gradient. Call before the 3D pass.
func (b *Backdrop) DrawGradient(env scene.Environment) {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	rl.DrawRectangleGradientV(0, 0, w, h/2, env.Sky, env.Horizon)
	rl.DrawRectangleGradientV(0, h/2, w, h-h/2, env.Horizon, env.Ground)
}

// Draw draws the panorama when env has one. Call first inside BeginMode3D.
func (b *Backdrop) Draw(env scene.Environment, cam rl.Camera3D) {
	b.sync(env)
	if !b.loaded {
		return
	}
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	pos := cam.Position
	scale := rl.MatrixScale(skyboxScale, skyboxScale, skyboxScale)
	trans := rl.MatrixTranslate(pos.X, pos.Y, pos.Z)
	transform := rl.MatrixMultiply(scale, trans)
	if b.camPosLoc >= 0 {
		camPos := []float32{pos.X, pos.Y, pos.Z}
		rl.SetShaderValueV(b.mtl.Shader, b.camPosLoc, camPos, rl.ShaderUniformVec3, 1)
	}
	if b.texLoc >= 0 {
		rl.SetShaderValueTexture(b.mtl.Shader, b.texLoc, b.tex)
	}
	rl.DrawMesh(b.mesh, b.mtl, transform)
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

// sync reloads the panorama texture when the environment changed.
func (b *Backdrop) sync(env scene.Environment) {
	if env.Source == b.source {
		return
	}
	b.Unload()
	b.source = env.Source
	if env.Image == nil || env.Fallback {
		return
	}

	img := rl.NewImageFromImage(env.Image)
	b.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if !rl.IsTextureValid(b.tex) {
		return
	}
	shader := rl.LoadShaderFromMemory(equirectVS, equirectFS)
	if !rl.IsShaderValid(shader) {
		rl.UnloadTexture(b.tex)
		return
	}
	b.mesh = rl.GenMeshCube(1, 1, 1)
	b.mtl = rl.LoadMaterialDefault()
	b.mtl.Shader = shader
	b.camPosLoc = rl.GetShaderLocation(shader, "cameraPosition")
	b.texLoc = rl.GetShaderLocation(shader, "skybox")
	b.loaded = true
}

// Unload releases the panorama. Call before the window closes.
func (b *Backdrop) Unload() {
	if !b.loaded {
		return
	}
	rl.UnloadTexture(b.tex)
	rl.UnloadMesh(&b.mesh)
	rl.UnloadMaterial(b.mtl)
	b.loaded = false
}

// Equirectangular skybox shader: samples a 2D panorama by view direction.
const (
	equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`
	equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D skybox;
uniform vec3 cameraPosition;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float lon = atan(dir.z, dir.x);
  float lat = asin(clamp(dir.y, -1.0, 1.0));
  float u = lon / 6.28318530718 + 0.5;
  float v = 0.5 - lat / 3.14159265359;
  finalColor = texture(skybox, vec2(u, v));
}
`
)
