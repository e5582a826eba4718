package primitives

// uniforms are looked up once when the shader loads.
var uniforms = []string{
	"viewPos", "ambient", "keyDir", "keyColor", "fillDir", "fillColor",
	"metalness", "roughness", "clearcoat", "emissive",
}

// Lit shader: ambient plus key and fill directional lights with a Blinn-Phong highlight
// whose tightness follows roughness. Metals tint their highlight with the base color;
// clearcoat adds a second sharp lobe.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(transpose(inverse(matModel))) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 ambient;
uniform vec3 keyDir;
uniform vec3 keyColor;
uniform vec3 fillDir;
uniform vec3 fillColor;
uniform float metalness;
uniform float roughness;
uniform float clearcoat;
uniform vec3 emissive;
out vec4 finalColor;

vec3 light(vec3 N, vec3 V, vec3 L, vec3 col, vec3 base) {
  float NdotL = max(dot(N, L), 0.0);
  if (NdotL <= 0.0) return vec3(0.0);
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float power = mix(256.0, 8.0, clamp(roughness, 0.0, 1.0));
  float strength = mix(0.25, 1.0, metalness) * (1.0 - 0.7 * roughness);
  vec3 specTint = mix(vec3(1.0), base, metalness);
  vec3 diffuse = base * (1.0 - 0.8 * metalness) * NdotL;
  vec3 spec = specTint * pow(NdotH, power) * strength;
  vec3 coat = vec3(pow(NdotH, 512.0) * clearcoat);
  return col * (diffuse + spec + coat);
}

void main() {
  vec3 base = colDiffuse.rgb;
  vec3 N = normalize(fragNormal);
  vec3 V = normalize(viewPos - fragPosition);
  if (!gl_FrontFacing) N = -N;
  vec3 c = ambient * base;
  c += light(N, V, normalize(keyDir), keyColor, base);
  c += light(N, V, normalize(fillDir), fillColor, base);
  c += emissive;
  finalColor = vec4(c, colDiffuse.a);
}
`
)
