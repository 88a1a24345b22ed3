package material

import (
	"dust/internal/graphics"
	"dust/internal/light"
)

const varyings = `
in vec3 pos;
#ifdef USE_NORMAL
in vec3 nor;
#endif
#ifdef USE_UV
in vec2 uvs;
#endif
#ifdef USE_COLOR
in vec4 col;
#endif
`

const albedoSource = `
uniform vec4 surfaceColor;
#ifdef USE_TEXTURE
uniform sampler2D surfaceTexture;
#endif

vec4 surfaceAlbedo()
{
    vec4 c = surfaceColor;
#ifdef USE_TEXTURE
    c *= texture(surfaceTexture, uvs);
#endif
#ifdef USE_COLOR
    c *= col;
#endif
    return c;
}
`

const unlitSource = `
out vec4 outColor;

void main()
{
    outColor = surfaceAlbedo();
}
`

const phongSource = `
uniform vec3 eyePosition;
uniform float specularIntensity;
uniform float shininess;

out vec4 outColor;

void main()
{
    vec4 albedo = surfaceAlbedo();
    outColor = vec4(calculateLighting(albedo.rgb, pos, nor, eyePosition, specularIntensity, shininess), albedo.a);
}
`

const normalSource = `
out vec4 outColor;

void main()
{
    outColor = vec4(normalize(nor) * 0.5 + 0.5, 1.0);
}
`

const skyboxSource = `
uniform samplerCube skybox;

out vec4 outColor;

void main()
{
    outColor = texture(skybox, pos);
}
`

const geometryPassSource = `
uniform float specularIntensity;
uniform float shininess;

layout(location = 0) out vec4 gPosition;
layout(location = 1) out vec4 gNormal;
layout(location = 2) out vec4 gAlbedo;
layout(location = 3) out vec4 gSpecular;

void main()
{
    gAlbedo = surfaceAlbedo();
#ifdef SURFACE_LIT
    gPosition = vec4(pos, 1.0);
    gNormal = vec4(normalize(nor), 0.0);
    gSpecular = vec4(specularIntensity, shininess / 255.0, 0.0, 1.0);
#else
    gPosition = vec4(pos, 0.0);
    gNormal = vec4(0.0);
    gSpecular = vec4(0.0);
#endif
}
`

const lightingPassSource = `
uniform sampler2D gPosition;
uniform sampler2D gNormal;
uniform sampler2D gAlbedo;
uniform sampler2D gSpecular;
uniform sampler2D gDepth;
uniform vec3 eyePosition;

out vec4 outColor;

void main()
{
    float depth = texture(gDepth, uvs).r;
    if (depth >= 1.0) {
        discard;
    }
    gl_FragDepth = depth;

    vec4 position = texture(gPosition, uvs);
    vec4 albedo = texture(gAlbedo, uvs);
    if (position.a < 0.5) {
        outColor = albedo;
        return;
    }
    vec4 specular = texture(gSpecular, uvs);
    vec3 normal = texture(gNormal, uvs).xyz;
    outColor = vec4(calculateLighting(albedo.rgb, position.xyz, normal, eyePosition, specular.r, specular.g * 255.0), albedo.a);
}
`

// surfaceShader assembles a fragment shader for s around body
func surfaceShader(s Surface, body string, lit bool) FragmentShader {
	attrs := s.Attributes()
	src := s.defines() + varyings + albedoSource
	if lit {
		src += light.ShaderSource()
	}
	return FragmentShader{
		Source:     graphics.ShaderSource(attrs, src+body),
		Attributes: attrs,
	}
}
