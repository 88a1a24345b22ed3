package object

import "dust/internal/graphics"

// Vertex inputs are named after graphics.Attribute.Name; outputs are the
// varyings the material fragment shaders read.
const vertexInterface = `
in vec3 position;
out vec3 pos;
#ifdef USE_NORMAL
in vec3 normal;
out vec3 nor;
#endif
#ifdef USE_UV
in vec2 uv;
out vec2 uvs;
#endif
#ifdef USE_COLOR
in vec4 color;
out vec4 col;
#endif
`

// passThrough copies uv and colour inputs to their varyings
const passThrough = `
void passThrough()
{
#ifdef USE_UV
    uvs = uv;
#endif
#ifdef USE_COLOR
    col = color;
#endif
}
`

const meshVertex = `
uniform mat4 modelMatrix;
uniform mat3 normalMatrix;
uniform mat4 viewProjection;

#ifdef INSTANCED
in mat4 instanceMatrix;
#endif
#ifdef PARTICLES
uniform float time;
uniform vec3 acceleration;
in vec3 startPosition;
in vec3 startVelocity;
#endif

void main()
{
    mat4 model = modelMatrix;
    vec3 local = position;
#ifdef INSTANCED
    model = model * instanceMatrix;
#endif
#ifdef PARTICLES
    local += startPosition + startVelocity * time + 0.5 * acceleration * time * time;
#endif
    vec4 world = model * vec4(local, 1.0);
    pos = world.xyz;
#ifdef USE_NORMAL
#ifdef INSTANCED
    nor = mat3(transpose(inverse(model))) * normal;
#else
    nor = normalMatrix * normal;
#endif
#endif
    passThrough();
    gl_Position = viewProjection * world;
}
`

// pixelVertex places geometry in window pixels, origin bottom left
const pixelVertex = `
uniform mat4 modelMatrix;
uniform vec2 viewportSize;

void main()
{
    vec4 world = modelMatrix * vec4(position, 1.0);
    pos = world.xyz;
#ifdef USE_NORMAL
    nor = normalize(mat3(modelMatrix) * normal);
#endif
    passThrough();
    gl_Position = vec4(2.0 * world.xy / viewportSize - 1.0, 0.0, 1.0);
}
`

const screenVertex = `
void main()
{
    pos = position;
#ifdef USE_NORMAL
    nor = normal;
#endif
    passThrough();
    gl_Position = vec4(position.xy, 0.0, 1.0);
}
`

// skyboxVertex drops the camera translation and pins depth to the far plane
const skyboxVertex = `
uniform mat4 view;
uniform mat4 projection;

void main()
{
    pos = position;
#ifdef USE_NORMAL
    nor = normal;
#endif
    passThrough();
    vec4 clip = projection * mat4(mat3(view)) * vec4(position, 1.0);
    gl_Position = clip.xyww;
}
`

const imposterVertex = `
uniform mat4 viewProjection;
uniform vec3 cameraRight;
uniform vec3 cameraUp;
uniform float imposterSize;

in vec3 instancePosition;

void main()
{
    vec3 world = instancePosition + (cameraRight * position.x + cameraUp * position.y) * imposterSize;
    pos = world;
#ifdef USE_NORMAL
    // the quad faces +Z in its own space
    mat3 facing = mat3(cameraRight, cameraUp, cross(cameraRight, cameraUp));
    nor = normalize(facing * normal);
#endif
    passThrough();
    gl_Position = viewProjection * vec4(world, 1.0);
}
`

// vertexShader assembles a vertex shader producing the varyings of attrs
func vertexShader(attrs graphics.AttributeSet, defines, body string) string {
	return graphics.ShaderSource(attrs, defines+vertexInterface+passThrough+body)
}
