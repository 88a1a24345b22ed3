package light

import (
	"fmt"

	"github.com/chewxy/math32"
)

func cosine(angle float32) float32 {
	return math32.Cos(angle)
}

// ShaderSource returns the GLSL lighting function every lit material
// includes:
//
//	vec3 calculateLighting(vec3 albedo, vec3 position, vec3 normal, vec3 eye, float specularIntensity, float shininess)
//
// It reads the uniforms written by Lights.Apply.
func ShaderSource() string {
	return fmt.Sprintf(lightingSource, MaxDirectionalLights, MaxPointLights, MaxSpotLights)
}

const lightingSource = `
#define MAX_DIRECTIONAL_LIGHTS %d
#define MAX_POINT_LIGHTS %d
#define MAX_SPOT_LIGHTS %d

struct DirectionalLight {
    vec3 color;
    vec3 direction;
};

struct PointLight {
    vec3 color;
    vec3 position;
    vec3 attenuation;
};

struct SpotLight {
    vec3 color;
    vec3 position;
    vec3 direction;
    float cutoff;
    vec3 attenuation;
};

uniform vec3 ambientColor;
uniform int lightingModel;
uniform int directionalCount;
uniform int pointCount;
uniform int spotCount;
uniform DirectionalLight directionalLights[MAX_DIRECTIONAL_LIGHTS];
uniform PointLight pointLights[MAX_POINT_LIGHTS];
uniform SpotLight spotLights[MAX_SPOT_LIGHTS];

float specularTerm(vec3 toLight, vec3 normal, vec3 toEye, float shininess)
{
    if (lightingModel == 1) {
        vec3 halfway = normalize(toLight + toEye);
        return pow(max(dot(normal, halfway), 0.0), shininess);
    }
    vec3 reflected = reflect(-toLight, normal);
    return pow(max(dot(toEye, reflected), 0.0), shininess);
}

vec3 shade(vec3 color, vec3 toLight, vec3 albedo, vec3 normal, vec3 toEye, float specularIntensity, float shininess)
{
    float diffuse = max(dot(normal, toLight), 0.0);
    if (diffuse <= 0.0) {
        return vec3(0.0);
    }
    float specular = specularIntensity * specularTerm(toLight, normal, toEye, shininess);
    return color * (albedo * diffuse + vec3(specular));
}

float falloff(vec3 attenuation, float distance)
{
    float d = attenuation.x + attenuation.y * distance + attenuation.z * distance * distance;
    return d > 0.0 ? 1.0 / d : 1.0;
}

vec3 calculateLighting(vec3 albedo, vec3 position, vec3 normal, vec3 eye, float specularIntensity, float shininess)
{
    vec3 n = normalize(normal);
    vec3 toEye = normalize(eye - position);
    vec3 result = ambientColor * albedo;

    for (int i = 0; i < directionalCount; i++) {
        DirectionalLight l = directionalLights[i];
        result += shade(l.color, -l.direction, albedo, n, toEye, specularIntensity, shininess);
    }
    for (int i = 0; i < pointCount; i++) {
        PointLight l = pointLights[i];
        vec3 toLight = l.position - position;
        float distance = length(toLight);
        result += falloff(l.attenuation, distance) *
            shade(l.color, toLight / distance, albedo, n, toEye, specularIntensity, shininess);
    }
    for (int i = 0; i < spotCount; i++) {
        SpotLight l = spotLights[i];
        vec3 toLight = l.position - position;
        float distance = length(toLight);
        vec3 dir = toLight / distance;
        if (dot(-dir, l.direction) < l.cutoff) {
            continue;
        }
        result += falloff(l.attenuation, distance) *
            shade(l.color, dir, albedo, n, toEye, specularIntensity, shininess);
    }
    return result;
}
`
