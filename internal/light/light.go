// Package light describes the light sources of a scene and uploads them to
// shader programs. Forward and deferred materials share one GLSL lighting
// function and one uniform layout, so a lit surface shades the same way in
// both pipelines.
package light

import (
	"fmt"

	"dust/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Per-kind light limits of the shared shader
const (
	MaxDirectionalLights = 4
	MaxPointLights       = 8
	MaxSpotLights        = 4
)

// LightingModel selects the specular term
type LightingModel int

const (
	Phong LightingModel = iota
	BlinnPhong
)

func (m LightingModel) String() string {
	if m == BlinnPhong {
		return "blinn-phong"
	}
	return "phong"
}

// Attenuation is the constant/linear/quadratic falloff of positional lights
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

// DefaultAttenuation has no falloff
var DefaultAttenuation = Attenuation{Constant: 1}

// Factor returns the attenuation at the given distance
func (a Attenuation) Factor(distance float32) float32 {
	d := a.Constant + a.Linear*distance + a.Quadratic*distance*distance
	if d <= 0 {
		return 1
	}
	return 1 / d
}

// AmbientLight lights every surface evenly
type AmbientLight struct {
	Color     mgl32.Vec3
	Intensity float32
}

// DirectionalLight lights along a direction, like the sun
type DirectionalLight struct {
	Color     mgl32.Vec3
	Intensity float32
	Direction mgl32.Vec3
}

// PointLight lights in all directions from a position
type PointLight struct {
	Color       mgl32.Vec3
	Intensity   float32
	Position    mgl32.Vec3
	Attenuation Attenuation
}

// SpotLight is a point light limited to a cone. Cutoff is the half angle in
// radians.
type SpotLight struct {
	Color       mgl32.Vec3
	Intensity   float32
	Position    mgl32.Vec3
	Direction   mgl32.Vec3
	Cutoff      float32
	Attenuation Attenuation
}

// NewDirectionalLight returns a directional light with a normalised direction
func NewDirectionalLight(color mgl32.Vec3, intensity float32, direction mgl32.Vec3) *DirectionalLight {
	return &DirectionalLight{Color: color, Intensity: intensity, Direction: normalize(direction)}
}

// NewPointLight returns a point light with the given falloff
func NewPointLight(color mgl32.Vec3, intensity float32, position mgl32.Vec3, att Attenuation) *PointLight {
	return &PointLight{Color: color, Intensity: intensity, Position: position, Attenuation: att}
}

// NewSpotLight returns a spot light with a normalised direction
func NewSpotLight(color mgl32.Vec3, intensity float32, position, direction mgl32.Vec3, cutoff float32, att Attenuation) *SpotLight {
	return &SpotLight{
		Color:       color,
		Intensity:   intensity,
		Position:    position,
		Direction:   normalize(direction),
		Cutoff:      cutoff,
		Attenuation: att,
	}
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return v.Normalize()
}

// Lights is the light set of a scene. Render calls borrow it; it is never
// copied into materials or renderers.
type Lights struct {
	Ambient     *AmbientLight
	Directional []*DirectionalLight
	Point       []*PointLight
	Spot        []*SpotLight
	Model       LightingModel
}

// Count returns the number of lights that reach the shader, after clamping
// to the per-kind limits.
func (l *Lights) Count() (directional, point, spot int) {
	if l == nil {
		return 0, 0, 0
	}
	return min(len(l.Directional), MaxDirectionalLights),
		min(len(l.Point), MaxPointLights),
		min(len(l.Spot), MaxSpotLights)
}

// Apply uploads the lights to p. Lights beyond the per-kind limits are
// dropped with a warning. A nil receiver uploads an unlit (black) set.
func (l *Lights) Apply(p *graphics.Program) {
	nd, np, ns := l.Count()
	if l != nil && (nd < len(l.Directional) || np < len(l.Point) || ns < len(l.Spot)) {
		graphics.Logger().Warn("too many lights, extra lights ignored",
			"directional", len(l.Directional), "point", len(l.Point), "spot", len(l.Spot))
	}

	var ambient mgl32.Vec3
	model := Phong
	if l != nil {
		model = l.Model
		if l.Ambient != nil {
			ambient = l.Ambient.Color.Mul(l.Ambient.Intensity)
		}
	}
	p.SetVec3("ambientColor", ambient)
	p.SetInt("lightingModel", int32(model))
	p.SetInt("directionalCount", int32(nd))
	p.SetInt("pointCount", int32(np))
	p.SetInt("spotCount", int32(ns))

	for i := 0; i < nd; i++ {
		d := l.Directional[i]
		prefix := fmt.Sprintf("directionalLights[%d].", i)
		p.SetVec3(prefix+"color", d.Color.Mul(d.Intensity))
		p.SetVec3(prefix+"direction", normalize(d.Direction))
	}
	for i := 0; i < np; i++ {
		pl := l.Point[i]
		prefix := fmt.Sprintf("pointLights[%d].", i)
		p.SetVec3(prefix+"color", pl.Color.Mul(pl.Intensity))
		p.SetVec3(prefix+"position", pl.Position)
		p.SetVec3(prefix+"attenuation", attenuation(pl.Attenuation))
	}
	for i := 0; i < ns; i++ {
		s := l.Spot[i]
		prefix := fmt.Sprintf("spotLights[%d].", i)
		p.SetVec3(prefix+"color", s.Color.Mul(s.Intensity))
		p.SetVec3(prefix+"position", s.Position)
		p.SetVec3(prefix+"direction", normalize(s.Direction))
		p.SetFloat(prefix+"cutoff", cosine(s.Cutoff))
		p.SetVec3(prefix+"attenuation", attenuation(s.Attenuation))
	}
}

func attenuation(a Attenuation) mgl32.Vec3 {
	return mgl32.Vec3{a.Constant, a.Linear, a.Quadratic}
}
