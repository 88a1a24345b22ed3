// Package material holds the fragment half of every draw: a fragment
// shader, the vertex attributes it consumes and the uniforms it sets.
package material

import (
	"dust/internal/graphics"
	"dust/internal/light"

	"github.com/go-gl/mathgl/mgl32"
)

// FragmentShader is a fragment stage source and the vertex attributes it
// reads. The geometry generates a vertex shader for the same attribute set.
type FragmentShader struct {
	Source     string
	Attributes graphics.AttributeSet
}

// ForwardMaterial shades a geometry directly into the current framebuffer.
type ForwardMaterial interface {
	FragmentShader(lights *light.Lights) FragmentShader
	// UseUniforms sets the material uniforms on p. cam is nil for 2D draws.
	UseUniforms(p *graphics.Program, cam *graphics.Camera, lights *light.Lights) error
	IsTransparent() bool
	Surface() Surface
}

// DeferredMaterial writes surface attributes into a G-buffer
type DeferredMaterial interface {
	FragmentShader() FragmentShader
	UseUniforms(p *graphics.Program, cam *graphics.Camera) error
}

// Surface describes how a material reflects light. The deferred pipeline
// rebuilds an equivalent geometry-pass material from it.
type Surface struct {
	Albedo            mgl32.Vec4
	Texture           *graphics.Texture
	VertexColors      bool
	Lit               bool
	SpecularIntensity float32
	Shininess         float32
	// ForwardOnly marks surfaces a G-buffer cannot represent
	ForwardOnly bool
}

// Attributes returns the vertex attributes the surface needs
func (s Surface) Attributes() graphics.AttributeSet {
	a := graphics.Position
	if s.Lit {
		a |= graphics.Normal
	}
	if s.Texture != nil {
		a |= graphics.UV
	}
	if s.VertexColors {
		a |= graphics.Color
	}
	return a
}

// IsTransparent reports whether the surface blends with what is behind it
func (s Surface) IsTransparent() bool {
	if s.Albedo[3] < 1 {
		return true
	}
	return s.Texture != nil && s.Texture.HasAlpha()
}

// apply sets the surface uniforms shared by forward and geometry-pass shaders.
func (s Surface) apply(p *graphics.Program) error {
	p.SetVec4("surfaceColor", s.Albedo)
	if s.Lit {
		p.SetFloat("specularIntensity", s.SpecularIntensity)
		p.SetFloat("shininess", s.Shininess)
	}
	if s.Texture != nil {
		return p.SetTexture("surfaceTexture", 0, s.Texture)
	}
	return nil
}

// defines returns the fragment defines selecting the surface features.
func (s Surface) defines() string {
	var out string
	if s.Lit {
		out += "#define SURFACE_LIT\n"
	}
	if s.Texture != nil {
		out += "#define USE_TEXTURE\n"
	}
	return out
}

func setEye(p *graphics.Program, cam *graphics.Camera) {
	if cam != nil {
		p.SetVec3("eyePosition", cam.Position())
	}
}

// White is the neutral albedo
var White = mgl32.Vec4{1, 1, 1, 1}
