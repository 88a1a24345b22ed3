package material

import (
	"dust/internal/graphics"
	"dust/internal/light"

	"github.com/go-gl/mathgl/mgl32"
)

// ColorMaterial shades every fragment with one colour, unlit.
type ColorMaterial struct {
	Color mgl32.Vec4
}

// NewColorMaterial returns an opaque colour material
func NewColorMaterial(r, g, b float32) *ColorMaterial {
	return &ColorMaterial{Color: mgl32.Vec4{r, g, b, 1}}
}

func (m *ColorMaterial) Surface() Surface {
	return Surface{Albedo: m.Color}
}

func (m *ColorMaterial) FragmentShader(*light.Lights) FragmentShader {
	return surfaceShader(m.Surface(), unlitSource, false)
}

func (m *ColorMaterial) UseUniforms(p *graphics.Program, _ *graphics.Camera, _ *light.Lights) error {
	return m.Surface().apply(p)
}

func (m *ColorMaterial) IsTransparent() bool { return m.Surface().IsTransparent() }

// VertexColorMaterial outputs the interpolated per-vertex colour, unlit.
type VertexColorMaterial struct{}

func (m *VertexColorMaterial) Surface() Surface {
	return Surface{Albedo: White, VertexColors: true}
}

func (m *VertexColorMaterial) FragmentShader(*light.Lights) FragmentShader {
	return surfaceShader(m.Surface(), unlitSource, false)
}

func (m *VertexColorMaterial) UseUniforms(p *graphics.Program, _ *graphics.Camera, _ *light.Lights) error {
	return m.Surface().apply(p)
}

func (m *VertexColorMaterial) IsTransparent() bool { return false }

// TextureMaterial samples a texture, multiplied by Tint, unlit.
type TextureMaterial struct {
	Texture *graphics.Texture
	Tint    mgl32.Vec4
}

// NewTextureMaterial returns an untinted texture material
func NewTextureMaterial(tex *graphics.Texture) *TextureMaterial {
	return &TextureMaterial{Texture: tex, Tint: White}
}

func (m *TextureMaterial) Surface() Surface {
	return Surface{Albedo: m.Tint, Texture: m.Texture}
}

func (m *TextureMaterial) FragmentShader(*light.Lights) FragmentShader {
	return surfaceShader(m.Surface(), unlitSource, false)
}

func (m *TextureMaterial) UseUniforms(p *graphics.Program, _ *graphics.Camera, _ *light.Lights) error {
	return m.Surface().apply(p)
}

// IsTransparent is true when the tint is translucent or the texture has an
// alpha channel.
func (m *TextureMaterial) IsTransparent() bool { return m.Surface().IsTransparent() }

// PhongMaterial is lit by the scene lights using the shared lighting
// function. A texture, when set, modulates Color.
type PhongMaterial struct {
	Color             mgl32.Vec4
	Texture           *graphics.Texture
	SpecularIntensity float32
	Shininess         float32
}

// NewPhongMaterial returns an opaque lit material with moderate highlights
func NewPhongMaterial(color mgl32.Vec4) *PhongMaterial {
	return &PhongMaterial{Color: color, SpecularIntensity: 0.5, Shininess: 32}
}

func (m *PhongMaterial) Surface() Surface {
	return Surface{
		Albedo:            m.Color,
		Texture:           m.Texture,
		Lit:               true,
		SpecularIntensity: m.SpecularIntensity,
		Shininess:         m.Shininess,
	}
}

func (m *PhongMaterial) FragmentShader(*light.Lights) FragmentShader {
	return surfaceShader(m.Surface(), phongSource, true)
}

func (m *PhongMaterial) UseUniforms(p *graphics.Program, cam *graphics.Camera, lights *light.Lights) error {
	if err := m.Surface().apply(p); err != nil {
		return err
	}
	setEye(p, cam)
	lights.Apply(p)
	return nil
}

func (m *PhongMaterial) IsTransparent() bool { return m.Surface().IsTransparent() }

// Deferred returns the geometry-pass material writing this surface
func (m *PhongMaterial) Deferred() DeferredMaterial {
	return NewGeometryPassMaterial(m.Surface())
}

// NormalMaterial visualises surface normals as colours
type NormalMaterial struct{}

func (m *NormalMaterial) Surface() Surface { return Surface{Albedo: White, ForwardOnly: true} }

func (m *NormalMaterial) FragmentShader(*light.Lights) FragmentShader {
	attrs := graphics.Position | graphics.Normal
	return FragmentShader{
		Source:     graphics.ShaderSource(attrs, varyings+normalSource),
		Attributes: attrs,
	}
}

func (m *NormalMaterial) UseUniforms(*graphics.Program, *graphics.Camera, *light.Lights) error {
	return nil
}

func (m *NormalMaterial) IsTransparent() bool { return false }

// SkyboxMaterial samples a cube map in the direction of each fragment
type SkyboxMaterial struct {
	CubeMap *graphics.Texture
}

func (m *SkyboxMaterial) Surface() Surface { return Surface{Albedo: White, ForwardOnly: true} }

func (m *SkyboxMaterial) FragmentShader(*light.Lights) FragmentShader {
	return FragmentShader{
		Source:     graphics.ShaderSource(graphics.Position, varyings+skyboxSource),
		Attributes: graphics.Position,
	}
}

func (m *SkyboxMaterial) UseUniforms(p *graphics.Program, _ *graphics.Camera, _ *light.Lights) error {
	if m.CubeMap == nil || m.CubeMap.Target() != graphics.TextureCubeMap {
		return graphics.Errorf(graphics.ResourceBindFailure, "material.SkyboxMaterial", "skybox needs a cube map texture")
	}
	return p.SetTexture("skybox", 0, m.CubeMap)
}

func (m *SkyboxMaterial) IsTransparent() bool { return false }
