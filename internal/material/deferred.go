package material

import (
	"dust/internal/graphics"
	"dust/internal/light"
)

// GeometryPassMaterial writes a Surface into the G-buffer: world position
// with a lit flag, normal, albedo and specular parameters. The deferred
// pipeline builds one per object from the object's own material.
type GeometryPassMaterial struct {
	surface Surface
}

var _ DeferredMaterial = (*GeometryPassMaterial)(nil)

// NewGeometryPassMaterial returns the geometry-pass material for s
func NewGeometryPassMaterial(s Surface) *GeometryPassMaterial {
	return &GeometryPassMaterial{surface: s}
}

// Surface returns the surface written by the material
func (m *GeometryPassMaterial) Surface() Surface { return m.surface }

func (m *GeometryPassMaterial) FragmentShader() FragmentShader {
	return surfaceShader(m.surface, geometryPassSource, false)
}

func (m *GeometryPassMaterial) UseUniforms(p *graphics.Program, _ *graphics.Camera) error {
	return m.surface.apply(p)
}

// LightingMaterial shades the G-buffer contents of a frame with the scene
// lights. It is drawn on a full-screen quad; the camera and lights it
// borrows are the ones of the geometry pass.
type LightingMaterial struct {
	GBuffer *graphics.GBuffer
	Camera  *graphics.Camera
	Lights  *light.Lights
}

var _ ForwardMaterial = (*LightingMaterial)(nil)

// gbufferSamplers maps G-buffer channels to sampler names and texture units
var gbufferSamplers = [graphics.GBufferChannels]string{
	graphics.GBufferPosition: "gPosition",
	graphics.GBufferNormal:   "gNormal",
	graphics.GBufferAlbedo:   "gAlbedo",
	graphics.GBufferSpecular: "gSpecular",
}

func (m *LightingMaterial) FragmentShader(*light.Lights) FragmentShader {
	attrs := graphics.Position | graphics.UV
	return FragmentShader{
		Source:     graphics.ShaderSource(attrs, varyings+light.ShaderSource()+lightingPassSource),
		Attributes: attrs,
	}
}

// UseUniforms binds the G-buffer textures and uploads the lights. Explicit
// cam and lights arguments override the borrowed ones.
func (m *LightingMaterial) UseUniforms(p *graphics.Program, cam *graphics.Camera, lights *light.Lights) error {
	if m.GBuffer == nil {
		return graphics.Errorf(graphics.PipelineStateError, "material.LightingMaterial", "no g-buffer")
	}
	for i, name := range gbufferSamplers {
		if err := p.SetTexture(name, uint32(i), m.GBuffer.Channel(i)); err != nil {
			return err
		}
	}
	if err := p.SetTexture("gDepth", graphics.GBufferChannels, m.GBuffer.Depth()); err != nil {
		return err
	}
	if cam == nil {
		cam = m.Camera
	}
	if lights == nil {
		lights = m.Lights
	}
	setEye(p, cam)
	lights.Apply(p)
	return nil
}

func (m *LightingMaterial) IsTransparent() bool { return false }

func (m *LightingMaterial) Surface() Surface { return Surface{Albedo: White, ForwardOnly: true} }
