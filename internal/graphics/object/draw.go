// Package object provides the concrete geometries: meshes, primitives,
// instanced and billboarded geometry, particles and the full-screen quad of
// the deferred lighting pass. Each geometry owns its vertex shader; the
// material passed to a render call supplies the fragment shader.
package object

import (
	"dust/internal/graphics"
	"dust/internal/light"
	"dust/internal/material"
	"dust/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// drawCall is one geometry draw with its material half resolved
type drawCall struct {
	mesh     *graphics.Mesh
	fragment material.FragmentShader
	// vertex builds the vertex shader for the fragment attributes
	vertex func(attrs graphics.AttributeSet) string
	// material sets the material uniforms
	material func(p *graphics.Program) error
	// transform sets the geometry uniforms
	transform func(p *graphics.Program)
	// instances binds per-instance inputs; nil for single draws
	instances func(p *graphics.Program) error
	count     int
	viewport  graphics.Viewport
	mode      graphics.Primitive
	cull      graphics.CullMode
}

// submit runs the draw protocol shared by every geometry: attribute check,
// program lookup, uniforms, attribute binding, viewport and draw. A
// mismatch between what the material reads and what the mesh supplies
// fails before anything is bound, even when an instanced draw has no
// instances. Bind state is left as the draw set it.
func submit(d *graphics.Device, c drawCall) error {
	attrs := c.fragment.Attributes
	if err := c.mesh.Check(attrs); err != nil {
		return err
	}
	if c.instances != nil && c.count == 0 {
		// nothing to draw, but the attribute contract still holds
		return nil
	}
	p, err := d.Program(c.vertex(attrs), c.fragment.Source)
	if err != nil {
		return err
	}
	p.Use()
	if err := c.material(p); err != nil {
		return err
	}
	c.transform(p)
	if err := c.mesh.Bind(p, attrs); err != nil {
		return err
	}
	if c.instances != nil {
		if err := c.instances(p); err != nil {
			return err
		}
	}
	d.SetViewport(c.viewport)

	ctx := d.Context()
	if c.cull != graphics.CullBack {
		ctx.SetCullFace(c.cull)
		defer ctx.SetCullFace(graphics.CullBack)
	}
	if c.instances != nil {
		c.mesh.DrawInstanced(c.mode, c.count)
	} else {
		c.mesh.Draw(c.mode)
	}
	profiling.CountDraw(c.mesh.VertexCount() * max(c.count, 1))
	return nil
}

// forward fills the material half of c from a forward material
func forward(c drawCall, m material.ForwardMaterial, cam *graphics.Camera, lights *light.Lights) drawCall {
	c.fragment = m.FragmentShader(lights)
	c.material = func(p *graphics.Program) error { return m.UseUniforms(p, cam, lights) }
	return c
}

// deferred fills the material half of c from a deferred material
func deferred(c drawCall, m material.DeferredMaterial, cam *graphics.Camera) drawCall {
	c.fragment = m.FragmentShader()
	c.material = func(p *graphics.Program) error { return m.UseUniforms(p, cam) }
	return c
}

func requireCamera(op string, cam *graphics.Camera) error {
	if cam == nil {
		return graphics.Errorf(graphics.PipelineStateError, op, "3D render without a camera")
	}
	return nil
}

func meshShader(defines string) func(graphics.AttributeSet) string {
	return func(attrs graphics.AttributeSet) string {
		return vertexShader(attrs, defines, meshVertex)
	}
}

// setTransform uploads the model, normal and view-projection matrices
func setTransform(p *graphics.Program, model mgl32.Mat4, cam *graphics.Camera) {
	p.SetMat4("modelMatrix", model)
	p.SetMat3("normalMatrix", model.Mat3().Inv().Transpose())
	p.SetMat4("viewProjection", cam.ViewProjection())
}
