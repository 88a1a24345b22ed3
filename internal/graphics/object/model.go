package object

import (
	"dust/internal/graphics"
	"dust/internal/light"
	"dust/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// shape is a transformed mesh drawn with one primitive mode. It carries the
// Geometry behaviour shared by Model and the built-in primitives.
type shape struct {
	device         *graphics.Device
	mesh           *graphics.Mesh
	mode           graphics.Primitive
	transformation mgl32.Mat4
	local          graphics.AxisAlignedBoundingBox
	aabb           graphics.AxisAlignedBoundingBox
}

func newShape(d *graphics.Device, data *graphics.MeshData, mode graphics.Primitive) (shape, error) {
	mesh, err := graphics.NewMesh(d, data)
	if err != nil {
		return shape{}, err
	}
	local := data.AABB()
	return shape{
		device:         d,
		mesh:           mesh,
		mode:           mode,
		transformation: mgl32.Ident4(),
		local:          local,
		aabb:           local,
	}, nil
}

// SetTransformation sets the local-to-world matrix and updates the AABB
func (s *shape) SetTransformation(t mgl32.Mat4) {
	s.transformation = t
	s.aabb = s.local.Transform(t)
}

// Transformation returns the local-to-world matrix
func (s *shape) Transformation() mgl32.Mat4 { return s.transformation }

// AABB returns the world-space bounding box
func (s *shape) AABB() graphics.AxisAlignedBoundingBox { return s.aabb }

// Attributes returns the vertex attributes the geometry supplies
func (s *shape) Attributes() graphics.AttributeSet { return s.mesh.Attributes() }

// Dispose releases the GPU mesh
func (s *shape) Dispose() { s.mesh.Dispose() }

func (s *shape) call(cam *graphics.Camera, vp graphics.Viewport) drawCall {
	return drawCall{
		mesh:      s.mesh,
		vertex:    meshShader(""),
		transform: func(p *graphics.Program) { setTransform(p, s.transformation, cam) },
		viewport:  vp,
		mode:      s.mode,
		cull:      graphics.CullBack,
	}
}

// RenderForward draws the geometry with m into the current framebuffer
func (s *shape) RenderForward(m material.ForwardMaterial, cam *graphics.Camera, lights *light.Lights) error {
	if err := requireCamera("object.RenderForward", cam); err != nil {
		return err
	}
	return submit(s.device, forward(s.call(cam, cam.Viewport()), m, cam, lights))
}

// RenderDeferred draws the geometry with m into the bound G-buffer
func (s *shape) RenderDeferred(m material.DeferredMaterial, cam *graphics.Camera, vp graphics.Viewport) error {
	if err := requireCamera("object.RenderDeferred", cam); err != nil {
		return err
	}
	return submit(s.device, deferred(s.call(cam, vp), m, cam))
}

// render2D draws the geometry in window pixels. The transformation maps
// local units to pixels.
func (s *shape) render2D(m material.ForwardMaterial, vp graphics.Viewport) error {
	c := drawCall{
		mesh: s.mesh,
		vertex: func(attrs graphics.AttributeSet) string {
			return vertexShader(attrs, "", pixelVertex)
		},
		transform: func(p *graphics.Program) {
			p.SetMat4("modelMatrix", s.transformation)
			p.SetVec2("viewportSize", mgl32.Vec2{float32(vp.Width), float32(vp.Height)})
		},
		viewport: vp,
		mode:     s.mode,
		cull:     graphics.CullNone,
	}
	return submit(s.device, forward(c, m, nil, nil))
}

// Model is a triangle mesh from loaded or generated MeshData
type Model struct {
	shape
}

// NewModel uploads data as a triangle mesh
func NewModel(d *graphics.Device, data *graphics.MeshData) (*Model, error) {
	s, err := newShape(d, data, graphics.Triangles)
	if err != nil {
		return nil, err
	}
	return &Model{shape: s}, nil
}
