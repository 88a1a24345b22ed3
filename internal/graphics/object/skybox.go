package object

import (
	"dust/internal/graphics"
	"dust/internal/light"
	"dust/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// Skybox is a unit cube drawn around the camera at the far plane. It is
// never culled and only renders forward.
type Skybox struct {
	device *graphics.Device
	mesh   *graphics.Mesh
}

// NewSkybox uploads the cube
func NewSkybox(d *graphics.Device) (*Skybox, error) {
	data := &graphics.MeshData{}
	appendBox(data, mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec4{1, 1, 1, 1})
	// positions only; the cube is seen from inside
	data.Normals, data.Colors = nil, nil
	mesh, err := graphics.NewMesh(d, data)
	if err != nil {
		return nil, err
	}
	return &Skybox{device: d, mesh: mesh}, nil
}

// AABB is infinite: the skybox surrounds everything
func (s *Skybox) AABB() graphics.AxisAlignedBoundingBox { return graphics.InfiniteAABB }

func (s *Skybox) RenderForward(m material.ForwardMaterial, cam *graphics.Camera, lights *light.Lights) error {
	if err := requireCamera("object.Skybox", cam); err != nil {
		return err
	}
	c := drawCall{
		mesh: s.mesh,
		vertex: func(attrs graphics.AttributeSet) string {
			return vertexShader(attrs, "", skyboxVertex)
		},
		transform: func(p *graphics.Program) {
			p.SetMat4("view", cam.View())
			p.SetMat4("projection", cam.Projection())
		},
		viewport: cam.Viewport(),
		mode:     graphics.Triangles,
		cull:     graphics.CullFront,
	}
	return submit(s.device, forward(c, m, cam, lights))
}

// RenderDeferred fails: a skybox has no surface to store in a G-buffer.
func (s *Skybox) RenderDeferred(material.DeferredMaterial, *graphics.Camera, graphics.Viewport) error {
	return graphics.Errorf(graphics.PipelineStateError, "object.Skybox", "skybox renders forward only")
}

// Dispose releases the cube mesh
func (s *Skybox) Dispose() { s.mesh.Dispose() }

// ScreenQuad covers the whole viewport. The deferred lighting pass draws
// it with the lighting material.
type ScreenQuad struct {
	device *graphics.Device
	mesh   *graphics.Mesh
}

// NewScreenQuad uploads the quad in normalised device coordinates
func NewScreenQuad(d *graphics.Device) (*ScreenQuad, error) {
	mesh, err := graphics.NewMesh(d, &graphics.MeshData{
		Positions: []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	})
	if err != nil {
		return nil, err
	}
	return &ScreenQuad{device: d, mesh: mesh}, nil
}

// RenderForward2D draws the quad over vp with m
func (q *ScreenQuad) RenderForward2D(m material.ForwardMaterial, vp graphics.Viewport) error {
	c := drawCall{
		mesh: q.mesh,
		vertex: func(attrs graphics.AttributeSet) string {
			return vertexShader(attrs, "", screenVertex)
		},
		transform: func(*graphics.Program) {},
		viewport:  vp,
		mode:      graphics.Triangles,
		cull:      graphics.CullNone,
	}
	return submit(q.device, forward(c, m, nil, nil))
}

// Dispose releases the quad mesh
func (q *ScreenQuad) Dispose() { q.mesh.Dispose() }
