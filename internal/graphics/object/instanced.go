package object

import (
	"dust/internal/graphics"
	"dust/internal/light"
	"dust/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// InstancedModel draws one mesh many times in a single call, each copy
// placed by its own transformation.
type InstancedModel struct {
	shape
	instances  []mgl32.Mat4
	instanceVB *graphics.VertexBuffer
}

// NewInstancedModel uploads data and the per-instance transformations
func NewInstancedModel(d *graphics.Device, data *graphics.MeshData, instances []mgl32.Mat4) (*InstancedModel, error) {
	s, err := newShape(d, data, graphics.Triangles)
	if err != nil {
		return nil, err
	}
	vb, err := graphics.NewVertexBuffer(d, graphics.FlattenMat4(instances), 16)
	if err != nil {
		s.Dispose()
		return nil, err
	}
	m := &InstancedModel{shape: s, instanceVB: vb}
	m.instances = append(m.instances[:0], instances...)
	m.updateAABB()
	return m, nil
}

// SetInstances replaces the per-instance transformations
func (m *InstancedModel) SetInstances(instances []mgl32.Mat4) {
	m.instances = append(m.instances[:0], instances...)
	m.instanceVB.Update(graphics.FlattenMat4(instances))
	m.updateAABB()
}

// InstanceCount returns the number of instances drawn
func (m *InstancedModel) InstanceCount() int { return len(m.instances) }

// SetTransformation sets the matrix applied after each instance transformation
func (m *InstancedModel) SetTransformation(t mgl32.Mat4) {
	m.transformation = t
	m.updateAABB()
}

func (m *InstancedModel) updateAABB() {
	box := graphics.EmptyAABB
	for _, inst := range m.instances {
		box.ExpandWithAABB(m.local.Transform(m.transformation.Mul4(inst)))
	}
	m.aabb = box
}

func (m *InstancedModel) call(cam *graphics.Camera, vp graphics.Viewport) drawCall {
	c := m.shape.call(cam, vp)
	c.vertex = meshShader("#define INSTANCED\n")
	c.instances = func(p *graphics.Program) error {
		return p.BindInstanceMatrix("instanceMatrix", m.instanceVB)
	}
	c.count = len(m.instances)
	return c
}

func (m *InstancedModel) RenderForward(mat material.ForwardMaterial, cam *graphics.Camera, lights *light.Lights) error {
	if err := requireCamera("object.InstancedModel", cam); err != nil {
		return err
	}
	return submit(m.device, forward(m.call(cam, cam.Viewport()), mat, cam, lights))
}

func (m *InstancedModel) RenderDeferred(mat material.DeferredMaterial, cam *graphics.Camera, vp graphics.Viewport) error {
	if err := requireCamera("object.InstancedModel", cam); err != nil {
		return err
	}
	return submit(m.device, deferred(m.call(cam, vp), mat, cam))
}

// Dispose releases the mesh and the instance buffer
func (m *InstancedModel) Dispose() {
	m.instanceVB.Dispose()
	m.shape.Dispose()
}

// Imposters are camera-facing quads, one per position, all of the same size
type Imposters struct {
	shape
	size       float32
	positions  []mgl32.Vec3
	positionVB *graphics.VertexBuffer
}

// NewImposters returns billboards of the given size at the given positions
func NewImposters(d *graphics.Device, positions []mgl32.Vec3, size float32) (*Imposters, error) {
	quad := &graphics.MeshData{
		Positions: []mgl32.Vec3{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
	s, err := newShape(d, quad, graphics.Triangles)
	if err != nil {
		return nil, err
	}
	vb, err := graphics.NewVertexBuffer(d, graphics.Flatten3(positions), 3)
	if err != nil {
		s.Dispose()
		return nil, err
	}
	im := &Imposters{shape: s, size: size, positionVB: vb}
	im.positions = append(im.positions[:0], positions...)
	im.updateAABB()
	return im, nil
}

// SetPositions moves the billboards
func (im *Imposters) SetPositions(positions []mgl32.Vec3) {
	im.positions = append(im.positions[:0], positions...)
	im.positionVB.Update(graphics.Flatten3(positions))
	im.updateAABB()
}

// updateAABB bounds every billboard whatever its orientation
func (im *Imposters) updateAABB() {
	box := graphics.EmptyAABB
	r := im.size * 0.7072
	for _, p := range im.positions {
		box.Expand(p.Sub(mgl32.Vec3{r, r, r}))
		box.Expand(p.Add(mgl32.Vec3{r, r, r}))
	}
	im.aabb = box
}

func (im *Imposters) call(cam *graphics.Camera, vp graphics.Viewport) drawCall {
	return drawCall{
		mesh: im.mesh,
		vertex: func(attrs graphics.AttributeSet) string {
			return vertexShader(attrs, "", imposterVertex)
		},
		transform: func(p *graphics.Program) {
			p.SetMat4("viewProjection", cam.ViewProjection())
			p.SetVec3("cameraRight", cam.RightDirection())
			p.SetVec3("cameraUp", cam.UpDirection())
			p.SetFloat("imposterSize", im.size)
		},
		instances: func(p *graphics.Program) error {
			return p.BindInstanceAttribute("instancePosition", im.positionVB)
		},
		count:    len(im.positions),
		viewport: vp,
		mode:     graphics.Triangles,
		cull:     graphics.CullBack,
	}
}

func (im *Imposters) RenderForward(m material.ForwardMaterial, cam *graphics.Camera, lights *light.Lights) error {
	if err := requireCamera("object.Imposters", cam); err != nil {
		return err
	}
	return submit(im.device, forward(im.call(cam, cam.Viewport()), m, cam, lights))
}

func (im *Imposters) RenderDeferred(m material.DeferredMaterial, cam *graphics.Camera, vp graphics.Viewport) error {
	if err := requireCamera("object.Imposters", cam); err != nil {
		return err
	}
	return submit(im.device, deferred(im.call(cam, vp), m, cam))
}

// Dispose releases the quad and the position buffer
func (im *Imposters) Dispose() {
	im.positionVB.Dispose()
	im.shape.Dispose()
}

// ParticleSystem draws one mesh per particle. Particle positions are
// computed on the GPU from a start position, a start velocity, the shared
// Acceleration and the elapsed Time.
type ParticleSystem struct {
	shape
	Time         float32
	Acceleration mgl32.Vec3

	count      int
	startVB    *graphics.VertexBuffer
	velocityVB *graphics.VertexBuffer
}

// NewParticleSystem uploads the particle mesh. Particles are added with
// SetParticles.
func NewParticleSystem(d *graphics.Device, data *graphics.MeshData) (*ParticleSystem, error) {
	s, err := newShape(d, data, graphics.Triangles)
	if err != nil {
		return nil, err
	}
	ps := &ParticleSystem{shape: s}
	if ps.startVB, err = graphics.NewVertexBuffer(d, nil, 3); err != nil {
		ps.Dispose()
		return nil, err
	}
	if ps.velocityVB, err = graphics.NewVertexBuffer(d, nil, 3); err != nil {
		ps.Dispose()
		return nil, err
	}
	// particles can travel anywhere
	ps.aabb = graphics.InfiniteAABB
	return ps, nil
}

// SetParticles replaces all particles and restarts Time
func (ps *ParticleSystem) SetParticles(starts, velocities []mgl32.Vec3) error {
	if len(starts) != len(velocities) {
		return graphics.Errorf(graphics.ResourceBindFailure, "object.SetParticles",
			"%d start positions for %d velocities", len(starts), len(velocities))
	}
	ps.startVB.Update(graphics.Flatten3(starts))
	ps.velocityVB.Update(graphics.Flatten3(velocities))
	ps.count = len(starts)
	ps.Time = 0
	return nil
}

// ParticleCount returns the number of particles drawn
func (ps *ParticleSystem) ParticleCount() int { return ps.count }

// SetTransformation sets the emitter transformation; the AABB stays infinite
func (ps *ParticleSystem) SetTransformation(t mgl32.Mat4) {
	ps.transformation = t
}

func (ps *ParticleSystem) call(cam *graphics.Camera, vp graphics.Viewport) drawCall {
	c := ps.shape.call(cam, vp)
	c.vertex = meshShader("#define PARTICLES\n")
	transform := c.transform
	c.transform = func(p *graphics.Program) {
		transform(p)
		p.SetFloat("time", ps.Time)
		p.SetVec3("acceleration", ps.Acceleration)
	}
	c.instances = func(p *graphics.Program) error {
		if err := p.BindInstanceAttribute("startPosition", ps.startVB); err != nil {
			return err
		}
		return p.BindInstanceAttribute("startVelocity", ps.velocityVB)
	}
	c.count = ps.count
	return c
}

func (ps *ParticleSystem) RenderForward(m material.ForwardMaterial, cam *graphics.Camera, lights *light.Lights) error {
	if err := requireCamera("object.ParticleSystem", cam); err != nil {
		return err
	}
	return submit(ps.device, forward(ps.call(cam, cam.Viewport()), m, cam, lights))
}

func (ps *ParticleSystem) RenderDeferred(m material.DeferredMaterial, cam *graphics.Camera, vp graphics.Viewport) error {
	if err := requireCamera("object.ParticleSystem", cam); err != nil {
		return err
	}
	return submit(ps.device, deferred(ps.call(cam, vp), m, cam))
}

// Dispose releases the mesh and the particle buffers
func (ps *ParticleSystem) Dispose() {
	if ps.startVB != nil {
		ps.startVB.Dispose()
	}
	if ps.velocityVB != nil {
		ps.velocityVB.Dispose()
	}
	ps.shape.Dispose()
}
