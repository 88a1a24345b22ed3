package graphics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshData is CPU-side vertex data as handed over by an asset loader.
// Positions are required; every other slice is optional but, when set,
// must have one entry per position.
type MeshData struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Colors    []mgl32.Vec4
	Indices   []uint32
}

// Attributes returns the attributes this data can supply
func (m *MeshData) Attributes() AttributeSet {
	var a AttributeSet
	if len(m.Positions) > 0 {
		a |= Position
	}
	if len(m.Normals) > 0 {
		a |= Normal
	}
	if len(m.UVs) > 0 {
		a |= UV
	}
	if len(m.Colors) > 0 {
		a |= Color
	}
	return a
}

// Validate checks slice lengths and index ranges
func (m *MeshData) Validate() error {
	n := len(m.Positions)
	if n == 0 {
		return fmt.Errorf("mesh has no positions")
	}
	check := func(name string, l int) error {
		if l != 0 && l != n {
			return fmt.Errorf("mesh has %d %s for %d positions", l, name, n)
		}
		return nil
	}
	if err := check("normals", len(m.Normals)); err != nil {
		return err
	}
	if err := check("uvs", len(m.UVs)); err != nil {
		return err
	}
	if err := check("colors", len(m.Colors)); err != nil {
		return err
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh index %d at %d out of range (%d positions)", idx, i, n)
		}
	}
	return nil
}

// AABB returns the box enclosing all positions
func (m *MeshData) AABB() AxisAlignedBoundingBox {
	return NewAABB(m.Positions)
}

// ComputeNormals sets smooth per-vertex normals from the triangle list
// (indexed or not).
func (m *MeshData) ComputeNormals() {
	normals := make([]mgl32.Vec3, len(m.Positions))
	tri := func(a, b, c uint32) {
		pa, pb, pc := m.Positions[a], m.Positions[b], m.Positions[c]
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	if len(m.Indices) > 0 {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			tri(m.Indices[i], m.Indices[i+1], m.Indices[i+2])
		}
	} else {
		for i := uint32(0); int(i)+2 < len(m.Positions); i += 3 {
			tri(i, i+1, i+2)
		}
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	m.Normals = normals
}

// Mesh is MeshData uploaded to the GPU: one buffer per attribute plus an
// optional index buffer, recorded in a vertex array object.
type Mesh struct {
	ctx        Context
	vao        uint32
	buffers    map[Attribute]*VertexBuffer
	elements   *ElementBuffer
	vertices   int
	attributes AttributeSet
}

// NewMesh validates and uploads data
func NewMesh(d *Device, data *MeshData) (*Mesh, error) {
	if err := data.Validate(); err != nil {
		return nil, NewError(ResourceBindFailure, "graphics.NewMesh", err)
	}
	vao, err := d.ctx.CreateVertexArray()
	if err != nil {
		return nil, NewError(ResourceBindFailure, "graphics.NewMesh", err)
	}
	m := &Mesh{
		ctx:        d.ctx,
		vao:        vao,
		buffers:    make(map[Attribute]*VertexBuffer),
		vertices:   len(data.Positions),
		attributes: data.Attributes(),
	}
	d.ctx.BindVertexArray(vao)

	upload := func(a Attribute, floats []float32) error {
		buf, err := NewVertexBuffer(d, floats, a.Components())
		if err != nil {
			return err
		}
		m.buffers[a] = buf
		return nil
	}
	steps := []struct {
		attr Attribute
		data func() []float32
	}{
		{Position, func() []float32 { return Flatten3(data.Positions) }},
		{Normal, func() []float32 { return Flatten3(data.Normals) }},
		{UV, func() []float32 { return Flatten2(data.UVs) }},
		{Color, func() []float32 { return Flatten4(data.Colors) }},
	}
	for _, s := range steps {
		if !m.attributes.Has(s.attr) {
			continue
		}
		if err := upload(s.attr, s.data()); err != nil {
			m.Dispose()
			return nil, err
		}
	}
	if len(data.Indices) > 0 {
		m.elements, err = NewElementBuffer(d, data.Indices)
		if err != nil {
			m.Dispose()
			return nil, err
		}
	}
	return m, nil
}

// Attributes returns the attributes the mesh can supply
func (m *Mesh) Attributes() AttributeSet { return m.attributes }

// VertexCount returns the number of vertices a draw submits
func (m *Mesh) VertexCount() int {
	if m.elements != nil {
		return m.elements.Count()
	}
	return m.vertices
}

// Check returns an AttributeMismatch error if need asks for attributes
// the mesh does not have.
func (m *Mesh) Check(need AttributeSet) error {
	if missing := m.attributes.Missing(need); missing != 0 {
		return Errorf(AttributeMismatch, "mesh.Check", "material needs %s, mesh has %s (missing %s)", need, m.attributes, missing)
	}
	return nil
}

// Bind binds the vertex array and feeds each attribute of need into p.
func (m *Mesh) Bind(p *Program, need AttributeSet) error {
	if err := m.Check(need); err != nil {
		return err
	}
	m.ctx.BindVertexArray(m.vao)
	var bindErr error
	need.Each(func(a Attribute) {
		if bindErr != nil {
			return
		}
		bindErr = p.BindAttribute(a.Name(), m.buffers[a])
	})
	if bindErr != nil {
		return bindErr
	}
	if m.elements != nil {
		m.ctx.BindElementBuffer(m.elements.id)
	}
	return nil
}

// UpdateAttribute replaces the data of one attribute. The vertex count
// must not change.
func (m *Mesh) UpdateAttribute(a Attribute, data []float32) error {
	buf, ok := m.buffers[a]
	if !ok {
		return Errorf(AttributeMismatch, "mesh.UpdateAttribute", "mesh has no %s buffer", a)
	}
	if len(data) != m.vertices*int(a.Components()) {
		return Errorf(ResourceBindFailure, "mesh.UpdateAttribute", "got %d floats, want %d", len(data), m.vertices*int(a.Components()))
	}
	buf.Update(data)
	return nil
}

// Draw issues one draw call for the whole mesh
func (m *Mesh) Draw(mode Primitive) {
	if m.elements != nil {
		m.ctx.DrawElements(mode, int32(m.elements.Count()))
		return
	}
	m.ctx.DrawArrays(mode, 0, int32(m.vertices))
}

// DrawInstanced issues one instanced draw call
func (m *Mesh) DrawInstanced(mode Primitive, instances int) {
	if m.elements != nil {
		m.ctx.DrawElementsInstanced(mode, int32(m.elements.Count()), int32(instances))
		return
	}
	m.ctx.DrawArraysInstanced(mode, 0, int32(m.vertices), int32(instances))
}

// Dispose releases all GPU resources of the mesh
func (m *Mesh) Dispose() {
	for a, b := range m.buffers {
		b.Dispose()
		delete(m.buffers, a)
	}
	if m.elements != nil {
		m.elements.Dispose()
		m.elements = nil
	}
	if m.vao != 0 {
		m.ctx.DeleteVertexArray(m.vao)
		m.vao = 0
	}
}
