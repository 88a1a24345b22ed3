package graphics

import "github.com/go-gl/mathgl/mgl32"

// VertexBuffer is an array buffer holding components floats per element
type VertexBuffer struct {
	ctx        Context
	id         uint32
	components int32
	count      int
}

// NewVertexBuffer uploads data. len(data) must be a multiple of components.
func NewVertexBuffer(d *Device, data []float32, components int32) (*VertexBuffer, error) {
	if components <= 0 || len(data)%int(components) != 0 {
		return nil, Errorf(ResourceBindFailure, "graphics.NewVertexBuffer", "%d floats is not a multiple of %d components", len(data), components)
	}
	id, err := d.ctx.CreateArrayBuffer(data)
	if err != nil {
		return nil, NewError(ResourceBindFailure, "graphics.NewVertexBuffer", err)
	}
	return &VertexBuffer{ctx: d.ctx, id: id, components: components, count: len(data) / int(components)}, nil
}

// Update replaces the buffer contents
func (b *VertexBuffer) Update(data []float32) {
	b.ctx.UpdateArrayBuffer(b.id, data)
	b.count = len(data) / int(b.components)
}

// Count returns the number of elements
func (b *VertexBuffer) Count() int { return b.count }

// Dispose deletes the buffer
func (b *VertexBuffer) Dispose() {
	if b.id != 0 {
		b.ctx.DeleteBuffer(b.id)
		b.id = 0
	}
}

// ElementBuffer is an index buffer of uint32 indices
type ElementBuffer struct {
	ctx   Context
	id    uint32
	count int
}

// NewElementBuffer uploads indices
func NewElementBuffer(d *Device, indices []uint32) (*ElementBuffer, error) {
	id, err := d.ctx.CreateElementBuffer(indices)
	if err != nil {
		return nil, NewError(ResourceBindFailure, "graphics.NewElementBuffer", err)
	}
	return &ElementBuffer{ctx: d.ctx, id: id, count: len(indices)}, nil
}

// Count returns the number of indices
func (b *ElementBuffer) Count() int { return b.count }

// Dispose deletes the buffer
func (b *ElementBuffer) Dispose() {
	if b.id != 0 {
		b.ctx.DeleteBuffer(b.id)
		b.id = 0
	}
}

// Flatten3 packs vectors into a float slice
func Flatten3(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// Flatten2 packs vectors into a float slice
func Flatten2(vs []mgl32.Vec2) []float32 {
	out := make([]float32, 0, len(vs)*2)
	for _, v := range vs {
		out = append(out, v[0], v[1])
	}
	return out
}

// Flatten4 packs vectors into a float slice
func Flatten4(vs []mgl32.Vec4) []float32 {
	out := make([]float32, 0, len(vs)*4)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2], v[3])
	}
	return out
}

// FlattenMat4 packs column-major matrices into a float slice
func FlattenMat4(ms []mgl32.Mat4) []float32 {
	out := make([]float32, 0, len(ms)*16)
	for _, m := range ms {
		out = append(out, m[:]...)
	}
	return out
}
