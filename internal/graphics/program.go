package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked shader program with cached uniform and attribute
// locations
type Program struct {
	ctx        Context
	id         uint32
	uniforms   map[string]int32
	attributes map[string]int32
}

func newProgram(ctx Context, id uint32) *Program {
	return &Program{
		ctx:        ctx,
		id:         id,
		uniforms:   make(map[string]int32),
		attributes: make(map[string]int32),
	}
}

// ID returns the program handle
func (p *Program) ID() uint32 { return p.id }

// Use activates the program
func (p *Program) Use() {
	p.ctx.UseProgram(p.id)
}

func (p *Program) uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.ctx.UniformLocation(p.id, name)
	p.uniforms[name] = loc
	return loc
}

// HasUniform reports whether the linked program uses the named uniform
func (p *Program) HasUniform(name string) bool {
	return p.uniform(name) >= 0
}

// Uniform setters skip names the linker removed, as GL does.

// SetBool sets a boolean uniform
func (p *Program) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	p.SetInt(name, v)
}

// SetInt sets an integer uniform
func (p *Program) SetInt(name string, value int32) {
	if loc := p.uniform(name); loc >= 0 {
		p.ctx.Uniform1i(loc, value)
	}
}

// SetFloat sets a float uniform
func (p *Program) SetFloat(name string, value float32) {
	if loc := p.uniform(name); loc >= 0 {
		p.ctx.Uniform1f(loc, value)
	}
}

// SetVec2 sets a vec2 uniform
func (p *Program) SetVec2(name string, value mgl32.Vec2) {
	if loc := p.uniform(name); loc >= 0 {
		p.ctx.Uniform2f(loc, value)
	}
}

// SetVec3 sets a vec3 uniform
func (p *Program) SetVec3(name string, value mgl32.Vec3) {
	if loc := p.uniform(name); loc >= 0 {
		p.ctx.Uniform3f(loc, value)
	}
}

// SetVec4 sets a vec4 uniform
func (p *Program) SetVec4(name string, value mgl32.Vec4) {
	if loc := p.uniform(name); loc >= 0 {
		p.ctx.Uniform4f(loc, value)
	}
}

// SetMat3 sets a 3x3 matrix uniform
func (p *Program) SetMat3(name string, value mgl32.Mat3) {
	if loc := p.uniform(name); loc >= 0 {
		p.ctx.UniformMatrix3(loc, value)
	}
}

// SetMat4 sets a 4x4 matrix uniform
func (p *Program) SetMat4(name string, value mgl32.Mat4) {
	if loc := p.uniform(name); loc >= 0 {
		p.ctx.UniformMatrix4(loc, value)
	}
}

// SetTexture binds tex to the given unit and points the sampler uniform at it.
func (p *Program) SetTexture(name string, unit uint32, tex *Texture) error {
	if tex == nil || tex.id == 0 {
		return Errorf(ResourceBindFailure, "program.SetTexture", "texture %q is not allocated", name)
	}
	p.ctx.BindTexture(unit, tex.target, tex.id)
	p.SetInt(name, int32(unit))
	return nil
}

// AttributeLocation returns the location of a vertex input, or -1.
func (p *Program) AttributeLocation(name string) int32 {
	if loc, ok := p.attributes[name]; ok {
		return loc
	}
	loc := p.ctx.AttributeLocation(p.id, name)
	p.attributes[name] = loc
	return loc
}

// BindAttribute feeds buf into the named vertex input. A vertex input the
// program does not have is a bind failure.
func (p *Program) BindAttribute(name string, buf *VertexBuffer) error {
	loc := p.AttributeLocation(name)
	if loc < 0 {
		return Errorf(ResourceBindFailure, "program.BindAttribute", "program %d has no vertex input %q", p.id, name)
	}
	p.ctx.VertexAttrib(uint32(loc), buf.id, AttribPointer{Size: buf.components})
	return nil
}

// BindInstanceMatrix feeds a buffer of column-major 4x4 matrices into the
// named mat4 vertex input, one matrix per instance.
func (p *Program) BindInstanceMatrix(name string, buf *VertexBuffer) error {
	loc := p.AttributeLocation(name)
	if loc < 0 {
		return Errorf(ResourceBindFailure, "program.BindInstanceMatrix", "program %d has no vertex input %q", p.id, name)
	}
	for col := int32(0); col < 4; col++ {
		p.ctx.VertexAttrib(uint32(loc+col), buf.id, AttribPointer{Size: 4, Stride: 64, Offset: col * 16, Divisor: 1})
	}
	return nil
}

// BindInstanceAttribute feeds buf into the named vertex input, advancing
// once per instance.
func (p *Program) BindInstanceAttribute(name string, buf *VertexBuffer) error {
	loc := p.AttributeLocation(name)
	if loc < 0 {
		return Errorf(ResourceBindFailure, "program.BindInstanceAttribute", "program %d has no vertex input %q", p.id, name)
	}
	p.ctx.VertexAttrib(uint32(loc), buf.id, AttribPointer{Size: buf.components, Divisor: 1})
	return nil
}
