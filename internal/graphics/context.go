package graphics

import "github.com/go-gl/mathgl/mgl32"

// Primitive is the topology of a draw submission
type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
	TriangleFan
	Lines
	LineStrip
	Points
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle-strip"
	case TriangleFan:
		return "triangle-fan"
	case Lines:
		return "lines"
	case LineStrip:
		return "line-strip"
	case Points:
		return "points"
	}
	return "unknown"
}

// TextureTarget selects the texture binding point
type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCubeMap
)

// TextureFormat is the pixel layout of texture data
type TextureFormat int

const (
	FormatRGBA8 TextureFormat = iota
	FormatRGBA32F
	FormatDepth24
)

// CullMode selects which faces are discarded
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

// ClearMask selects which buffers Clear touches
type ClearMask int

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// AttribPointer describes how a vertex attribute reads from a buffer.
// Stride and Offset are in bytes; zero Stride means tightly packed.
type AttribPointer struct {
	Size    int32
	Stride  int32
	Offset  int32
	Divisor uint32
}

// Context is the process-wide GPU bind state. It is only valid while a
// render context is current and must only be used from the thread that
// owns it. Every renderer in this module takes it explicitly so it can be
// replaced by a recording fake in tests.
type Context interface {
	CreateProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	AttributeLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32

	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v mgl32.Vec2)
	Uniform3f(location int32, v mgl32.Vec3)
	Uniform4f(location int32, v mgl32.Vec4)
	UniformMatrix3(location int32, m mgl32.Mat3)
	UniformMatrix4(location int32, m mgl32.Mat4)

	CreateVertexArray() (uint32, error)
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	CreateArrayBuffer(data []float32) (uint32, error)
	UpdateArrayBuffer(buffer uint32, data []float32)
	CreateElementBuffer(indices []uint32) (uint32, error)
	BindElementBuffer(buffer uint32)
	DeleteBuffer(buffer uint32)
	VertexAttrib(location uint32, buffer uint32, ptr AttribPointer)

	CreateTexture(target TextureTarget, format TextureFormat, width, height int, layers [][]byte) (uint32, error)
	BindTexture(unit uint32, target TextureTarget, texture uint32)
	DeleteTexture(texture uint32)

	// CreateFramebuffer attaches the given 2D textures as colour outputs
	// 0..n-1 and depth as the depth attachment.
	CreateFramebuffer(colors []uint32, depth uint32) (uint32, error)
	BindFramebuffer(framebuffer uint32)
	DeleteFramebuffer(framebuffer uint32)

	Viewport(x, y, width, height int32)
	SetClearColor(c mgl32.Vec4)
	Clear(mask ClearMask)
	SetDepthTest(enabled bool)
	SetDepthWrite(enabled bool)
	SetBlend(enabled bool)
	SetCullFace(mode CullMode)

	DrawArrays(mode Primitive, first, count int32)
	DrawElements(mode Primitive, count int32)
	DrawArraysInstanced(mode Primitive, first, count, instances int32)
	DrawElementsInstanced(mode Primitive, count, instances int32)
}
