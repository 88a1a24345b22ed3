// Package glctx implements graphics.Context on OpenGL 4.1 core.
package glctx

import (
	"fmt"
	"strings"

	"dust/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Context issues graphics.Context calls to the GL context current on the
// calling thread.
type Context struct{}

var _ graphics.Context = (*Context)(nil)

// New loads the GL function pointers for the current context and sets the
// default pipeline state: depth test on (LEQUAL), back-face culling, CCW
// front faces.
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return &Context{}, nil
}

// Version returns the GL version string
func (c *Context) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func checkError(label string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error %s: 0x%x", label, code)
	}
	return nil
}

func (c *Context) CreateProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	// shaders can be deleted after linking
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}

func (c *Context) DeleteProgram(program uint32) { gl.DeleteProgram(program) }
func (c *Context) UseProgram(program uint32) { gl.UseProgram(program) }

func (c *Context) AttributeLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (c *Context) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (c *Context) Uniform1i(loc int32, v int32) { gl.Uniform1i(loc, v) }
func (c *Context) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }
func (c *Context) Uniform2f(loc int32, v mgl32.Vec2) { gl.Uniform2f(loc, v[0], v[1]) }
func (c *Context) Uniform3f(loc int32, v mgl32.Vec3) { gl.Uniform3f(loc, v[0], v[1], v[2]) }
func (c *Context) Uniform4f(loc int32, v mgl32.Vec4) { gl.Uniform4f(loc, v[0], v[1], v[2], v[3]) }

func (c *Context) UniformMatrix3(loc int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(loc, 1, false, &m[0])
}

func (c *Context) UniformMatrix4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (c *Context) CreateVertexArray() (uint32, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, checkError("GenVertexArrays")
	}
	return vao, nil
}

func (c *Context) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (c *Context) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (c *Context) CreateArrayBuffer(data []float32) (uint32, error) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	if err := checkError("CreateArrayBuffer"); err != nil {
		gl.DeleteBuffers(1, &vbo)
		return 0, err
	}
	return vbo, nil
}

func (c *Context) UpdateArrayBuffer(buffer uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
}

func (c *Context) CreateElementBuffer(indices []uint32) (uint32, error) {
	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	if err := checkError("CreateElementBuffer"); err != nil {
		gl.DeleteBuffers(1, &ebo)
		return 0, err
	}
	return ebo, nil
}

func (c *Context) BindElementBuffer(buffer uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buffer)
}

func (c *Context) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (c *Context) VertexAttrib(loc uint32, buffer uint32, ptr graphics.AttribPointer) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointerWithOffset(loc, ptr.Size, gl.FLOAT, false, ptr.Stride, uintptr(ptr.Offset))
	gl.VertexAttribDivisor(loc, ptr.Divisor)
}

func textureTarget(t graphics.TextureTarget) uint32 {
	if t == graphics.TextureCubeMap {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

func textureFormat(f graphics.TextureFormat) (internal int32, format, xtype uint32) {
	switch f {
	case graphics.FormatRGBA32F:
		return gl.RGBA32F, gl.RGBA, gl.FLOAT
	case graphics.FormatDepth24:
		return gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.FLOAT
	}
	return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
}

func (c *Context) CreateTexture(target graphics.TextureTarget, format graphics.TextureFormat, width, height int, layers [][]byte) (uint32, error) {
	glTarget := textureTarget(target)
	internal, pixFormat, xtype := textureFormat(format)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(glTarget, tex)

	filter := int32(gl.LINEAR)
	if format != graphics.FormatRGBA8 {
		filter = gl.NEAREST
	}
	gl.TexParameteri(glTarget, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(glTarget, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(glTarget, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(glTarget, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	upload := func(face uint32, pix []byte) {
		ptr := gl.Ptr(nil)
		if len(pix) > 0 {
			ptr = gl.Ptr(pix)
		}
		gl.TexImage2D(face, 0, internal, int32(width), int32(height), 0, pixFormat, xtype, ptr)
	}
	if target == graphics.TextureCubeMap {
		gl.TexParameteri(glTarget, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
		for i := uint32(0); i < 6; i++ {
			var pix []byte
			if int(i) < len(layers) {
				pix = layers[i]
			}
			upload(gl.TEXTURE_CUBE_MAP_POSITIVE_X+i, pix)
		}
	} else {
		var pix []byte
		if len(layers) > 0 {
			pix = layers[0]
		}
		upload(gl.TEXTURE_2D, pix)
	}
	gl.BindTexture(glTarget, 0)

	if err := checkError("CreateTexture"); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}
	return tex, nil
}

func (c *Context) BindTexture(unit uint32, target graphics.TextureTarget, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(textureTarget(target), texture)
}

func (c *Context) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (c *Context) CreateFramebuffer(colors []uint32, depth uint32) (uint32, error) {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb)

	drawBuffers := make([]uint32, len(colors))
	for i, tex := range colors {
		attachment := gl.COLOR_ATTACHMENT0 + uint32(i)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, tex, 0)
		drawBuffers[i] = attachment
	}
	if depth != 0 {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, depth, 0)
	}
	if len(drawBuffers) > 0 {
		gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fb)
		return 0, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return fb, nil
}

func (c *Context) BindFramebuffer(framebuffer uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, framebuffer)
}

func (c *Context) DeleteFramebuffer(framebuffer uint32) {
	gl.DeleteFramebuffers(1, &framebuffer)
}

func (c *Context) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (c *Context) SetClearColor(col mgl32.Vec4) { gl.ClearColor(col[0], col[1], col[2], col[3]) }

func (c *Context) Clear(mask graphics.ClearMask) {
	var bits uint32
	if mask&graphics.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&graphics.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func enable(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (c *Context) SetDepthTest(enabled bool) { enable(gl.DEPTH_TEST, enabled) }
func (c *Context) SetDepthWrite(enabled bool) { gl.DepthMask(enabled) }
func (c *Context) SetBlend(enabled bool) { enable(gl.BLEND, enabled) }

func (c *Context) SetCullFace(mode graphics.CullMode) {
	switch mode {
	case graphics.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case graphics.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Disable(gl.CULL_FACE)
	}
}

func primitive(p graphics.Primitive) uint32 {
	switch p {
	case graphics.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case graphics.TriangleFan:
		return gl.TRIANGLE_FAN
	case graphics.Lines:
		return gl.LINES
	case graphics.LineStrip:
		return gl.LINE_STRIP
	case graphics.Points:
		return gl.POINTS
	}
	return gl.TRIANGLES
}

func (c *Context) DrawArrays(mode graphics.Primitive, first, count int32) {
	gl.DrawArrays(primitive(mode), first, count)
}

func (c *Context) DrawElements(mode graphics.Primitive, count int32) {
	gl.DrawElements(primitive(mode), count, gl.UNSIGNED_INT, nil)
}

func (c *Context) DrawArraysInstanced(mode graphics.Primitive, first, count, instances int32) {
	gl.DrawArraysInstanced(primitive(mode), first, count, instances)
}

func (c *Context) DrawElementsInstanced(mode graphics.Primitive, count, instances int32) {
	gl.DrawElementsInstanced(primitive(mode), count, gl.UNSIGNED_INT, nil, instances)
}
