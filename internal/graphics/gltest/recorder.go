// Package gltest provides an in-memory graphics.Context for tests.
package gltest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"dust/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one recorded draw submission together with the bind state it
// was issued under.
type Draw struct {
	Mode        graphics.Primitive
	First       int32
	Count       int32
	Instances   int32
	Indexed     bool
	Program     uint32
	VertexArray uint32
	Framebuffer uint32
	Viewport    [4]int32
	DepthTest   bool
	DepthWrite  bool
	Blend       bool
	// Attributes maps enabled vertex input locations to their buffers
	Attributes map[uint32]uint32
}

// Uniform is one recorded uniform upload
type Uniform struct {
	Program uint32
	Name    string
	Value   any
}

// ProgramSource holds the sources a program was linked from
type ProgramSource struct {
	Vertex   string
	Fragment string
}

type location struct {
	program uint32
	name    string
}

// Recorder implements graphics.Context by recording every call. Failures
// can be injected through the exported hooks.
type Recorder struct {
	Calls    []string
	Draws    []Draw
	Uniforms []Uniform
	Programs map[uint32]ProgramSource

	// FailCreateProgram, when set, decides whether linking fails
	FailCreateProgram func(vertex, fragment string) error
	// FailFramebuffer makes CreateFramebuffer fail
	FailFramebuffer error
	// MissingAttributes lists vertex inputs AttributeLocation reports as absent
	MissingAttributes map[string]bool

	next         uint32
	nextLocation int32
	uniformLocs  map[location]int32
	locNames     map[int32]location
	attribLocs   map[location]int32
	vaoAttribs   map[uint32]map[uint32]uint32
	textures     map[uint32]graphics.TextureTarget
	live         map[uint32]string

	program     uint32
	vao         uint32
	framebuffer uint32
	viewport    [4]int32
	depthTest   bool
	depthWrite  bool
	blend       bool
	cull        graphics.CullMode
	clearColor  mgl32.Vec4
}

var _ graphics.Context = (*Recorder)(nil)

// New returns an empty recorder
func New() *Recorder {
	return &Recorder{
		Programs:          make(map[uint32]ProgramSource),
		MissingAttributes: make(map[string]bool),
		uniformLocs:       make(map[location]int32),
		locNames:          make(map[int32]location),
		attribLocs:        make(map[location]int32),
		vaoAttribs:        make(map[uint32]map[uint32]uint32),
		textures:          make(map[uint32]graphics.TextureTarget),
		live:              make(map[uint32]string),
		depthWrite:        true,
	}
}

// Reset clears the call, draw and uniform logs but keeps all resources
// and bind state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
	r.Uniforms = nil
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) handle(kind string) uint32 {
	r.next++
	r.live[r.next] = kind
	return r.next
}

func (r *Recorder) release(id uint32) {
	delete(r.live, id)
}

// Live returns the number of allocated resources of the given kind
// ("program", "vao", "buffer", "texture", "framebuffer").
func (r *Recorder) Live(kind string) int {
	n := 0
	for _, k := range r.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Program returns the currently bound program
func (r *Recorder) Program() uint32 { return r.program }

// VertexArray returns the currently bound vertex array
func (r *Recorder) VertexArray() uint32 { return r.vao }

// Framebuffer returns the currently bound framebuffer
func (r *Recorder) Framebuffer() uint32 { return r.framebuffer }

// CurrentViewport returns the last viewport set
func (r *Recorder) CurrentViewport() [4]int32 { return r.viewport }

// DepthWrite reports whether depth writes are enabled
func (r *Recorder) DepthWrite() bool { return r.depthWrite }

// Blend reports whether blending is enabled
func (r *Recorder) Blend() bool { return r.blend }

// UniformValue returns the last value uploaded to the named uniform of program.
func (r *Recorder) UniformValue(program uint32, name string) (any, bool) {
	for i := len(r.Uniforms) - 1; i >= 0; i-- {
		u := r.Uniforms[i]
		if u.Program == program && u.Name == name {
			return u.Value, true
		}
	}
	return nil, false
}

// UniformsOf returns the last value of every uniform uploaded to program
func (r *Recorder) UniformsOf(program uint32) map[string]any {
	out := make(map[string]any)
	for _, u := range r.Uniforms {
		if u.Program == program {
			out[u.Name] = u.Value
		}
	}
	return out
}

// DrawsTo returns the draws issued while framebuffer was bound
func (r *Recorder) DrawsTo(framebuffer uint32) []Draw {
	var out []Draw
	for _, d := range r.Draws {
		if d.Framebuffer == framebuffer {
			out = append(out, d)
		}
	}
	return out
}

func (r *Recorder) CreateProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if r.FailCreateProgram != nil {
		if err := r.FailCreateProgram(vertexSrc, fragmentSrc); err != nil {
			r.record("CreateProgram() failed")
			return 0, err
		}
	}
	id := r.handle("program")
	r.Programs[id] = ProgramSource{Vertex: vertexSrc, Fragment: fragmentSrc}
	r.record("CreateProgram() = %d", id)
	return id, nil
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram(%d)", program)
	delete(r.Programs, program)
	r.release(program)
}

func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram(%d)", program)
	r.program = program
}

// baseName strips array indices and struct fields: "lights[0].color" -> "lights"
func baseName(name string) string {
	if i := strings.IndexAny(name, "[."); i >= 0 {
		return name[:i]
	}
	return name
}

// activeLines returns the lines of src the preprocessor keeps, following
// #define, #ifdef, #ifndef, #else and #endif. Directives are dropped.
func activeLines(src string) []string {
	defined := make(map[string]bool)
	// one entry per open conditional: whether its current branch is kept
	var stack []bool
	active := func() bool {
		for _, on := range stack {
			if !on {
				return false
			}
		}
		return true
	}
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], "#") {
			if active() {
				lines = append(lines, line)
			}
			continue
		}
		switch fields[0] {
		case "#define":
			if active() && len(fields) > 1 {
				defined[fields[1]] = true
			}
		case "#ifdef":
			stack = append(stack, len(fields) > 1 && defined[fields[1]])
		case "#ifndef":
			stack = append(stack, len(fields) > 1 && !defined[fields[1]])
		case "#else":
			if n := len(stack); n > 0 {
				stack[n-1] = !stack[n-1]
			}
		case "#endif":
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
		}
	}
	return lines
}

// activeInput reports whether the vertex shader declares the input name and
// reads it. Like a GLSL linker, an input that is never read has no location.
func activeInput(src, name string) bool {
	word := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	decl := regexp.MustCompile(`^\s*in\s+\w+\s+` + regexp.QuoteMeta(name) + `\s*;`)
	declared, read := false, false
	for _, line := range activeLines(src) {
		switch {
		case decl.MatchString(line):
			declared = true
		case word.MatchString(line):
			read = true
		}
	}
	return declared && read
}

func (r *Recorder) AttributeLocation(program uint32, name string) int32 {
	src, ok := r.Programs[program]
	if !ok || r.MissingAttributes[name] || !activeInput(src.Vertex, name) {
		return -1
	}
	key := location{program, name}
	if loc, ok := r.attribLocs[key]; ok {
		return loc
	}
	// four slots so mat4 inputs fit
	loc := int32(len(r.attribLocs) * 4)
	r.attribLocs[key] = loc
	return loc
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	src, ok := r.Programs[program]
	if !ok {
		return -1
	}
	base := baseName(name)
	if !strings.Contains(src.Vertex, base) && !strings.Contains(src.Fragment, base) {
		return -1
	}
	key := location{program, name}
	if loc, ok := r.uniformLocs[key]; ok {
		return loc
	}
	loc := r.nextLocation
	r.nextLocation++
	r.uniformLocs[key] = loc
	r.locNames[loc] = key
	return loc
}

func (r *Recorder) setUniform(loc int32, v any) {
	key, ok := r.locNames[loc]
	if !ok {
		return
	}
	r.record("Uniform(%s=%v)", key.name, v)
	r.Uniforms = append(r.Uniforms, Uniform{Program: key.program, Name: key.name, Value: v})
}

func (r *Recorder) Uniform1i(loc int32, v int32) { r.setUniform(loc, v) }
func (r *Recorder) Uniform1f(loc int32, v float32) { r.setUniform(loc, v) }
func (r *Recorder) Uniform2f(loc int32, v mgl32.Vec2) { r.setUniform(loc, v) }
func (r *Recorder) Uniform3f(loc int32, v mgl32.Vec3) { r.setUniform(loc, v) }
func (r *Recorder) Uniform4f(loc int32, v mgl32.Vec4) { r.setUniform(loc, v) }
func (r *Recorder) UniformMatrix3(loc int32, m mgl32.Mat3) { r.setUniform(loc, m) }
func (r *Recorder) UniformMatrix4(loc int32, m mgl32.Mat4) { r.setUniform(loc, m) }

func (r *Recorder) CreateVertexArray() (uint32, error) {
	id := r.handle("vao")
	r.vaoAttribs[id] = make(map[uint32]uint32)
	r.record("CreateVertexArray() = %d", id)
	return id, nil
}

func (r *Recorder) BindVertexArray(vao uint32) {
	r.record("BindVertexArray(%d)", vao)
	r.vao = vao
}

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.record("DeleteVertexArray(%d)", vao)
	delete(r.vaoAttribs, vao)
	r.release(vao)
}

func (r *Recorder) CreateArrayBuffer(data []float32) (uint32, error) {
	id := r.handle("buffer")
	r.record("CreateArrayBuffer(%d floats) = %d", len(data), id)
	return id, nil
}

func (r *Recorder) UpdateArrayBuffer(buffer uint32, data []float32) {
	r.record("UpdateArrayBuffer(%d, %d floats)", buffer, len(data))
}

func (r *Recorder) CreateElementBuffer(indices []uint32) (uint32, error) {
	id := r.handle("buffer")
	r.record("CreateElementBuffer(%d indices) = %d", len(indices), id)
	return id, nil
}

func (r *Recorder) BindElementBuffer(buffer uint32) {
	r.record("BindElementBuffer(%d)", buffer)
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.record("DeleteBuffer(%d)", buffer)
	r.release(buffer)
}

func (r *Recorder) VertexAttrib(loc uint32, buffer uint32, ptr graphics.AttribPointer) {
	r.record("VertexAttrib(%d, %d, size=%d divisor=%d)", loc, buffer, ptr.Size, ptr.Divisor)
	if attribs, ok := r.vaoAttribs[r.vao]; ok {
		attribs[loc] = buffer
	}
}

func (r *Recorder) CreateTexture(target graphics.TextureTarget, format graphics.TextureFormat, width, height int, layers [][]byte) (uint32, error) {
	want := 1
	if target == graphics.TextureCubeMap {
		want = 6
	}
	if layers != nil && len(layers) != want {
		return 0, fmt.Errorf("texture target %d needs %d layers, got %d", target, want, len(layers))
	}
	id := r.handle("texture")
	r.textures[id] = target
	r.record("CreateTexture(%dx%d) = %d", width, height, id)
	return id, nil
}

func (r *Recorder) BindTexture(unit uint32, target graphics.TextureTarget, texture uint32) {
	r.record("BindTexture(%d, %d)", unit, texture)
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.record("DeleteTexture(%d)", texture)
	delete(r.textures, texture)
	r.release(texture)
}

func (r *Recorder) CreateFramebuffer(colors []uint32, depth uint32) (uint32, error) {
	if r.FailFramebuffer != nil {
		return 0, r.FailFramebuffer
	}
	attachments := append(append([]uint32(nil), colors...), depth)
	for _, c := range attachments {
		if _, ok := r.textures[c]; !ok {
			return 0, errors.New("framebuffer attachment is not a texture")
		}
	}
	id := r.handle("framebuffer")
	r.record("CreateFramebuffer(%d colors) = %d", len(colors), id)
	return id, nil
}

func (r *Recorder) BindFramebuffer(framebuffer uint32) {
	r.record("BindFramebuffer(%d)", framebuffer)
	r.framebuffer = framebuffer
}

func (r *Recorder) DeleteFramebuffer(framebuffer uint32) {
	r.record("DeleteFramebuffer(%d)", framebuffer)
	r.release(framebuffer)
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
	r.viewport = [4]int32{x, y, width, height}
}

func (r *Recorder) SetClearColor(c mgl32.Vec4) {
	r.record("SetClearColor(%v)", c)
	r.clearColor = c
}

func (r *Recorder) Clear(mask graphics.ClearMask) {
	r.record("Clear(%d) fb=%d", mask, r.framebuffer)
}

func (r *Recorder) SetDepthTest(enabled bool) {
	r.record("SetDepthTest(%v)", enabled)
	r.depthTest = enabled
}

func (r *Recorder) SetDepthWrite(enabled bool) {
	r.record("SetDepthWrite(%v)", enabled)
	r.depthWrite = enabled
}

func (r *Recorder) SetBlend(enabled bool) {
	r.record("SetBlend(%v)", enabled)
	r.blend = enabled
}

func (r *Recorder) SetCullFace(mode graphics.CullMode) {
	r.record("SetCullFace(%d)", mode)
	r.cull = mode
}

func (r *Recorder) draw(mode graphics.Primitive, first, count, instances int32, indexed bool) {
	attribs := make(map[uint32]uint32, len(r.vaoAttribs[r.vao]))
	for k, v := range r.vaoAttribs[r.vao] {
		attribs[k] = v
	}
	r.Draws = append(r.Draws, Draw{
		Mode:        mode,
		First:       first,
		Count:       count,
		Instances:   instances,
		Indexed:     indexed,
		Program:     r.program,
		VertexArray: r.vao,
		Framebuffer: r.framebuffer,
		Viewport:    r.viewport,
		DepthTest:   r.depthTest,
		DepthWrite:  r.depthWrite,
		Blend:       r.blend,
		Attributes:  attribs,
	})
	r.record("Draw(%s, %d, %d, x%d)", mode, first, count, instances)
}

func (r *Recorder) DrawArrays(mode graphics.Primitive, first, count int32) {
	r.draw(mode, first, count, 1, false)
}

func (r *Recorder) DrawElements(mode graphics.Primitive, count int32) {
	r.draw(mode, 0, count, 1, true)
}

func (r *Recorder) DrawArraysInstanced(mode graphics.Primitive, first, count, instances int32) {
	r.draw(mode, first, count, instances, false)
}

func (r *Recorder) DrawElementsInstanced(mode graphics.Primitive, count, instances int32) {
	r.draw(mode, 0, count, instances, true)
}
