package graphics

import (
	"hash/fnv"
)

type programKey struct {
	vertex, fragment uint64
}

// Device wraps a Context with the state shared by every renderer: the
// compiled program cache and the last viewport set.
type Device struct {
	ctx      Context
	programs map[programKey]*Program
	viewport Viewport
}

// NewDevice wraps ctx. ctx must stay current for the lifetime of the device.
func NewDevice(ctx Context) *Device {
	return &Device{
		ctx:      ctx,
		programs: make(map[programKey]*Program),
	}
}

// Context returns the wrapped context
func (d *Device) Context() Context { return d.ctx }

func hashSource(src string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(src))
	return h.Sum64()
}

// Program returns the program linked from the given sources, compiling it
// on first use. Compile and link failures are ResourceBindFailures and are
// not cached, so a later call retries.
func (d *Device) Program(vertexSrc, fragmentSrc string) (*Program, error) {
	key := programKey{hashSource(vertexSrc), hashSource(fragmentSrc)}
	if p, ok := d.programs[key]; ok {
		return p, nil
	}
	id, err := d.ctx.CreateProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, NewError(ResourceBindFailure, "device.Program", err)
	}
	Logger().Debug("program linked", "id", id, "programs", len(d.programs)+1)
	p := newProgram(d.ctx, id)
	d.programs[key] = p
	return p, nil
}

// SetViewport applies vp to the context
func (d *Device) SetViewport(vp Viewport) {
	d.viewport = vp
	vp.apply(d.ctx)
}

// Viewport returns the last viewport set through the device
func (d *Device) Viewport() Viewport { return d.viewport }

// ReleasePrograms deletes every cached program. Programs are rebuilt on
// next use.
func (d *Device) ReleasePrograms() {
	for k, p := range d.programs {
		d.ctx.DeleteProgram(p.id)
		delete(d.programs, k)
	}
}
