package renderer

import (
	"fmt"

	"dust/internal/graphics"
	"dust/internal/light"
	"dust/internal/material"
)

// Shadable is anything that can be drawn with a caller-supplied material,
// either straight to the screen or into a G-buffer.
type Shadable interface {
	RenderForward(m material.ForwardMaterial, cam *graphics.Camera, lights *light.Lights) error
	RenderDeferred(m material.DeferredMaterial, cam *graphics.Camera, vp graphics.Viewport) error
}

// Shadable2D is drawn in window pixels without a camera
type Shadable2D interface {
	RenderForward2D(m material.ForwardMaterial, vp graphics.Viewport) error
}

// Geometry is a Shadable with a world-space bounding box
type Geometry interface {
	Shadable
	AABB() graphics.AxisAlignedBoundingBox
}

// Object is a Geometry that knows its own material
type Object interface {
	Geometry
	Render(cam *graphics.Camera, lights *light.Lights) error
	IsTransparent() bool
}

// SurfaceObject exposes the surface of its material, which the deferred
// pipeline needs to build a geometry-pass material.
type SurfaceObject interface {
	Object
	Surface() material.Surface
}

// ObjectError is the failure of one object in a multi-object render call.
// The other objects were still rendered.
type ObjectError struct {
	Index  int
	Object Object
	Err    error
}

func (e ObjectError) Error() string {
	return fmt.Sprintf("object %d: %v", e.Index, e.Err)
}

func (e ObjectError) Unwrap() error { return e.Err }
