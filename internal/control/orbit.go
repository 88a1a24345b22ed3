// Package control turns user input into camera movement
package control

import (
	"dust/internal/graphics"

	"github.com/chewxy/math32"
)

// Input is the camera movement requested for one frame. Yaw and Pitch are
// in rotation steps (-1..1 from keys, or pixels scaled by DragSpeed from a
// mouse drag); Zoom is positive towards the target.
type Input struct {
	Yaw   float32
	Pitch float32
	Zoom  float32
	// DragX and DragY are cursor movement in pixels while dragging
	DragX float32
	DragY float32
}

// OrbitControl rotates the camera around its target and zooms along the
// view direction, keeping the distance within [MinDistance, MaxDistance].
type OrbitControl struct {
	MinDistance float32
	MaxDistance float32
	// Speed is the rotation speed in radians per second
	Speed float32
	// ZoomSpeed is the zoom speed as a fraction of the distance per second
	ZoomSpeed float32
	// DragSpeed is the rotation in radians per dragged pixel
	DragSpeed float32
}

// NewOrbitControl returns a control with the given distance limits
func NewOrbitControl(minDistance, maxDistance float32) *OrbitControl {
	return &OrbitControl{
		MinDistance: minDistance,
		MaxDistance: maxDistance,
		Speed:       math32.Pi / 2,
		ZoomSpeed:   1.5,
		DragSpeed:   0.005,
	}
}

// Handle applies in to cam for a frame of dt seconds. It reports whether
// the camera moved.
func (c *OrbitControl) Handle(cam *graphics.Camera, in Input, dt float32) bool {
	yaw := in.Yaw*c.Speed*dt - in.DragX*c.DragSpeed
	pitch := in.Pitch*c.Speed*dt + in.DragY*c.DragSpeed
	moved := false
	if yaw != 0 || pitch != 0 {
		cam.RotateAroundTarget(yaw, pitch)
		moved = true
	}
	if in.Zoom != 0 {
		distance := cam.Position().Sub(cam.Target()).Len()
		cam.Zoom(in.Zoom*c.ZoomSpeed*distance*dt, c.MinDistance, c.MaxDistance)
		moved = true
	}
	return moved
}
