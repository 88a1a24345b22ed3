package control

import (
	"testing"

	"dust/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCamera(t *testing.T) *graphics.Camera {
	t.Helper()
	cam, err := graphics.NewPerspectiveCamera(graphics.NewViewport(900, 700),
		mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 60, 0.1, 100)
	require.NoError(t, err)
	return cam
}

func distance(cam *graphics.Camera) float32 {
	return cam.Position().Sub(cam.Target()).Len()
}

func TestHandleNoInput(t *testing.T) {
	cam := newCamera(t)
	c := NewOrbitControl(1, 20)

	assert.False(t, c.Handle(cam, Input{}, 0.016))
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, cam.Position())
}

func TestHandleYawKeepsDistance(t *testing.T) {
	cam := newCamera(t)
	c := NewOrbitControl(1, 20)

	// a quarter turn
	assert.True(t, c.Handle(cam, Input{Yaw: 1}, 1))

	assert.InDelta(t, 5, distance(cam), 1e-4)
	assert.InDelta(t, 0, cam.Position().Y(), 1e-4)
	assert.InDelta(t, 5, absf(cam.Position().X()), 1e-3)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, cam.Target())
}

func TestHandlePitchStopsAtPole(t *testing.T) {
	cam := newCamera(t)
	c := NewOrbitControl(1, 20)

	for range 10 {
		c.Handle(cam, Input{Pitch: 1}, 1)
	}

	assert.InDelta(t, 5, distance(cam), 1e-4)
	assert.Less(t, cam.Position().Y(), float32(5))
	assert.Greater(t, cam.Position().Y(), float32(4.9))
}

func TestHandleZoomClamps(t *testing.T) {
	cam := newCamera(t)
	c := NewOrbitControl(2, 8)

	c.Handle(cam, Input{Zoom: 1}, 0.1)
	assert.Less(t, distance(cam), float32(5))

	for range 50 {
		c.Handle(cam, Input{Zoom: 1}, 0.1)
	}
	assert.InDelta(t, 2, distance(cam), 1e-4)

	for range 100 {
		c.Handle(cam, Input{Zoom: -1}, 0.1)
	}
	assert.InDelta(t, 8, distance(cam), 1e-4)
}

func TestHandleDrag(t *testing.T) {
	cam := newCamera(t)
	c := NewOrbitControl(1, 20)

	// dragging right turns the scene right, moving the camera to -X
	assert.True(t, c.Handle(cam, Input{DragX: 100}, 0.016))
	assert.Less(t, cam.Position().X(), float32(0))

	cam = newCamera(t)
	assert.True(t, c.Handle(cam, Input{DragY: 100}, 0.016))
	assert.Greater(t, cam.Position().Y(), float32(0))
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
