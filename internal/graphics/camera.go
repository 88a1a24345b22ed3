package graphics

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionType selects perspective or orthographic projection
type ProjectionType int

const (
	Perspective ProjectionType = iota
	Orthographic
)

// Camera handles the view and projection matrices and the viewport they
// are applied to. Renderers only read it; it changes through its setters.
type Camera struct {
	viewport Viewport

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	projectionType ProjectionType
	FOV            float32 // vertical, degrees (perspective)
	Height         float32 // world units (orthographic)
	NearPlane      float32
	FarPlane       float32

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// NewPerspectiveCamera creates a camera at position looking at target.
func NewPerspectiveCamera(viewport Viewport, position, target, up mgl32.Vec3, fov, near, far float32) (*Camera, error) {
	c := &Camera{viewport: viewport}
	if err := c.SetView(position, target, up); err != nil {
		return nil, err
	}
	if err := c.SetPerspectiveProjection(fov, near, far); err != nil {
		return nil, err
	}
	return c, nil
}

// NewOrthographicCamera creates a camera whose projection covers height
// world units vertically.
func NewOrthographicCamera(viewport Viewport, position, target, up mgl32.Vec3, height, near, far float32) (*Camera, error) {
	c := &Camera{viewport: viewport}
	if err := c.SetView(position, target, up); err != nil {
		return nil, err
	}
	if err := c.SetOrthographicProjection(height, near, far); err != nil {
		return nil, err
	}
	return c, nil
}

// SetView moves the camera. It rejects configurations with no
// well-defined view direction.
func (c *Camera) SetView(position, target, up mgl32.Vec3) error {
	dir := target.Sub(position)
	if dir.Len() < 1e-6 {
		return errors.New("camera position and target coincide")
	}
	if dir.Normalize().Cross(up).Len() < 1e-6 {
		return errors.New("camera up vector is parallel to the view direction")
	}
	c.position = position
	c.target = target
	c.up = up.Normalize()
	c.view = mgl32.LookAtV(position, target, c.up)
	return nil
}

// SetPerspectiveProjection switches to a perspective projection.
func (c *Camera) SetPerspectiveProjection(fov, near, far float32) error {
	if fov <= 0 || fov >= 180 {
		return fmt.Errorf("invalid field of view %v", fov)
	}
	if near <= 0 || far <= near {
		return fmt.Errorf("invalid clip planes near=%v far=%v", near, far)
	}
	c.projectionType = Perspective
	c.FOV, c.NearPlane, c.FarPlane = fov, near, far
	c.updateProjection()
	return nil
}

// SetOrthographicProjection switches to an orthographic projection.
func (c *Camera) SetOrthographicProjection(height, near, far float32) error {
	if height <= 0 {
		return fmt.Errorf("invalid orthographic height %v", height)
	}
	if far <= near {
		return fmt.Errorf("invalid clip planes near=%v far=%v", near, far)
	}
	c.projectionType = Orthographic
	c.Height, c.NearPlane, c.FarPlane = height, near, far
	c.updateProjection()
	return nil
}

// SetViewport stores the new viewport and recomputes the projection
// aspect. A zero-sized viewport is stored but leaves the projection as is.
// Returns whether the viewport changed.
func (c *Camera) SetViewport(viewport Viewport) bool {
	if c.viewport == viewport {
		return false
	}
	c.viewport = viewport
	if !viewport.Empty() {
		c.updateProjection()
	}
	return true
}

func (c *Camera) updateProjection() {
	aspect := c.viewport.AspectRatio()
	switch c.projectionType {
	case Orthographic:
		w := c.Height * aspect
		c.projection = mgl32.Ortho(-w/2, w/2, -c.Height/2, c.Height/2, c.NearPlane, c.FarPlane)
	default:
		c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.NearPlane, c.FarPlane)
	}
}

// Translate moves position and target by d.
func (c *Camera) Translate(d mgl32.Vec3) {
	// cannot fail: the view direction is unchanged
	_ = c.SetView(c.position.Add(d), c.target.Add(d), c.up)
}

// RotateAroundTarget orbits the camera around its target by yaw radians
// about the up axis and pitch radians about the right axis. Pitch stops
// short of the up axis.
func (c *Camera) RotateAroundTarget(yaw, pitch float32) {
	offset := c.position.Sub(c.target)
	dist := offset.Len()
	rotY := mgl32.QuatRotate(yaw, c.up)
	offset = rotY.Rotate(offset)

	axis := offset.Cross(c.up).Normalize()
	cosAngle := offset.Normalize().Dot(c.up)
	angle := math32.Acos(mgl32.Clamp(cosAngle, -1, 1))
	const margin = 0.01
	// positive pitch moves the camera up, towards the up axis
	newAngle := mgl32.Clamp(angle-pitch, margin, math32.Pi-margin)
	offset = mgl32.QuatRotate(angle-newAngle, axis).Rotate(offset)

	pos := c.target.Add(offset.Normalize().Mul(dist))
	if err := c.SetView(pos, c.target, c.up); err != nil {
		Logger().Debug("camera rotation rejected", "err", err)
	}
}

// Zoom moves the camera towards (positive) or away from the target,
// keeping the distance within [minDist, maxDist].
func (c *Camera) Zoom(delta, minDist, maxDist float32) {
	offset := c.position.Sub(c.target)
	dist := mgl32.Clamp(offset.Len()-delta, minDist, maxDist)
	if dist <= 0 {
		return
	}
	if err := c.SetView(c.target.Add(offset.Normalize().Mul(dist)), c.target, c.up); err != nil {
		Logger().Debug("camera zoom rejected", "err", err)
	}
}

func (c *Camera) Viewport() Viewport { return c.viewport }
func (c *Camera) Position() mgl32.Vec3 { return c.position }
func (c *Camera) Target() mgl32.Vec3 { return c.target }
func (c *Camera) Up() mgl32.Vec3 { return c.up }
func (c *Camera) ProjectionType() ProjectionType { return c.projectionType }

// View returns the world-to-view matrix
func (c *Camera) View() mgl32.Mat4 { return c.view }

// Projection returns the view-to-clip matrix
func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

// ViewProjection returns projection * view
func (c *Camera) ViewProjection() mgl32.Mat4 { return c.projection.Mul4(c.view) }

// ViewDirection returns the normalized direction from position to target
func (c *Camera) ViewDirection() mgl32.Vec3 { return c.target.Sub(c.position).Normalize() }

// RightDirection returns the camera's right axis in world space
func (c *Camera) RightDirection() mgl32.Vec3 { return c.ViewDirection().Cross(c.up).Normalize() }

// UpDirection returns the camera's up axis orthogonal to the view direction
func (c *Camera) UpDirection() mgl32.Vec3 { return c.RightDirection().Cross(c.ViewDirection()) }

// Frustum returns the clip planes of the current view and projection
func (c *Camera) Frustum() Frustum { return NewFrustum(c.ViewProjection()) }
