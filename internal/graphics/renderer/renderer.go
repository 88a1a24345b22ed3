package renderer

import (
	"fmt"

	"dust/internal/graphics"
	"dust/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Pipeline selects how opaque objects are shaded
type Pipeline int

const (
	PipelineForward Pipeline = iota
	PipelineDeferred
)

func (p Pipeline) String() string {
	if p == PipelineDeferred {
		return "deferred"
	}
	return "forward"
}

// ParsePipeline parses "forward" or "deferred"
func ParsePipeline(s string) (Pipeline, error) {
	switch s {
	case "forward", "":
		return PipelineForward, nil
	case "deferred":
		return PipelineDeferred, nil
	}
	return PipelineForward, fmt.Errorf("unknown pipeline %q", s)
}

// Renderer draws whole frames: it clears the screen, culls and sorts the
// scene objects and renders them with the selected pipeline. Transparent
// objects are always rendered forward, back to front, after the opaque ones.
type Renderer struct {
	device   *graphics.Device
	camera   *graphics.Camera
	deferred *DeferredPipeline

	clearColor mgl32.Vec4
	pipeline   Pipeline
	culling    bool
}

// NewRenderer creates a renderer drawing through d from cam
func NewRenderer(d *graphics.Device, cam *graphics.Camera) (*Renderer, error) {
	dp, err := NewDeferredPipeline(d)
	if err != nil {
		return nil, fmt.Errorf("failed to create deferred pipeline: %w", err)
	}
	return &Renderer{
		device:     d,
		camera:     cam,
		deferred:   dp,
		clearColor: mgl32.Vec4{0, 0, 0, 1},
		culling:    true,
	}, nil
}

// Camera returns the camera instance
func (r *Renderer) Camera() *graphics.Camera { return r.camera }

// Device returns the device the renderer draws through
func (r *Renderer) Device() *graphics.Device { return r.device }

// Deferred returns the deferred pipeline
func (r *Renderer) Deferred() *DeferredPipeline { return r.deferred }

func (r *Renderer) SetPipeline(p Pipeline)         { r.pipeline = p }
func (r *Renderer) Pipeline() Pipeline             { return r.pipeline }
func (r *Renderer) SetClearColor(c mgl32.Vec4)     { r.clearColor = c }
func (r *Renderer) SetFrustumCulling(enabled bool) { r.culling = enabled }
func (r *Renderer) FrustumCulling() bool           { return r.culling }

// UpdateViewport resizes the camera viewport. The camera keeps its view;
// the projection follows the new aspect ratio.
func (r *Renderer) UpdateViewport(width, height int) {
	r.camera.SetViewport(graphics.NewViewport(width, height))
}

// Render draws one frame of scene. Object failures are returned with the
// index of the object in scene.Objects(); the error is set only when the
// frame itself could not be completed.
func (r *Renderer) Render(scene *Scene) ([]ObjectError, error) {
	defer profiling.Track("renderer.Render")()
	ctx := r.device.Context()
	cam := r.camera
	if cam.Viewport().Empty() {
		// minimised window
		return nil, nil
	}

	ctx.BindFramebuffer(0)
	r.device.SetViewport(cam.Viewport())
	ctx.SetDepthWrite(true)
	ctx.SetClearColor(r.clearColor)
	ctx.Clear(graphics.ClearColor | graphics.ClearDepth)

	objects := scene.Objects()
	visible := allIndices(len(objects))
	if r.culling {
		visible = cullIndices(cam, objects, visible)
	}
	opaque, transparent := sortIndices(cam, objects, visible)

	var failed []ObjectError
	ctx.SetDepthTest(true)
	ctx.SetBlend(false)
	switch r.pipeline {
	case PipelineDeferred:
		var geometry, forwardOnly []int
		for _, i := range opaque {
			if so, ok := objects[i].(SurfaceObject); ok && !so.Surface().ForwardOnly {
				geometry = append(geometry, i)
			} else {
				forwardOnly = append(forwardOnly, i)
			}
		}
		f, err := r.deferred.Render(cam, scene.Lights, pick(objects, geometry)...)
		failed = append(failed, remap(f, geometry)...)
		if err != nil {
			return failed, err
		}
		failed = append(failed, remap(RenderForward(cam, scene.Lights, pick(objects, forwardOnly)...), forwardOnly)...)
	default:
		failed = append(failed, remap(RenderForward(cam, scene.Lights, pick(objects, opaque)...), opaque)...)
	}

	if len(transparent) > 0 {
		ctx.SetDepthWrite(false)
		ctx.SetBlend(true)
		failed = append(failed, remap(RenderForward(cam, scene.Lights, pick(objects, transparent)...), transparent)...)
		ctx.SetDepthWrite(true)
		ctx.SetBlend(false)
	}

	if err := r.renderOverlays(scene); err != nil {
		return failed, err
	}
	return failed, nil
}

// renderOverlays draws the 2D shapes without depth testing
func (r *Renderer) renderOverlays(scene *Scene) error {
	overlays := scene.Overlays()
	if len(overlays) == 0 {
		return nil
	}
	defer profiling.Track("renderer.renderOverlays")()
	ctx := r.device.Context()
	ctx.SetDepthTest(false)
	ctx.SetBlend(true)
	defer func() {
		ctx.SetDepthTest(true)
		ctx.SetBlend(false)
	}()
	vp := r.camera.Viewport()
	for i, o := range overlays {
		if err := o.Shape.RenderForward2D(o.Material, vp); err != nil {
			return fmt.Errorf("overlay %d: %w", i, err)
		}
	}
	return nil
}

// Dispose releases the renderer's GPU resources
func (r *Renderer) Dispose() {
	r.deferred.Dispose()
	r.device.ReleasePrograms()
}
