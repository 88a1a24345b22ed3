package renderer

import (
	"dust/internal/graphics"
	"dust/internal/graphics/object"
	"dust/internal/light"
	"dust/internal/material"
	"dust/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// DeferredPipeline renders opaque objects in two passes. The geometry pass
// writes every object's surface into a G-buffer; the lighting pass shades
// the whole screen once from it. The lighting pass is only valid after a
// geometry pass for the same viewport.
type DeferredPipeline struct {
	device   *graphics.Device
	gbuffer  *graphics.GBuffer
	quad     *object.ScreenQuad
	lighting *material.LightingMaterial

	geometryDone bool
	passViewport graphics.Viewport
}

// NewDeferredPipeline creates the pipeline. The G-buffer is allocated by
// the first geometry pass.
func NewDeferredPipeline(d *graphics.Device) (*DeferredPipeline, error) {
	quad, err := object.NewScreenQuad(d)
	if err != nil {
		return nil, err
	}
	return &DeferredPipeline{
		device:   d,
		quad:     quad,
		lighting: &material.LightingMaterial{},
	}, nil
}

// GBuffer returns the current G-buffer, nil before the first geometry pass
func (dp *DeferredPipeline) GBuffer() *graphics.GBuffer { return dp.gbuffer }

func (dp *DeferredPipeline) ensureGBuffer(vp graphics.Viewport) error {
	if dp.gbuffer != nil && dp.gbuffer.Matches(vp) {
		return nil
	}
	if dp.gbuffer != nil {
		dp.gbuffer.Dispose()
		dp.gbuffer = nil
	}
	g, err := graphics.NewGBuffer(dp.device, vp.Width, vp.Height)
	if err != nil {
		return err
	}
	dp.gbuffer = g
	return nil
}

// GeometryPass writes objects into the G-buffer, sized to the camera
// viewport. Each object is drawn with a geometry-pass material built from
// its own surface. Object failures are collected and do not stop the pass;
// the returned error is set only when the G-buffer cannot be used.
func (dp *DeferredPipeline) GeometryPass(cam *graphics.Camera, objects ...Object) ([]ObjectError, error) {
	defer profiling.Track("renderer.GeometryPass")()
	dp.geometryDone = false

	vp := cam.Viewport()
	if vp.Empty() {
		return nil, graphics.Errorf(graphics.ResourceBindFailure, "renderer.GeometryPass", "empty viewport %dx%d", vp.Width, vp.Height)
	}
	if err := dp.ensureGBuffer(vp); err != nil {
		return nil, err
	}

	ctx := dp.device.Context()
	dp.gbuffer.Bind()
	dp.device.SetViewport(vp)
	ctx.SetDepthTest(true)
	ctx.SetDepthWrite(true)
	ctx.SetBlend(false)
	ctx.SetClearColor(mgl32.Vec4{})
	ctx.Clear(graphics.ClearColor | graphics.ClearDepth)

	var failed []ObjectError
	for i, o := range objects {
		if err := dp.renderObject(o, cam, vp); err != nil {
			graphics.Logger().Warn("geometry pass: object failed", "index", i, "error", err)
			failed = append(failed, ObjectError{Index: i, Object: o, Err: err})
		}
	}

	dp.geometryDone = true
	dp.passViewport = vp
	return failed, nil
}

func (dp *DeferredPipeline) renderObject(o Object, cam *graphics.Camera, vp graphics.Viewport) error {
	so, ok := o.(SurfaceObject)
	if !ok {
		return graphics.Errorf(graphics.PipelineStateError, "renderer.GeometryPass", "%T does not describe its surface", o)
	}
	s := so.Surface()
	if s.ForwardOnly {
		return graphics.Errorf(graphics.PipelineStateError, "renderer.GeometryPass", "%T renders forward only", o)
	}
	// an earlier object may have left another framebuffer bound
	dp.gbuffer.Bind()
	return o.RenderDeferred(material.NewGeometryPassMaterial(s), cam, vp)
}

// LightingPass shades the G-buffer into the default framebuffer. It fails
// with a PipelineStateError unless a geometry pass for the same viewport
// ran since the last lighting pass.
func (dp *DeferredPipeline) LightingPass(cam *graphics.Camera, lights *light.Lights) error {
	defer profiling.Track("renderer.LightingPass")()
	if !dp.geometryDone {
		return graphics.Errorf(graphics.PipelineStateError, "renderer.LightingPass", "no geometry pass this frame")
	}
	dp.geometryDone = false
	vp := cam.Viewport()
	if vp != dp.passViewport {
		return graphics.Errorf(graphics.PipelineStateError, "renderer.LightingPass",
			"viewport %dx%d differs from geometry pass %dx%d", vp.Width, vp.Height, dp.passViewport.Width, dp.passViewport.Height)
	}

	ctx := dp.device.Context()
	ctx.BindFramebuffer(0)
	ctx.SetDepthTest(true)
	ctx.SetDepthWrite(true)
	ctx.SetBlend(false)

	dp.lighting.GBuffer = dp.gbuffer
	dp.lighting.Camera = cam
	dp.lighting.Lights = lights
	return dp.quad.RenderForward2D(dp.lighting, vp)
}

// Render runs the geometry pass and then the lighting pass
func (dp *DeferredPipeline) Render(cam *graphics.Camera, lights *light.Lights, objects ...Object) ([]ObjectError, error) {
	failed, err := dp.GeometryPass(cam, objects...)
	if err != nil {
		return failed, err
	}
	return failed, dp.LightingPass(cam, lights)
}

// Dispose releases the G-buffer and the screen quad
func (dp *DeferredPipeline) Dispose() {
	if dp.gbuffer != nil {
		dp.gbuffer.Dispose()
		dp.gbuffer = nil
	}
	dp.quad.Dispose()
}
