package renderer_test

import (
	"errors"
	"testing"

	"dust/internal/graphics"
	"dust/internal/graphics/renderer"
	"dust/internal/light"
	"dust/internal/material"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T, f *fixture) *renderer.DeferredPipeline {
	t.Helper()
	dp, err := renderer.NewDeferredPipeline(f.device)
	require.NoError(t, err)
	t.Cleanup(dp.Dispose)
	return dp
}

func TestDeferredPartialFailure(t *testing.T) {
	f := newFixture(t)
	dp := newPipeline(t, f)
	tri := renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{})
	// the quad was built without UVs
	quad := renderer.NewGlue(f.bareQuad(t), material.NewTextureMaterial(f.opaqueTexture(t)))

	failed, err := dp.GeometryPass(f.cam, tri, quad)
	require.NoError(t, err)

	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Index)
	assert.Same(t, quad, failed[0].Object)
	assert.ErrorIs(t, failed[0], graphics.ErrAttributeMismatch)
	var re *graphics.RenderError
	require.True(t, errors.As(failed[0].Err, &re))
	assert.Equal(t, graphics.AttributeMismatch, re.Kind)

	gbufferDraws := f.rec.DrawsTo(dp.GBuffer().Framebuffer())
	require.Len(t, gbufferDraws, 1)
	assert.Equal(t, int32(3), gbufferDraws[0].Count)

	require.NoError(t, dp.LightingPass(f.cam, testLights()))
	assert.Len(t, f.rec.DrawsTo(0), 1)
}

func TestDeferredRenderReportsFailuresAndLights(t *testing.T) {
	f := newFixture(t)
	dp := newPipeline(t, f)
	quad := renderer.NewGlue(f.bareQuad(t), material.NewTextureMaterial(f.opaqueTexture(t)))
	tri := renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{})

	failed, err := dp.Render(f.cam, testLights(), quad, tri)

	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, 0, failed[0].Index)
	assert.Len(t, f.rec.DrawsTo(dp.GBuffer().Framebuffer()), 1)
	assert.Len(t, f.rec.DrawsTo(0), 1)
}

func TestLightingPassRequiresGeometryPass(t *testing.T) {
	f := newFixture(t)
	dp := newPipeline(t, f)

	err := dp.LightingPass(f.cam, testLights())
	assert.ErrorIs(t, err, graphics.ErrPipelineState)
	assert.Empty(t, f.rec.Draws)

	_, err = dp.GeometryPass(f.cam, renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{}))
	require.NoError(t, err)
	require.NoError(t, dp.LightingPass(f.cam, testLights()))

	// a second lighting pass needs a new geometry pass
	err = dp.LightingPass(f.cam, testLights())
	assert.ErrorIs(t, err, graphics.ErrPipelineState)
}

func TestLightingPassViewportMismatch(t *testing.T) {
	f := newFixture(t)
	dp := newPipeline(t, f)

	_, err := dp.GeometryPass(f.cam)
	require.NoError(t, err)
	f.cam.SetViewport(graphics.NewViewport(450, 350))

	err = dp.LightingPass(f.cam, nil)
	assert.ErrorIs(t, err, graphics.ErrPipelineState)
	assert.Empty(t, f.rec.DrawsTo(0))
}

func TestGeometryPassEmptyViewport(t *testing.T) {
	f := newFixture(t)
	dp := newPipeline(t, f)
	f.cam.SetViewport(graphics.NewViewport(0, 0))

	failed, err := dp.GeometryPass(f.cam, renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{}))

	assert.Nil(t, failed)
	assert.ErrorIs(t, err, graphics.ErrResourceBind)
	assert.Nil(t, dp.GBuffer())
	assert.Empty(t, f.rec.Draws)
}

func TestGeometryPassRejectsForwardOnlyObjects(t *testing.T) {
	f := newFixture(t)
	dp := newPipeline(t, f)
	normals := renderer.NewGlue(f.sphere(t), &material.NormalMaterial{})
	plain := stubObject{box: graphics.NewAABB([]mgl32.Vec3{{0, 0, 0}})}
	tri := renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{})

	failed, err := dp.GeometryPass(f.cam, normals, plain, tri)

	require.NoError(t, err)
	require.Len(t, failed, 2)
	assert.Equal(t, 0, failed[0].Index)
	assert.Equal(t, 1, failed[1].Index)
	for _, oe := range failed {
		assert.ErrorIs(t, oe, graphics.ErrPipelineState)
	}
	assert.Len(t, f.rec.DrawsTo(dp.GBuffer().Framebuffer()), 1)
}

// offscreenObject draws into its own framebuffer and leaves it bound
type offscreenObject struct {
	stubObject
	ctx graphics.Context
}

func (o offscreenObject) Surface() material.Surface { return material.Surface{Albedo: material.White} }

func (o offscreenObject) RenderDeferred(material.DeferredMaterial, *graphics.Camera, graphics.Viewport) error {
	o.ctx.BindFramebuffer(0)
	return nil
}

func TestGeometryPassRebindsGBufferPerObject(t *testing.T) {
	f := newFixture(t)
	dp := newPipeline(t, f)
	offscreen := offscreenObject{stubObject: stubObject{box: graphics.NewAABB([]mgl32.Vec3{{0, 0, -1}})}, ctx: f.device.Context()}
	tri := renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{})

	failed, err := dp.GeometryPass(f.cam, offscreen, tri)

	require.NoError(t, err)
	require.Empty(t, failed)
	assert.Len(t, f.rec.DrawsTo(dp.GBuffer().Framebuffer()), 1)
	assert.Empty(t, f.rec.DrawsTo(0))
}

func TestGeometryPassUsesSurfaceOfObjectMaterial(t *testing.T) {
	f := newFixture(t)
	dp := newPipeline(t, f)
	phong := material.NewPhongMaterial(mgl32.Vec4{0.8, 0.1, 0.1, 1})
	phong.Shininess = 64

	_, err := dp.GeometryPass(f.cam, renderer.NewGlue(f.sphere(t), phong))
	require.NoError(t, err)

	draws := f.rec.DrawsTo(dp.GBuffer().Framebuffer())
	require.Len(t, draws, 1)
	u := f.rec.UniformsOf(draws[0].Program)
	assert.Equal(t, mgl32.Vec4{0.8, 0.1, 0.1, 1}, u["surfaceColor"])
	assert.Equal(t, float32(64), u["shininess"])
	// the geometry pass writes surfaces only
	assert.NotContains(t, u, "directionalCount")
}

func TestGBufferFollowsViewport(t *testing.T) {
	f := newFixture(t)
	dp := newPipeline(t, f)

	_, err := dp.GeometryPass(f.cam)
	require.NoError(t, err)
	first := dp.GBuffer()
	assert.True(t, first.Matches(graphics.NewViewport(900, 700)))

	_, err = dp.GeometryPass(f.cam)
	require.NoError(t, err)
	assert.Same(t, first, dp.GBuffer())

	f.cam.SetViewport(graphics.NewViewport(450, 350))
	_, err = dp.GeometryPass(f.cam)
	require.NoError(t, err)
	assert.NotSame(t, first, dp.GBuffer())
	assert.True(t, dp.GBuffer().Matches(graphics.NewViewport(450, 350)))
	assert.Equal(t, 1, f.rec.Live("framebuffer"))
}

func TestDeferredDispose(t *testing.T) {
	f := newFixture(t)
	dp, err := renderer.NewDeferredPipeline(f.device)
	require.NoError(t, err)
	_, err = dp.GeometryPass(f.cam)
	require.NoError(t, err)

	dp.Dispose()

	assert.Nil(t, dp.GBuffer())
	assert.Zero(t, f.rec.Live("framebuffer"))
	assert.Zero(t, f.rec.Live("texture"))
	assert.Zero(t, f.rec.Live("vao"))
}

// Deferred shading of objects whose materials need the same attributes
// feeds the lighting stage the same surfaces and lights as forward shading.
func TestForwardDeferredConsistency(t *testing.T) {
	f := newFixture(t)
	lights := testLights()
	lights.Model = light.BlinnPhong
	red := material.NewPhongMaterial(mgl32.Vec4{1, 0, 0, 1})
	blue := material.NewPhongMaterial(mgl32.Vec4{0, 0, 1, 1})
	blue.SpecularIntensity = 0.25
	left := f.sphere(t)
	left.SetTransformation(translate(-0.5, 0, -1))
	right := f.sphere(t)
	right.SetTransformation(translate(0.5, 0, -1))
	objects := []renderer.Object{renderer.NewGlue(left, red), renderer.NewGlue(right, blue)}

	require.Empty(t, renderer.RenderForward(f.cam, lights, objects...))
	forward := f.rec.Draws
	forwardUniforms := make([]map[string]any, len(forward))
	for i, d := range forward {
		forwardUniforms[i] = f.rec.UniformsOf(d.Program)
	}

	f.rec.Reset()
	dp := newPipeline(t, f)
	failed, err := dp.Render(f.cam, lights, objects...)
	require.NoError(t, err)
	require.Empty(t, failed)

	geometry := f.rec.DrawsTo(dp.GBuffer().Framebuffer())
	require.Len(t, geometry, len(forward))
	for i := range forward {
		assert.Equal(t, forward[i].Count, geometry[i].Count)
		assert.Equal(t, forward[i].Mode, geometry[i].Mode)
		assert.Equal(t, forward[i].Viewport, geometry[i].Viewport)
	}

	// lights: the lighting pass uploads what the forward shader received
	lighting := f.rec.DrawsTo(0)
	require.Len(t, lighting, 1)
	lu := f.rec.UniformsOf(lighting[0].Program)
	lightNames := []string{
		"ambientColor", "lightingModel", "directionalCount", "pointCount", "spotCount",
		"directionalLights[0].color", "directionalLights[0].direction",
		"pointLights[0].color", "pointLights[0].position", "pointLights[0].attenuation",
		"eyePosition",
	}
	for _, name := range lightNames {
		require.Contains(t, lu, name)
		assert.Equal(t, forwardUniforms[0][name], lu[name], "uniform %s", name)
	}

	// both shaders share one lighting implementation
	lightingSrc := f.rec.Programs[lighting[0].Program].Fragment
	forwardSrc := f.rec.Programs[forward[0].Program].Fragment
	assert.Contains(t, lightingSrc, light.ShaderSource())
	assert.Contains(t, forwardSrc, light.ShaderSource())

	// surfaces: each object's geometry-pass uniforms match its forward draw
	surfaceNames := []string{"surfaceColor", "specularIntensity", "shininess", "modelMatrix", "viewProjection"}
	for i, o := range objects {
		f.rec.Reset()
		require.Empty(t, renderer.RenderForward(f.cam, lights, o))
		want := f.rec.UniformsOf(f.rec.Draws[0].Program)

		f.rec.Reset()
		failed, err := dp.GeometryPass(f.cam, o)
		require.NoError(t, err)
		require.Empty(t, failed)
		got := f.rec.UniformsOf(f.rec.Draws[0].Program)

		for _, name := range surfaceNames {
			require.Contains(t, got, name)
			assert.Equal(t, want[name], got[name], "object %d uniform %s", i, name)
		}
	}
}
