package renderer_test

import (
	"testing"

	"dust/internal/graphics"
	"dust/internal/graphics/object"
	"dust/internal/graphics/renderer"
	"dust/internal/material"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, f *fixture) *renderer.Renderer {
	t.Helper()
	r, err := renderer.NewRenderer(f.device, f.cam)
	require.NoError(t, err)
	t.Cleanup(r.Dispose)
	return r
}

func TestRenderSingleTriangle(t *testing.T) {
	f := newFixture(t)
	r := newRenderer(t, f)
	scene := renderer.NewScene(nil)
	scene.Add(renderer.NewGlue(f.triangle(t), material.NewColorMaterial(1, 0.5, 0)))

	failed, err := r.Render(scene)

	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, f.rec.Draws, 1)
	draw := f.rec.Draws[0]
	assert.Equal(t, graphics.Triangles, draw.Mode)
	assert.Equal(t, int32(3), draw.Count)
	assert.False(t, draw.Indexed)
	assert.Equal(t, uint32(0), draw.Framebuffer)
	assert.Equal(t, [4]int32{0, 0, 900, 700}, draw.Viewport)
}

func TestRenderAfterResize(t *testing.T) {
	for _, p := range []renderer.Pipeline{renderer.PipelineForward, renderer.PipelineDeferred} {
		t.Run(p.String(), func(t *testing.T) {
			f := newFixture(t)
			r := newRenderer(t, f)
			r.SetPipeline(p)
			cam := r.Camera()
			scene := renderer.NewScene(nil)
			scene.Add(renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{}))

			_, err := r.Render(scene)
			require.NoError(t, err)
			f.rec.Reset()

			r.UpdateViewport(450, 350)
			_, err = r.Render(scene)
			require.NoError(t, err)

			assert.Same(t, cam, r.Camera())
			assert.Equal(t, graphics.NewViewport(450, 350), cam.Viewport())
			assert.InDelta(t, 450.0/350.0, cam.Viewport().AspectRatio(), 1e-6)
			require.NotEmpty(t, f.rec.Draws)
			for _, d := range f.rec.Draws {
				assert.Equal(t, [4]int32{0, 0, 450, 350}, d.Viewport)
			}
			if p == renderer.PipelineDeferred {
				assert.True(t, r.Deferred().GBuffer().Matches(graphics.NewViewport(450, 350)))
				assert.Equal(t, 1, f.rec.Live("framebuffer"))
			}
		})
	}
}

func TestRenderEmptyViewport(t *testing.T) {
	f := newFixture(t)
	r := newRenderer(t, f)
	scene := renderer.NewScene(nil)
	scene.Add(renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{}))
	r.UpdateViewport(0, 0)
	f.rec.Reset()

	failed, err := r.Render(scene)

	assert.NoError(t, err)
	assert.Nil(t, failed)
	assert.Empty(t, f.rec.Calls)
}

func TestRenderDeferredFrame(t *testing.T) {
	f := newFixture(t)
	r := newRenderer(t, f)
	r.SetPipeline(renderer.PipelineDeferred)
	lights := testLights()
	scene := renderer.NewScene(lights)

	tri := renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{})
	normals := renderer.NewGlue(f.sphere(t), &material.NormalMaterial{})
	glass := renderer.NewGlue(f.bareQuad(t), &material.ColorMaterial{Color: mgl32.Vec4{0, 0, 1, 0.5}})
	scene.Add(normals, tri, glass)

	circle, err := object.NewCircle(f.device, 10, 16)
	require.NoError(t, err)
	scene.AddOverlay(circle, material.NewColorMaterial(1, 1, 1))

	failed, err := r.Render(scene)
	require.NoError(t, err)
	require.Empty(t, failed)

	gbuffer := r.Deferred().GBuffer()
	require.NotNil(t, gbuffer)
	geometry := f.rec.DrawsTo(gbuffer.Framebuffer())
	require.Len(t, geometry, 1)
	assert.Equal(t, int32(3), geometry[0].Count)

	// lighting quad, forward-only sphere, glass, overlay
	screen := f.rec.DrawsTo(0)
	require.Len(t, screen, 4)
	lightingSrc := f.rec.Programs[screen[0].Program].Fragment
	assert.Contains(t, lightingSrc, "gAlbedo")

	sphere := screen[1]
	assert.True(t, sphere.DepthTest)
	assert.True(t, sphere.DepthWrite)
	assert.False(t, sphere.Blend)

	transparent := screen[2]
	assert.True(t, transparent.Blend)
	assert.False(t, transparent.DepthWrite)
	assert.True(t, transparent.DepthTest)

	overlay := screen[3]
	assert.False(t, overlay.DepthTest)
	assert.True(t, overlay.Blend)
	assert.Equal(t, graphics.TriangleFan, overlay.Mode)

	assert.True(t, f.rec.DepthWrite())
	assert.False(t, f.rec.Blend())
}

func TestRenderForwardFrame(t *testing.T) {
	f := newFixture(t)
	r := newRenderer(t, f)
	scene := renderer.NewScene(testLights())
	far := renderer.NewGlue(f.bareQuad(t), &material.ColorMaterial{Color: mgl32.Vec4{1, 0, 0, 0.5}})
	near := renderer.NewGlue(f.triangle(t), &material.ColorMaterial{Color: mgl32.Vec4{0, 1, 0, 0.5}})
	solid := renderer.NewGlue(f.sphere(t), material.NewPhongMaterial(mgl32.Vec4{1, 1, 1, 1}))
	scene.Add(near, far, solid)

	failed, err := r.Render(scene)
	require.NoError(t, err)
	require.Empty(t, failed)

	require.Len(t, f.rec.Draws, 3)
	// 4 stacks x 6 slices x 2 triangles
	assert.Equal(t, int32(144), f.rec.Draws[0].Count, "opaque sphere first")
	assert.False(t, f.rec.Draws[0].Blend)
	// transparent back to front
	assert.Equal(t, int32(6), f.rec.Draws[1].Count)
	assert.True(t, f.rec.Draws[1].Indexed)
	assert.Equal(t, int32(3), f.rec.Draws[2].Count)
	assert.True(t, f.rec.Draws[2].Blend)
	assert.Nil(t, r.Deferred().GBuffer())
}

func TestRenderReportsSceneIndices(t *testing.T) {
	for _, p := range []renderer.Pipeline{renderer.PipelineForward, renderer.PipelineDeferred} {
		t.Run(p.String(), func(t *testing.T) {
			f := newFixture(t)
			r := newRenderer(t, f)
			r.SetPipeline(p)
			scene := renderer.NewScene(nil)

			// forward only, and its quad has no normals
			flat := renderer.NewGlue(f.bareQuad(t), &material.NormalMaterial{})
			textured := renderer.NewGlue(f.bareQuad(t), material.NewTextureMaterial(f.opaqueTexture(t)))
			scene.Add(
				renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{}),
				flat,
				renderer.NewGlue(f.triangle(t), material.NewColorMaterial(1, 0, 0)),
				textured,
			)

			failed, err := r.Render(scene)
			require.NoError(t, err)

			require.Len(t, failed, 2)
			byIndex := map[int]renderer.Object{}
			for _, oe := range failed {
				assert.ErrorIs(t, oe, graphics.ErrAttributeMismatch)
				byIndex[oe.Index] = oe.Object
			}
			assert.Same(t, flat, byIndex[1])
			assert.Same(t, textured, byIndex[3])
		})
	}
}

func TestRenderCullsOutsideObjects(t *testing.T) {
	f := newFixture(t)
	r := newRenderer(t, f)
	scene := renderer.NewScene(nil)
	behind := f.triangle(t)
	behind.SetTransformation(translate(0, 0, 5))
	scene.Add(
		renderer.NewGlue(f.triangle(t), &material.VertexColorMaterial{}),
		renderer.NewGlue(behind, &material.VertexColorMaterial{}),
	)

	_, err := r.Render(scene)
	require.NoError(t, err)
	assert.Len(t, f.rec.Draws, 1)

	f.rec.Reset()
	r.SetFrustumCulling(false)
	assert.False(t, r.FrustumCulling())
	_, err = r.Render(scene)
	require.NoError(t, err)
	assert.Len(t, f.rec.Draws, 2)
}

func TestRenderClearsWithClearColor(t *testing.T) {
	f := newFixture(t)
	r := newRenderer(t, f)
	r.SetClearColor(mgl32.Vec4{0.1, 0.2, 0.3, 1})

	_, err := r.Render(renderer.NewScene(nil))

	require.NoError(t, err)
	assert.Empty(t, f.rec.Draws)
	assert.Contains(t, f.rec.Calls, "BindFramebuffer(0)")
}

func TestRenderOverlayFailure(t *testing.T) {
	f := newFixture(t)
	r := newRenderer(t, f)
	scene := renderer.NewScene(nil)
	rect, err := object.NewRectangle(f.device, 10, 10)
	require.NoError(t, err)
	// rectangles have no colours
	scene.AddOverlay(rect, &material.VertexColorMaterial{})

	_, err = r.Render(scene)

	require.Error(t, err)
	assert.ErrorIs(t, err, graphics.ErrAttributeMismatch)
	assert.Contains(t, err.Error(), "overlay 0")
	assert.True(t, f.rec.DepthWrite())
	assert.False(t, f.rec.Blend())
}

func TestParsePipeline(t *testing.T) {
	tests := []struct {
		in      string
		want    renderer.Pipeline
		wantErr bool
	}{
		{"forward", renderer.PipelineForward, false},
		{"", renderer.PipelineForward, false},
		{"deferred", renderer.PipelineDeferred, false},
		{"raytraced", renderer.PipelineForward, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := renderer.ParsePipeline(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "deferred", renderer.PipelineDeferred.String())
	assert.Equal(t, "forward", renderer.PipelineForward.String())
}

func TestSceneAddRemove(t *testing.T) {
	a := stubObject{name: "a", box: boxAt(0)}
	b := stubObject{name: "b", box: boxAt(-1)}
	c := stubObject{name: "c", box: boxAt(-2)}
	scene := renderer.NewScene(nil)
	scene.Add(a, b)
	scene.Add(c)

	assert.Equal(t, []string{"a", "b", "c"}, names(scene.Objects()))
	assert.True(t, scene.Remove(b))
	assert.False(t, scene.Remove(b))
	assert.Equal(t, []string{"a", "c"}, names(scene.Objects()))
}

// taggedObject cannot be compared with ==
type taggedObject struct {
	stubObject
	tags []string
}

func TestSceneRemoveUncomparableObjects(t *testing.T) {
	x := taggedObject{stubObject: stubObject{name: "x", box: boxAt(0)}, tags: []string{"debug"}}
	y := taggedObject{stubObject: stubObject{name: "y", box: boxAt(-1)}}
	a := stubObject{name: "a", box: boxAt(-2)}
	scene := renderer.NewScene(nil)
	scene.Add(x, y, a)

	assert.NotPanics(t, func() {
		assert.False(t, scene.Remove(y))
	})
	assert.False(t, scene.Remove(nil))
	assert.True(t, scene.Remove(a))
	require.Len(t, scene.Objects(), 2)
	assert.Equal(t, "x", scene.Objects()[0].(taggedObject).name)
	assert.Equal(t, "y", scene.Objects()[1].(taggedObject).name)
}
