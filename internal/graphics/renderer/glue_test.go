package renderer_test

import (
	"testing"

	"dust/internal/graphics"
	"dust/internal/graphics/renderer"
	"dust/internal/light"
	"dust/internal/material"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ renderer.SurfaceObject = (*renderer.Glue[*fakeGeometry, *material.ColorMaterial])(nil)
	_ renderer.Object        = stubObject{}
)

func TestGlueRenderMatchesGeometryRenderForward(t *testing.T) {
	tests := []struct {
		name string
		mat  material.ForwardMaterial
	}{
		{"vertex colour", &material.VertexColorMaterial{}},
		{"solid colour", material.NewColorMaterial(0.2, 0.4, 0.6)},
		{"phong", material.NewPhongMaterial(mgl32.Vec4{1, 1, 1, 1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			geometry := f.sphere(t)
			geometry.SetTransformation(translate(0, 0, -1))
			// spheres carry no colours; the vertex colour case uses a triangle
			var g renderer.Geometry = geometry
			if tt.mat.Surface().VertexColors {
				g = f.triangle(t)
			}
			glue := renderer.NewGlue(g, tt.mat)
			lights := testLights()

			// first render links the program
			require.NoError(t, glue.Render(f.cam, lights))

			f.rec.Reset()
			require.NoError(t, glue.Render(f.cam, lights))
			viaGlue := f.rec.Calls
			viaGlueDraws := f.rec.Draws
			viaGlueUniforms := f.rec.Uniforms

			f.rec.Reset()
			require.NoError(t, g.RenderForward(tt.mat, f.cam, lights))

			assert.Equal(t, viaGlue, f.rec.Calls)
			assert.Equal(t, viaGlueDraws, f.rec.Draws)
			assert.Equal(t, viaGlueUniforms, f.rec.Uniforms)
		})
	}
}

func TestGlueForwardsCallerMaterial(t *testing.T) {
	f := newFixture(t)
	tri := f.triangle(t)
	glue := renderer.NewGlue(tri, material.NewColorMaterial(1, 0, 0))

	other := material.NewColorMaterial(0, 1, 0)
	require.NoError(t, glue.RenderForward(other, f.cam, nil))

	require.Len(t, f.rec.Draws, 1)
	v, ok := f.rec.UniformValue(f.rec.Draws[0].Program, "surfaceColor")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, v)
}

func TestGlueRenderDeferredUsesGivenMaterial(t *testing.T) {
	f := newFixture(t)
	glue := renderer.NewGlue(f.triangle(t), material.NewColorMaterial(1, 0, 0))
	gp := material.NewGeometryPassMaterial(material.Surface{Albedo: mgl32.Vec4{0, 0, 1, 1}})

	require.NoError(t, glue.RenderDeferred(gp, f.cam, f.cam.Viewport()))

	require.Len(t, f.rec.Draws, 1)
	v, ok := f.rec.UniformValue(f.rec.Draws[0].Program, "surfaceColor")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, v)
}

func TestGlueAttributeMismatch(t *testing.T) {
	f := newFixture(t)
	glue := renderer.NewGlue(f.bareQuad(t), material.NewTextureMaterial(f.opaqueTexture(t)))

	err := glue.Render(f.cam, nil)

	assert.ErrorIs(t, err, graphics.ErrAttributeMismatch)
	assert.Empty(t, f.rec.Draws)
}

func TestGlueIsTransparentIsStable(t *testing.T) {
	f := newFixture(t)
	mat := &material.ColorMaterial{Color: mgl32.Vec4{1, 1, 1, 0.5}}
	glue := renderer.NewGlue(f.triangle(t), mat)

	for range 5 {
		assert.True(t, glue.IsTransparent())
		require.NoError(t, glue.Render(f.cam, nil))
	}

	mat.Color[3] = 1
	for range 5 {
		assert.False(t, glue.IsTransparent())
	}
}

func TestGlueAABBAndSurface(t *testing.T) {
	f := newFixture(t)
	tri := f.triangle(t)
	tri.SetTransformation(translate(1, 2, 3))
	mat := material.NewPhongMaterial(mgl32.Vec4{1, 0, 0, 1})
	glue := renderer.NewGlue(tri, mat)

	assert.Equal(t, tri.AABB(), glue.AABB())
	assert.Equal(t, mat.Surface(), glue.Surface())
	assert.Equal(t, mgl32.Vec3{0.5, 1.5, 3}, glue.AABB().Min)
}

// fakeGeometry records which materials it was drawn with
type fakeGeometry struct {
	box      graphics.AxisAlignedBoundingBox
	forward  []material.ForwardMaterial
	deferred []material.DeferredMaterial
}

func (g *fakeGeometry) RenderForward(m material.ForwardMaterial, _ *graphics.Camera, _ *light.Lights) error {
	g.forward = append(g.forward, m)
	return nil
}

func (g *fakeGeometry) RenderDeferred(m material.DeferredMaterial, _ *graphics.Camera, _ graphics.Viewport) error {
	g.deferred = append(g.deferred, m)
	return nil
}

func (g *fakeGeometry) AABB() graphics.AxisAlignedBoundingBox { return g.box }

func TestGlueDelegatesToAnyGeometry(t *testing.T) {
	g := &fakeGeometry{box: graphics.NewAABB([]mgl32.Vec3{{0, 0, 0}, {1, 1, 1}})}
	glued := material.NewColorMaterial(1, 0, 0)
	glue := renderer.NewGlue(g, glued)

	require.NoError(t, glue.Render(nil, nil))
	injected := material.NewGeometryPassMaterial(glued.Surface())
	require.NoError(t, glue.RenderDeferred(injected, nil, graphics.Viewport{}))

	require.Len(t, g.forward, 1)
	assert.Same(t, glued, g.forward[0])
	require.Len(t, g.deferred, 1)
	assert.Same(t, injected, g.deferred[0])
}

// stubObject is an Object with a fixed box and transparency
type stubObject struct {
	name        string
	box         graphics.AxisAlignedBoundingBox
	transparent bool
	err         error
}

func (o stubObject) RenderForward(material.ForwardMaterial, *graphics.Camera, *light.Lights) error {
	return o.err
}

func (o stubObject) RenderDeferred(material.DeferredMaterial, *graphics.Camera, graphics.Viewport) error {
	return o.err
}

func (o stubObject) AABB() graphics.AxisAlignedBoundingBox       { return o.box }
func (o stubObject) Render(*graphics.Camera, *light.Lights) error { return o.err }
func (o stubObject) IsTransparent() bool                         { return o.transparent }
