package renderer_test

import (
	"image"
	"testing"

	"dust/internal/graphics"
	"dust/internal/graphics/gltest"
	"dust/internal/graphics/object"
	"dust/internal/light"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	rec    *gltest.Recorder
	device *graphics.Device
	cam    *graphics.Camera
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := gltest.New()
	cam, err := graphics.NewPerspectiveCamera(graphics.NewViewport(900, 700),
		mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, 60, 0.1, 100)
	require.NoError(t, err)
	return &fixture{rec: rec, device: graphics.NewDevice(rec), cam: cam}
}

// triangle has positions and colours
func (f *fixture) triangle(t *testing.T) *object.Model {
	t.Helper()
	m, err := object.NewModel(f.device, &graphics.MeshData{
		Positions: []mgl32.Vec3{{0.5, -0.5, 0}, {-0.5, -0.5, 0}, {0, 0.5, 0}},
		Colors:    []mgl32.Vec4{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}},
	})
	require.NoError(t, err)
	return m
}

// bareQuad has positions only: no normals, UVs or colours
func (f *fixture) bareQuad(t *testing.T) *object.Model {
	t.Helper()
	m, err := object.NewModel(f.device, &graphics.MeshData{
		Positions: []mgl32.Vec3{{-1, -1, -0.5}, {1, -1, -0.5}, {1, 1, -0.5}, {-1, 1, -0.5}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) sphere(t *testing.T) *object.Sphere {
	t.Helper()
	s, err := object.NewSphere(f.device, 0.25, 4, 6)
	require.NoError(t, err)
	return s
}

func (f *fixture) opaqueTexture(t *testing.T) *graphics.Texture {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	tex, err := graphics.NewTexture(f.device, img)
	require.NoError(t, err)
	require.False(t, tex.HasAlpha())
	return tex
}

func testLights() *light.Lights {
	return &light.Lights{
		Ambient:     &light.AmbientLight{Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.2},
		Directional: []*light.DirectionalLight{light.NewDirectionalLight(mgl32.Vec3{1, 1, 1}, 0.8, mgl32.Vec3{0, -1, -1})},
		Point: []*light.PointLight{light.NewPointLight(mgl32.Vec3{1, 0.5, 0}, 2, mgl32.Vec3{0, 1, 1},
			light.Attenuation{Constant: 1, Linear: 0.1, Quadratic: 0.01})},
	}
}

func translate(x, y, z float32) mgl32.Mat4 { return mgl32.Translate3D(x, y, z) }
