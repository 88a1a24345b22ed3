package graphics_test

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"dust/internal/graphics"
	"dust/internal/graphics/gltest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNewTextureAlpha(t *testing.T) {
	d := graphics.NewDevice(gltest.New())

	opaque, err := graphics.NewTexture(d, filled(4, 2, color.NRGBA{255, 0, 0, 255}))
	require.NoError(t, err)
	assert.False(t, opaque.HasAlpha())
	assert.Equal(t, graphics.Texture2D, opaque.Target())
	assert.Equal(t, 4, opaque.Width())
	assert.Equal(t, 2, opaque.Height())

	glass, err := graphics.NewTexture(d, filled(2, 2, color.NRGBA{255, 255, 255, 100}))
	require.NoError(t, err)
	assert.True(t, glass.HasAlpha())

	_, err = graphics.NewTexture(d, image.NewNRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, graphics.ErrResourceBind)
}

func TestNewCubeMap(t *testing.T) {
	rec := gltest.New()
	d := graphics.NewDevice(rec)

	var faces [6]image.Image
	for i := range faces {
		faces[i] = filled(8, 8, color.NRGBA{0, 0, 255, 255})
	}
	// smaller faces are scaled to the first one
	faces[3] = filled(4, 4, color.NRGBA{0, 255, 0, 255})

	cube, err := graphics.NewCubeMap(d, faces)
	require.NoError(t, err)
	assert.Equal(t, graphics.TextureCubeMap, cube.Target())
	assert.Equal(t, 1, rec.Live("texture"))

	faces[0] = filled(8, 4, color.NRGBA{})
	_, err = graphics.NewCubeMap(d, faces)
	assert.ErrorIs(t, err, graphics.ErrResourceBind)

	cube.Dispose()
	assert.Zero(t, rec.Live("texture"))
}

func TestTextureCacheLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "red.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, filled(2, 2, color.NRGBA{255, 0, 0, 255})))
	require.NoError(t, f.Close())

	rec := gltest.New()
	cache := graphics.NewTextureCache(graphics.NewDevice(rec))

	a, err := cache.Get(path)
	require.NoError(t, err)
	b, err := cache.Get(path)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, rec.Live("texture"))

	_, err = cache.Get(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, graphics.ErrResourceBind)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	cache.Dispose()
	assert.Zero(t, rec.Live("texture"))
}

func TestGBuffer(t *testing.T) {
	rec := gltest.New()
	d := graphics.NewDevice(rec)

	_, err := graphics.NewGBuffer(d, 0, 10)
	assert.ErrorIs(t, err, graphics.ErrResourceBind)

	g, err := graphics.NewGBuffer(d, 320, 240)
	require.NoError(t, err)
	assert.True(t, g.Matches(graphics.NewViewport(320, 240)))
	assert.False(t, g.Matches(graphics.NewViewport(240, 320)))
	assert.Equal(t, graphics.GBufferChannels+1, rec.Live("texture"))
	assert.Equal(t, 1, rec.Live("framebuffer"))

	g.Bind()
	assert.Equal(t, g.Framebuffer(), rec.Framebuffer())

	g.Dispose()
	assert.Zero(t, rec.Live("texture"))
	assert.Zero(t, rec.Live("framebuffer"))
}

func TestGBufferIncompleteReleasesTextures(t *testing.T) {
	rec := gltest.New()
	rec.FailFramebuffer = errors.New("framebuffer incomplete")

	_, err := graphics.NewGBuffer(graphics.NewDevice(rec), 64, 64)
	assert.ErrorIs(t, err, graphics.ErrResourceBind)
	assert.Zero(t, rec.Live("texture"))
}
