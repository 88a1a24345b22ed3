package graphics

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Texture is a 2D texture or cube map on the GPU
type Texture struct {
	ctx      Context
	id       uint32
	target   TextureTarget
	format   TextureFormat
	width    int
	height   int
	hasAlpha bool
}

// LoadImage decodes a PNG or JPEG file
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

func toRGBA(img image.Image, size image.Point) *image.RGBA {
	rgba := image.NewRGBA(image.Rectangle{Max: size})
	if img.Bounds().Size() == size {
		xdraw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	}
	return rgba
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// NewTexture uploads img as an RGBA8 2D texture. The texture is treated
// as transparent unless the image reports itself opaque.
func NewTexture(d *Device, img image.Image) (*Texture, error) {
	size := img.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, Errorf(ResourceBindFailure, "graphics.NewTexture", "empty image %v", img.Bounds())
	}
	rgba := toRGBA(img, size)
	id, err := d.ctx.CreateTexture(Texture2D, FormatRGBA8, size.X, size.Y, [][]byte{rgba.Pix})
	if err != nil {
		return nil, NewError(ResourceBindFailure, "graphics.NewTexture", err)
	}
	return &Texture{
		ctx:      d.ctx,
		id:       id,
		target:   Texture2D,
		format:   FormatRGBA8,
		width:    size.X,
		height:   size.Y,
		hasAlpha: !isOpaque(img),
	}, nil
}

// NewCubeMap uploads six faces in the order +X, -X, +Y, -Y, +Z, -Z.
// Faces are scaled to the size of the first one.
func NewCubeMap(d *Device, faces [6]image.Image) (*Texture, error) {
	size := faces[0].Bounds().Size()
	if size.X <= 0 || size.X != size.Y {
		return nil, Errorf(ResourceBindFailure, "graphics.NewCubeMap", "cube map faces must be square, got %v", size)
	}
	layers := make([][]byte, 6)
	opaque := true
	for i, f := range faces {
		layers[i] = toRGBA(f, size).Pix
		opaque = opaque && isOpaque(f)
	}
	id, err := d.ctx.CreateTexture(TextureCubeMap, FormatRGBA8, size.X, size.Y, layers)
	if err != nil {
		return nil, NewError(ResourceBindFailure, "graphics.NewCubeMap", err)
	}
	return &Texture{
		ctx:      d.ctx,
		id:       id,
		target:   TextureCubeMap,
		format:   FormatRGBA8,
		width:    size.X,
		height:   size.Y,
		hasAlpha: !opaque,
	}, nil
}

// NewRenderTexture allocates an empty 2D texture to render into
func NewRenderTexture(d *Device, format TextureFormat, width, height int) (*Texture, error) {
	id, err := d.ctx.CreateTexture(Texture2D, format, width, height, nil)
	if err != nil {
		return nil, NewError(ResourceBindFailure, "graphics.NewRenderTexture", err)
	}
	return &Texture{ctx: d.ctx, id: id, target: Texture2D, format: format, width: width, height: height}, nil
}

func (t *Texture) ID() uint32            { return t.id }
func (t *Texture) Target() TextureTarget { return t.target }
func (t *Texture) Width() int            { return t.width }
func (t *Texture) Height() int           { return t.height }

// HasAlpha reports whether sampling may return alpha < 1
func (t *Texture) HasAlpha() bool { return t.hasAlpha }

// Dispose deletes the texture
func (t *Texture) Dispose() {
	if t.id != 0 {
		t.ctx.DeleteTexture(t.id)
		t.id = 0
	}
}
