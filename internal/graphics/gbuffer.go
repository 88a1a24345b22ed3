package graphics

// G-buffer colour outputs, in fragment output order
const (
	GBufferPosition = iota
	GBufferNormal
	GBufferAlbedo
	GBufferSpecular
	GBufferChannels
)

// GBuffer is the off-screen render target of the deferred geometry pass:
// four colour channels plus depth, all sampled by the lighting pass.
type GBuffer struct {
	ctx      Context
	fb       uint32
	channels [GBufferChannels]*Texture
	depth    *Texture
	width    int
	height   int
}

var channelFormats = [GBufferChannels]TextureFormat{
	GBufferPosition: FormatRGBA32F,
	GBufferNormal:   FormatRGBA32F,
	GBufferAlbedo:   FormatRGBA8,
	GBufferSpecular: FormatRGBA8,
}

// NewGBuffer allocates a G-buffer of the given size
func NewGBuffer(d *Device, width, height int) (*GBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, Errorf(ResourceBindFailure, "graphics.NewGBuffer", "invalid size %dx%d", width, height)
	}
	g := &GBuffer{ctx: d.ctx, width: width, height: height}
	ids := make([]uint32, 0, GBufferChannels)
	for i, format := range channelFormats {
		tex, err := NewRenderTexture(d, format, width, height)
		if err != nil {
			g.Dispose()
			return nil, err
		}
		g.channels[i] = tex
		ids = append(ids, tex.id)
	}
	depth, err := NewRenderTexture(d, FormatDepth24, width, height)
	if err != nil {
		g.Dispose()
		return nil, err
	}
	g.depth = depth

	fb, err := d.ctx.CreateFramebuffer(ids, depth.id)
	if err != nil {
		g.Dispose()
		return nil, NewError(ResourceBindFailure, "graphics.NewGBuffer", err)
	}
	g.fb = fb
	Logger().Debug("g-buffer allocated", "width", width, "height", height)
	return g, nil
}

// Matches reports whether the buffer has the size of vp
func (g *GBuffer) Matches(vp Viewport) bool {
	return g.width == vp.Width && g.height == vp.Height
}

// Bind makes the G-buffer the current render target
func (g *GBuffer) Bind() {
	g.ctx.BindFramebuffer(g.fb)
}

// Channel returns one colour channel texture
func (g *GBuffer) Channel(i int) *Texture { return g.channels[i] }

// Depth returns the depth texture
func (g *GBuffer) Depth() *Texture { return g.depth }

// Framebuffer returns the framebuffer handle
func (g *GBuffer) Framebuffer() uint32 { return g.fb }

// Dispose releases the framebuffer and its textures
func (g *GBuffer) Dispose() {
	if g.fb != 0 {
		g.ctx.DeleteFramebuffer(g.fb)
		g.fb = 0
	}
	for _, t := range g.channels {
		if t != nil {
			t.Dispose()
		}
	}
	if g.depth != nil {
		g.depth.Dispose()
	}
}
