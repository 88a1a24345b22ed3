package graphics

// Viewport is a pixel rectangle of the current render target
type Viewport struct {
	X, Y          int
	Width, Height int
}

// NewViewport returns a viewport at the origin. Negative sizes clamp to 0.
func NewViewport(width, height int) Viewport {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Viewport{Width: width, Height: height}
}

// AspectRatio returns width/height, or 1 for a degenerate viewport.
func (v Viewport) AspectRatio() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Empty reports whether the viewport covers no pixels.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// apply sets the viewport on the given context
func (v Viewport) apply(ctx Context) {
	ctx.Viewport(int32(v.X), int32(v.Y), int32(v.Width), int32(v.Height))
}
