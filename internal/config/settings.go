// Package config loads the viewer settings file and holds the render
// settings that change at runtime.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Pipeline names accepted in the settings file
const (
	PipelineForward  = "forward"
	PipelineDeferred = "deferred"
)

// WindowSettings configures the window
type WindowSettings struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
	VSync     bool   `toml:"vsync"`
}

// SurfaceSettings configures the default framebuffer
type SurfaceSettings struct {
	DepthBits   int `toml:"depth_bits"`
	StencilBits int `toml:"stencil_bits"`
	Multisample int `toml:"multisample"`
}

// RenderSettings configures the renderer
type RenderSettings struct {
	Pipeline       string     `toml:"pipeline"`
	ClearColor     [4]float32 `toml:"clear_color"`
	FrustumCulling bool       `toml:"frustum_culling"`
	FPSLimit       int        `toml:"fps_limit"`
}

// SceneSettings configures the demo scene
type SceneSettings struct {
	// Texture is an image file shown on a poster next to the scene; empty for none
	Texture string `toml:"texture"`
}

// Settings is the content of the settings file
type Settings struct {
	Window  WindowSettings  `toml:"window"`
	Surface SurfaceSettings `toml:"surface"`
	Render  RenderSettings  `toml:"render"`
	Scene   SceneSettings   `toml:"scene"`
}

// Default returns the built-in settings
func Default() *Settings {
	return &Settings{
		Window: WindowSettings{
			Title:     "Dust",
			Width:     900,
			Height:    700,
			MinWidth:  2,
			MinHeight: 2,
			VSync:     true,
		},
		Surface: SurfaceSettings{
			DepthBits:   24,
			StencilBits: 0,
			Multisample: 4,
		},
		Render: RenderSettings{
			Pipeline:       PipelineForward,
			ClearColor:     [4]float32{0.3, 0.3, 0.5, 1},
			FrustumCulling: true,
			FPSLimit:       60,
		},
	}
}

// Load reads the settings file at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := Decode(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return s, nil
}

// Decode parses TOML data into s. Keys absent from data keep their value.
func Decode(data []byte, s *Settings) error {
	return toml.Unmarshal(data, s)
}

// Encode writes s as TOML
func Encode(s *Settings) ([]byte, error) {
	return toml.Marshal(s)
}

// Validate reports the first invalid value
func (s *Settings) Validate() error {
	w := s.Window
	switch {
	case w.Width <= 0 || w.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", w.Width, w.Height)
	case w.MinWidth <= 0 || w.MinHeight <= 0:
		return fmt.Errorf("minimum window size %dx%d must be positive", w.MinWidth, w.MinHeight)
	case w.Width < w.MinWidth || w.Height < w.MinHeight:
		return fmt.Errorf("window size %dx%d below minimum %dx%d", w.Width, w.Height, w.MinWidth, w.MinHeight)
	}
	if s.Surface.DepthBits < 0 || s.Surface.StencilBits < 0 || s.Surface.Multisample < 0 {
		return errors.New("surface bit counts must not be negative")
	}
	if p := s.Render.Pipeline; p != PipelineForward && p != PipelineDeferred {
		return fmt.Errorf("unknown pipeline %q", p)
	}
	for i, c := range s.Render.ClearColor {
		if c < 0 || c > 1 {
			return fmt.Errorf("clear colour component %d out of [0,1]: %v", i, c)
		}
	}
	if s.Render.FPSLimit < 0 {
		return fmt.Errorf("fps limit %d must not be negative", s.Render.FPSLimit)
	}
	return nil
}
