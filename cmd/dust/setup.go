package main

import (
	"dust/internal/config"
	"dust/internal/graphics/glctx"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupWindow(s *config.Settings) (*glfw.Window, *glctx.Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Samples, s.Surface.Multisample)
	glfw.WindowHint(glfw.DepthBits, s.Surface.DepthBits)
	glfw.WindowHint(glfw.StencilBits, s.Surface.StencilBits)

	window, err := glfw.CreateWindow(s.Window.Width, s.Window.Height, s.Window.Title, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	window.MakeContextCurrent()
	window.SetSizeLimits(s.Window.MinWidth, s.Window.MinHeight, glfw.DontCare, glfw.DontCare)

	// Initialize OpenGL bindings
	ctx, err := glctx.New()
	if err != nil {
		window.Destroy()
		return nil, nil, err
	}

	if s.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		// the FPS limiter paces frames instead
		glfw.SwapInterval(0)
	}
	return window, ctx, nil
}
