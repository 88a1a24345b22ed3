package config

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// RuntimeSettings holds the render settings that can change while the
// viewer runs, from key presses or a reloaded settings file.
type RuntimeSettings struct {
	mu             sync.RWMutex
	pipeline       string
	frustumCulling bool
	fpsLimit       int
	clearColor     mgl32.Vec4
}

var globalRuntimeSettings = &RuntimeSettings{
	pipeline:       PipelineForward,
	frustumCulling: true,
	fpsLimit:       60,
	clearColor:     mgl32.Vec4{0.3, 0.3, 0.5, 1},
}

// GetPipeline returns the active pipeline name
func GetPipeline() string {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.pipeline
}

// SetPipeline sets the pipeline; unknown names fall back to forward
func SetPipeline(name string) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	if name != PipelineDeferred {
		name = PipelineForward
	}
	globalRuntimeSettings.pipeline = name
}

// TogglePipeline switches between forward and deferred and returns the new name
func TogglePipeline() string {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	if globalRuntimeSettings.pipeline == PipelineDeferred {
		globalRuntimeSettings.pipeline = PipelineForward
	} else {
		globalRuntimeSettings.pipeline = PipelineDeferred
	}
	return globalRuntimeSettings.pipeline
}

// GetFrustumCulling returns whether objects outside the view are skipped
func GetFrustumCulling() bool {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.frustumCulling
}

// SetFrustumCulling enables or disables frustum culling
func SetFrustumCulling(enabled bool) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	globalRuntimeSettings.frustumCulling = enabled
}

// GetFPSLimit returns the frame rate cap, 0 for none
func GetFPSLimit() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.fpsLimit
}

// SetFPSLimit sets the frame rate cap
func SetFPSLimit(limit int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRuntimeSettings.fpsLimit = limit
}

// GetClearColor returns the background colour
func GetClearColor() mgl32.Vec4 {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.clearColor
}

// SetClearColor sets the background colour
func SetClearColor(c mgl32.Vec4) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	globalRuntimeSettings.clearColor = c
}

// Apply copies the render section of s into the runtime settings
func Apply(s *Settings) {
	SetPipeline(s.Render.Pipeline)
	SetFrustumCulling(s.Render.FrustumCulling)
	SetFPSLimit(s.Render.FPSLimit)
	c := s.Render.ClearColor
	SetClearColor(mgl32.Vec4{c[0], c[1], c[2], c[3]})
}
