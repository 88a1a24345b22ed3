package main

import (
	"log/slog"
	"time"

	"dust/internal/config"
	"dust/internal/control"
	"dust/internal/graphics"
	"dust/internal/graphics/renderer"
	"dust/internal/input"
	"dust/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// slowFrame is the frame time above which the frame breakdown is logged
const slowFrame = 16 * time.Millisecond

// Viewer runs the frame loop of the demo
type Viewer struct {
	window       *glfw.Window
	renderer     *renderer.Renderer
	demo         *demo
	inputManager *input.InputManager
	orbit        *control.OrbitControl
	fpsLimiter   *FPSLimiter
	watcher      *config.Watcher
	settingsPath string
	logger       *slog.Logger

	lastTime time.Time
	// failing remembers which objects failed last frame so a persistent
	// failure is logged once
	failing map[int]string
}

func newViewer(window *glfw.Window, r *renderer.Renderer, dm *demo, settingsPath string, w *config.Watcher, logger *slog.Logger) *Viewer {
	v := &Viewer{
		window:       window,
		renderer:     r,
		demo:         dm,
		inputManager: input.NewInputManager(),
		orbit:        control.NewOrbitControl(1, 30),
		fpsLimiter:   NewFPSLimiter(),
		watcher:      w,
		settingsPath: settingsPath,
		logger:       logger,
		lastTime:     time.Now(),
		failing:      make(map[int]string),
	}
	v.inputManager.Attach(window)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		r.UpdateViewport(width, height)
	})
	v.applySettings()
	return v
}

// Run loops until the window is closed
func (v *Viewer) Run() {
	for !v.window.ShouldClose() {
		v.tick()
	}
}

func (v *Viewer) tick() {
	profiling.ResetFrame()
	now := time.Now()
	dt := float32(now.Sub(v.lastTime).Seconds())
	v.lastTime = now

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
	v.pollSettings()
	v.handleInput(dt)

	if err := v.demo.update(dt); err != nil {
		v.logger.Warn("scene update failed", "error", err)
	}

	failed, err := v.renderer.Render(v.demo.scene)
	if err != nil {
		v.logger.Error("frame not rendered", "pipeline", v.renderer.Pipeline(), "error", err)
	}
	v.reportFailures(failed)

	func() { defer profiling.Track("glfw.SwapBuffers")(); v.window.SwapBuffers() }()

	if total := time.Since(now); total > slowFrame {
		stats := profiling.FrameStats()
		v.logger.Debug("slow frame",
			"ms", float64(total.Microseconds())/1000,
			"draws", stats.Draws,
			"vertices", stats.Vertices,
			"culled", stats.Culled,
			"top", profiling.TopN(5),
		)
	}

	v.inputManager.PostUpdate()
	v.fpsLimiter.Wait()
}

func (v *Viewer) handleInput(dt float32) {
	im := v.inputManager
	if im.JustPressed(input.ActionQuit) {
		v.window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionTogglePipeline) {
		name := config.TogglePipeline()
		v.applySettings()
		v.logger.Info("pipeline switched", "pipeline", name)
	}
	if im.JustPressed(input.ActionToggleCulling) {
		config.SetFrustumCulling(!config.GetFrustumCulling())
		v.applySettings()
		v.logger.Info("frustum culling", "enabled", config.GetFrustumCulling())
	}
	if im.JustPressed(input.ActionReloadSettings) {
		v.reload()
	}

	var in control.Input
	if im.IsActive(input.ActionOrbitLeft) {
		in.Yaw++
	}
	if im.IsActive(input.ActionOrbitRight) {
		in.Yaw--
	}
	if im.IsActive(input.ActionOrbitUp) {
		in.Pitch++
	}
	if im.IsActive(input.ActionOrbitDown) {
		in.Pitch--
	}
	if im.IsActive(input.ActionZoomIn) {
		in.Zoom++
	}
	if im.IsActive(input.ActionZoomOut) {
		in.Zoom--
	}
	if im.IsActive(input.ActionDrag) {
		dx, dy := im.CursorDelta()
		in.DragX, in.DragY = float32(dx), float32(dy)
	}
	v.orbit.Handle(v.renderer.Camera(), in, dt)
}

// pollSettings applies a settings file change seen by the watcher
func (v *Viewer) pollSettings() {
	if v.watcher == nil {
		return
	}
	select {
	case s := <-v.watcher.Updates():
		config.Apply(s)
		v.applySettings()
	default:
	}
}

func (v *Viewer) reload() {
	s, err := config.Load(v.settingsPath)
	if err != nil {
		v.logger.Warn("settings not reloaded", "path", v.settingsPath, "error", err)
		return
	}
	config.Apply(s)
	v.applySettings()
	v.logger.Info("settings reloaded", "path", v.settingsPath)
}

// applySettings copies the runtime settings into the renderer
func (v *Viewer) applySettings() {
	p, err := renderer.ParsePipeline(config.GetPipeline())
	if err != nil {
		v.logger.Warn("unknown pipeline, using forward", "error", err)
	}
	v.renderer.SetPipeline(p)
	v.renderer.SetFrustumCulling(config.GetFrustumCulling())
	v.renderer.SetClearColor(config.GetClearColor())
}

func (v *Viewer) reportFailures(failed []renderer.ObjectError) {
	seen := make(map[int]bool, len(failed))
	for _, f := range failed {
		seen[f.Index] = true
		msg := f.Err.Error()
		if v.failing[f.Index] == msg {
			continue
		}
		v.failing[f.Index] = msg
		v.logger.Warn("object not rendered", "index", f.Index, "kind", graphics.ErrorKindOf(f.Err), "error", f.Err)
	}
	for i := range v.failing {
		if !seen[i] {
			delete(v.failing, i)
		}
	}
}
