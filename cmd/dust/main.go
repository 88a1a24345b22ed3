package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"

	"dust/internal/config"
	"dust/internal/graphics"
	"dust/internal/graphics/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	settingsPath := flag.String("settings", "dust.toml", "path to the settings file")
	verbose := flag.Bool("v", false, "log debug messages")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	graphics.SetLogger(logger)

	if err := run(*settingsPath, logger); err != nil {
		logger.Error("dust stopped", "error", err)
		os.Exit(1)
	}
}

func run(settingsPath string, logger *slog.Logger) error {
	settings, err := config.Load(settingsPath)
	if err != nil {
		return err
	}
	config.Apply(settings)

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	// Window setup
	window, ctx, err := setupWindow(settings)
	if err != nil {
		return err
	}
	defer window.Destroy()
	logger.Info("OpenGL context ready", "version", ctx.Version())

	device := graphics.NewDevice(ctx)
	defer device.ReleasePrograms()

	width, height := window.GetFramebufferSize()
	cam, err := graphics.NewPerspectiveCamera(
		graphics.NewViewport(width, height),
		mgl32.Vec3{0, 1.5, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0},
		60, 0.1, 100,
	)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(device, cam)
	if err != nil {
		return err
	}
	defer r.Dispose()

	dm, err := newDemo(device, settings)
	if err != nil {
		return err
	}
	defer dm.Dispose()

	watcher, err := config.Watch(settingsPath, logger)
	if err != nil {
		// the viewer still runs, only without live reload
		logger.Warn("settings file not watched", "path", settingsPath, "error", err)
	} else {
		defer watcher.Close()
	}

	v := newViewer(window, r, dm, settingsPath, watcher, logger)
	v.Run()
	return nil
}
