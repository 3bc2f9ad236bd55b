package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gekko3d/cubesketch"
	"github.com/gekko3d/cubesketch/rt/app"
	"github.com/gekko3d/cubesketch/rt/gpu"
	"github.com/gekko3d/cubesketch/rt/platform"
	"github.com/pkg/profile"
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(sketchMain())
}

// sketchMain returns the exit status so deferred cleanup, including the
// profile flush, runs before the process exits.
func sketchMain() int {
	cfg := cubesketch.DefaultConfig()
	flag.IntVar(&cfg.WindowWidth, "width", cfg.WindowWidth, "Window width")
	flag.IntVar(&cfg.WindowHeight, "height", cfg.WindowHeight, "Window height")
	flag.StringVar(&cfg.WindowTitle, "title", cfg.WindowTitle, "Window title")
	flag.BoolVar(&cfg.DebugMode, "debug", cfg.DebugMode, "Enable debug logging and the FPS overlay")
	flag.BoolVar(&cfg.VSync, "vsync", cfg.VSync, "Wait for vertical sync")
	msaa := flag.Uint("msaa", uint(cfg.SampleCount), "MSAA sample count (1 or 4)")
	prof := flag.String("profile", "", "Write a cpu or mem profile to the working directory")
	flag.Parse()
	cfg.SampleCount = uint32(*msaa)

	log := cubesketch.NewSessionLogger("sketch", cfg.DebugMode)
	if err := cfg.Validate(); err != nil {
		log.Errorf("%v", err)
		return 2
	}

	switch *prof {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		log.Warnf("Unknown profile mode %q, profiling disabled", *prof)
	}

	if err := run(cfg, log); err != nil {
		log.Errorf("%v", err)
		return 1
	}
	return 0
}

func run(cfg cubesketch.Config, log cubesketch.Logger) error {
	window, err := platform.NewWindow(cfg.WindowWidth, cfg.WindowHeight, cfg.WindowTitle)
	if err != nil {
		return err
	}
	defer window.Close()

	fw, fh := window.FramebufferSize()
	renderer, err := gpu.NewRenderer(window.SurfaceDescriptor(), fw, fh, gpu.Options{
		VSync:        cfg.VSync,
		SampleCount:  cfg.SampleCount,
		DebugOverlay: cfg.DebugMode,
		SurfaceSize:  window.FramebufferSize,
	}, log)
	if err != nil {
		return err
	}
	defer renderer.Close()

	sketch, err := app.New(cfg, window, renderer, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return sketch.Run(ctx)
}
