package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/gekko3d/cubesketch"
	"github.com/gekko3d/cubesketch/rt/core"
)

// Window is the platform surface the Sketch renders into. Its callbacks must
// fire on the goroutine that calls PollEvents, which is also the goroutine
// running the frame loop.
type Window interface {
	Size() (width, height int)
	PixelRatio() float32
	PollEvents()
	ShouldClose() bool
	OnResize(fn func(width, height int))
	OnPointer(down func(x, y float64), move func(x, y float64), up func(), scroll func(yoff float64))
}

// Renderer draws the lattice. Sizes are in physical pixels.
type Renderer interface {
	Resize(width, height int) error
	UploadLattice(geom *core.BoxGeometry, instances []core.LatticeInstance) error
	Draw(frame *core.FrameUniforms, overlay []core.TextItem) error
}

type Option func(*Sketch)

// WithClock replaces the wall clock, for tests.
func WithClock(c *core.Clock) Option {
	return func(s *Sketch) { s.Clock = c }
}

// Sketch owns the camera, the lattice and the frame loop.
type Sketch struct {
	Viewport   core.Viewport
	Projection core.OrthoProjection
	Controls   *core.OrbitControls
	Lattice    *core.Lattice
	Geometry   *core.BoxGeometry
	Mesh       core.Transform
	Uniforms   core.FrameUniforms
	Clock      *core.Clock
	Profiler   *Profiler

	FrameCount uint64
	DrawErrors int
	FPS        float64

	cfg      cubesketch.Config
	log      cubesketch.Logger
	window   Window
	renderer Renderer

	stopped   atomic.Bool
	fpsFrames int
	fpsTime   time.Duration
}

// New sizes the surface from the window, installs the resize and pointer
// listeners and uploads the lattice. The frame loop starts with Run.
func New(cfg cubesketch.Config, window Window, renderer Renderer, log cubesketch.Logger, opts ...Option) (*Sketch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if window == nil || renderer == nil {
		return nil, errors.New("sketch: window and renderer are required")
	}

	s := &Sketch{
		cfg:      cfg,
		log:      cubesketch.OrNop(log),
		window:   window,
		renderer: renderer,
		Profiler: NewProfiler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Clock == nil {
		s.Clock = core.NewClock()
	}

	s.Controls = core.NewOrbitControls(cfg.CameraDistance, cfg.DampingFactor)
	s.Controls.RotateSpeed = cfg.RotateSpeed
	s.Controls.ZoomSpeed = cfg.ZoomSpeed

	if err := s.Resize(window.Size()); err != nil {
		return nil, err
	}
	window.OnResize(func(width, height int) {
		if err := s.Resize(width, height); err != nil {
			s.log.Errorf("Resize to %dx%d failed: %v", width, height, err)
		}
	})
	window.OnPointer(s.Controls.PointerDown, s.Controls.PointerMove, s.Controls.PointerUp, s.Controls.Scroll)

	if err := s.buildInstancedLattice(); err != nil {
		return nil, err
	}

	s.log.Infof("Sketch ready: %d instances, viewport %dx%d @%.2gx",
		s.Lattice.Count(), s.Viewport.Width, s.Viewport.Height, s.Viewport.PixelRatio)
	if !s.Framed() {
		s.log.Warnf("Lattice radius %.2f exceeds the view volume; parts are clipped at some orbit angles",
			s.Lattice.Extent()*float32(math.Sqrt(3)))
	}
	return s, nil
}

// Framed reports whether the lattice stays inside the unzoomed view volume
// from every orbit angle, i.e. its bounding sphere fits the smaller
// half-extent of the projection.
func (s *Sketch) Framed() bool {
	radius := s.Lattice.Extent() * float32(math.Sqrt(3))
	return radius <= min(s.Projection.Right, s.Projection.Top)
}

// Resize sets the surface to the window size in physical pixels and
// rebuilds the projection for the new aspect ratio. The vertical extent
// stays at ±Wide. A zero-sized (minimised) window keeps the previous state.
func (s *Sketch) Resize(width, height int) error {
	vp := core.NewViewport(width, height, s.window.PixelRatio(), s.cfg.MaxPixelRatio)
	if vp.Empty() {
		s.log.Debugf("Ignoring resize to %dx%d", width, height)
		return nil
	}

	if err := s.renderer.Resize(vp.PixelWidth, vp.PixelHeight); err != nil {
		return fmt.Errorf("resize surface: %w", err)
	}
	s.Viewport = vp
	s.Projection = core.NewOrthoProjection(s.cfg.Wide, vp.Aspect, s.cfg.Near, s.cfg.Far)
	s.Controls.SetViewHeight(height)

	s.log.Debugf("Resized to %dx%d (%dx%d px), projection x=[%.2f, %.2f]",
		width, height, vp.PixelWidth, vp.PixelHeight, s.Projection.Left, s.Projection.Right)
	return nil
}

func (s *Sketch) buildInstancedLattice() error {
	s.Lattice = core.BuildLattice(s.cfg.LatticeSize, s.cfg.LatticePadding)
	s.Geometry = core.NewBoxGeometry(1)
	s.Mesh = core.Tilt(s.cfg.TiltX, s.cfg.TiltY)
	s.Uniforms.Model = s.Mesh.Matrix()
	s.Profiler.SetCount("instances", s.Lattice.Count())

	if err := s.renderer.UploadLattice(s.Geometry, s.Lattice.Instances()); err != nil {
		return fmt.Errorf("upload lattice: %w", err)
	}
	return nil
}

// Frame advances the controls, stamps the elapsed time into the uniforms
// and draws once. The loop in Run schedules the next call.
func (s *Sketch) Frame() {
	stop := s.Profiler.Scope("controls")
	s.Controls.Advance()
	stop()

	s.Uniforms.Time = s.Clock.Elapsed()
	s.Uniforms.ViewProj = s.Projection.WithZoom(s.Controls.Zoom).Matrix().Mul4(s.Controls.View())

	stop = s.Profiler.Scope("draw")
	err := s.renderer.Draw(&s.Uniforms, s.overlay())
	stop()

	s.FrameCount++
	s.Profiler.AddCount("frames", 1)
	if err != nil {
		s.DrawErrors++
		s.Profiler.AddCount("draw_errors", 1)
		s.log.Warnf("Frame %d draw failed: %v", s.FrameCount, err)
	}

	s.updateStats(s.Clock.Delta())
}

// Run drives frames on the calling goroutine until ctx is cancelled, Stop
// is called or the window asks to close. A stopped Sketch does not restart.
func (s *Sketch) Run(ctx context.Context) error {
	s.log.Infof("Render loop started")
	for s.running(ctx) {
		s.window.PollEvents()
		if !s.running(ctx) {
			break
		}
		s.Frame()
	}
	s.stopped.Store(true)
	s.log.Infof("Render loop stopped after %d frames (%d draw errors)", s.FrameCount, s.DrawErrors)
	return nil
}

func (s *Sketch) running(ctx context.Context) bool {
	return ctx.Err() == nil && !s.stopped.Load() && !s.window.ShouldClose()
}

// Stop ends the frame loop after the current frame. Safe from any goroutine.
func (s *Sketch) Stop() {
	s.stopped.Store(true)
}

func (s *Sketch) Stopped() bool {
	return s.stopped.Load()
}

func (s *Sketch) overlay() []core.TextItem {
	if !s.cfg.DebugMode {
		return nil
	}
	return []core.TextItem{{
		Text:     fmt.Sprintf("FPS %.1f  t %.1fs  %d instances", s.FPS, s.Uniforms.Time, s.Lattice.Count()),
		Position: [2]float32{10, 10},
		Scale:    s.Viewport.PixelRatio,
		Color:    [4]float32{1, 1, 0, 1},
	}}
}

func (s *Sketch) updateStats(dt time.Duration) {
	s.fpsFrames++
	s.fpsTime += dt
	if s.fpsTime < time.Second {
		return
	}

	s.FPS = float64(s.fpsFrames) / s.fpsTime.Seconds()
	s.fpsFrames = 0
	s.fpsTime = 0

	if s.log.DebugEnabled() {
		s.log.Debugf("FPS %.1f\n%s", s.FPS, s.Profiler.Summary())
	}
	s.Profiler.Reset()
}
