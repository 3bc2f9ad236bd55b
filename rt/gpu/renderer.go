package gpu

import (
	"errors"
	"fmt"
	"slices"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/cubesketch"
	"github.com/gekko3d/cubesketch/rt/core"
	"github.com/gekko3d/cubesketch/rt/shaders"
)

var ErrRendererInit = errors.New("renderer init failed")

const (
	depthFormat      = wgpu.TextureFormatDepth24Plus
	textVertexStride = uint64(unsafe.Sizeof(core.TextVertex{}))
	overlayFontSize  = 16
)

type Options struct {
	VSync        bool
	SampleCount  uint32
	DebugOverlay bool
	// SurfaceSize reports the framebuffer size in physical pixels. When the
	// render size is smaller, the scene is drawn offscreen and stretched.
	// Nil means the surface always matches the render size.
	SurfaceSize func() (width, height int)
}

// Renderer owns the WebGPU device, the window surface and the passes that
// draw the lattice and the debug overlay.
type Renderer struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	DepthTexture *wgpu.Texture
	DepthView    *wgpu.TextureView
	MSAATexture  *wgpu.Texture
	MSAAView     *wgpu.TextureView
	SceneTexture *wgpu.Texture
	SceneView    *wgpu.TextureView

	Lattice *LatticePass
	Text    *TextPass
	Blit    *BlitPass

	renderW, renderH int
	surfaceSize      func() (int, int)
	sampleCount      uint32
	log              cubesketch.Logger
}

// NewRenderer acquires an adapter and device for the surface described by
// desc and builds all pipelines. Failures are wrapped in ErrRendererInit.
func NewRenderer(desc *wgpu.SurfaceDescriptor, width, height int, opts Options, log cubesketch.Logger) (*Renderer, error) {
	r := &Renderer{
		renderW:     max(width, 1),
		renderH:     max(height, 1),
		surfaceSize: opts.SurfaceSize,
		sampleCount: opts.SampleCount,
		log:         cubesketch.OrNop(log),
	}
	if r.sampleCount == 0 {
		r.sampleCount = 1
	}
	if err := r.init(desc, width, height, opts); err != nil {
		r.Close()
		return nil, fmt.Errorf("%w: %w", ErrRendererInit, err)
	}
	return r, nil
}

func (r *Renderer) init(desc *wgpu.SurfaceDescriptor, width, height int, opts Options) error {
	if err := shaders.ValidateAll(); err != nil {
		if !errors.Is(err, shaders.ErrValidatorUnsupported) {
			return err
		}
		r.log.Debugf("Offline shader validation skipped: %v", err)
	}

	r.Instance = wgpu.CreateInstance(nil)
	r.Surface = r.Instance.CreateSurface(desc)
	if r.Surface == nil {
		return errors.New("surface creation failed")
	}

	adapter, err := r.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	r.Adapter = adapter

	r.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Sketch Device",
	})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	r.Queue = r.Device.GetQueue()

	caps := r.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return errors.New("surface reports no formats")
	}

	sw, sh := surfaceExtent(r.renderW, r.renderH, r.surfaceSize)
	r.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(sw),
		Height:      uint32(sh),
		PresentMode: choosePresentMode(opts.VSync, caps.PresentModes),
		AlphaMode:   caps.AlphaModes[0],
	}
	r.Surface.Configure(r.Adapter, r.Device, r.Config)

	r.Lattice, err = NewLatticePass(r.Device, r.Config.Format, r.sampleCount)
	if err != nil {
		return err
	}

	if opts.DebugOverlay {
		r.Text, err = NewTextPass(r.Device, r.Queue, r.Config.Format, r.sampleCount, overlayFontSize)
		if err != nil {
			// The overlay is optional; the lattice still draws without it.
			r.log.Warnf("Debug overlay disabled: %v", err)
			r.Text = nil
		}
	}

	r.Blit, err = NewBlitPass(r.Device, r.Config.Format)
	if err != nil {
		return err
	}

	if err := r.setupTargets(); err != nil {
		return err
	}

	r.log.Infof("Renderer ready: render %dx%d surface %dx%d format=%v present=%v msaa=%d",
		r.renderW, r.renderH, r.Config.Width, r.Config.Height, r.Config.Format, r.Config.PresentMode, r.sampleCount)
	return nil
}

// upscaling reports whether the scene is drawn offscreen and stretched
// onto a larger surface.
func (r *Renderer) upscaling() bool {
	return r.renderW != int(r.Config.Width) || r.renderH != int(r.Config.Height)
}

// setupTargets (re)creates the depth, multisample and offscreen scene
// attachments at the current render size.
func (r *Renderer) setupTargets() error {
	r.releaseTargets()

	size := wgpu.Extent3D{Width: uint32(r.renderW), Height: uint32(r.renderH), DepthOrArrayLayers: 1}

	var err error
	r.DepthTexture, err = r.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   r.sampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("depth texture: %w", err)
	}
	r.DepthView, err = r.DepthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("depth view: %w", err)
	}

	if r.sampleCount > 1 {
		r.MSAATexture, err = r.Device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Color",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   r.sampleCount,
			Dimension:     wgpu.TextureDimension2D,
			Format:        r.Config.Format,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("msaa texture: %w", err)
		}
		r.MSAAView, err = r.MSAATexture.CreateView(nil)
		if err != nil {
			return fmt.Errorf("msaa view: %w", err)
		}
	}

	if r.upscaling() {
		r.SceneTexture, err = r.Device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "Scene",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        r.Config.Format,
			Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		})
		if err != nil {
			return fmt.Errorf("scene texture: %w", err)
		}
		r.SceneView, err = r.SceneTexture.CreateView(nil)
		if err != nil {
			return fmt.Errorf("scene view: %w", err)
		}
		if err := r.Blit.SetSource(r.SceneView); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) releaseTargets() {
	if r.DepthView != nil {
		r.DepthView.Release()
		r.DepthView = nil
	}
	if r.DepthTexture != nil {
		r.DepthTexture.Release()
		r.DepthTexture = nil
	}
	if r.MSAAView != nil {
		r.MSAAView.Release()
		r.MSAAView = nil
	}
	if r.MSAATexture != nil {
		r.MSAATexture.Release()
		r.MSAATexture = nil
	}
	if r.SceneView != nil {
		r.SceneView.Release()
		r.SceneView = nil
	}
	if r.SceneTexture != nil {
		r.SceneTexture.Release()
		r.SceneTexture = nil
	}
}

// Resize sets the render size in physical pixels. The surface always
// follows the framebuffer, since drivers reject a swapchain smaller than
// the window. A zero size (a minimised window) is ignored.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	sw, sh := surfaceExtent(width, height, r.surfaceSize)
	if r.renderW == width && r.renderH == height &&
		int(r.Config.Width) == sw && int(r.Config.Height) == sh && r.DepthView != nil {
		return nil
	}
	r.renderW, r.renderH = width, height
	if int(r.Config.Width) != sw || int(r.Config.Height) != sh {
		r.Config.Width = uint32(sw)
		r.Config.Height = uint32(sh)
		r.Surface.Configure(r.Adapter, r.Device, r.Config)
	}
	return r.setupTargets()
}

// surfaceExtent is the framebuffer size when known, else the render size.
func surfaceExtent(renderW, renderH int, framebuffer func() (int, int)) (int, int) {
	if framebuffer == nil {
		return renderW, renderH
	}
	fw, fh := framebuffer()
	if fw <= 0 || fh <= 0 {
		return renderW, renderH
	}
	return fw, fh
}

func (r *Renderer) UploadLattice(geom *core.BoxGeometry, instances []core.LatticeInstance) error {
	return r.Lattice.Upload(geom, instances)
}

// Draw encodes one render pass: clear, lattice, then the overlay if any.
func (r *Renderer) Draw(frame *core.FrameUniforms, overlay []core.TextItem) error {
	if err := r.Lattice.Update(r.Queue, frame); err != nil {
		return fmt.Errorf("write frame uniforms: %w", err)
	}
	if r.Text != nil {
		if err := r.Text.Update(r.Queue, overlay, r.renderW, r.renderH); err != nil {
			r.log.Warnf("Overlay update failed: %v", err)
		}
	}

	nextTexture, err := r.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := r.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	target := view
	if r.SceneView != nil {
		target = r.SceneView
	}
	color := wgpu.RenderPassColorAttachment{
		View:       target,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: wgpu.Color{0, 0, 0, 0},
	}
	if r.MSAAView != nil {
		color.View = r.MSAAView
		color.ResolveTarget = target
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	r.Lattice.Draw(pass)
	if r.Text != nil {
		r.Text.Draw(pass)
	}
	if err := pass.End(); err != nil {
		pass.Release()
		return fmt.Errorf("render pass end: %w", err)
	}
	pass.Release()

	if r.SceneView != nil {
		blit := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{0, 0, 0, 0},
			}},
		})
		r.Blit.Draw(blit)
		if err := blit.End(); err != nil {
			blit.Release()
			return fmt.Errorf("blit pass end: %w", err)
		}
		blit.Release()
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()

	r.Queue.Submit(cmd)
	r.Surface.Present()
	return nil
}

// Close releases GPU objects in reverse order of creation. Safe on a
// partially initialised renderer.
func (r *Renderer) Close() {
	r.releaseTargets()
	if r.Blit != nil {
		r.Blit.Release()
		r.Blit = nil
	}
	if r.Text != nil {
		r.Text.Release()
		r.Text = nil
	}
	if r.Lattice != nil {
		r.Lattice.Release()
		r.Lattice = nil
	}
	if r.Queue != nil {
		r.Queue.Release()
		r.Queue = nil
	}
	if r.Device != nil {
		r.Device.Release()
		r.Device = nil
	}
	if r.Adapter != nil {
		r.Adapter.Release()
		r.Adapter = nil
	}
	if r.Surface != nil {
		r.Surface.Release()
		r.Surface = nil
	}
	if r.Instance != nil {
		r.Instance.Release()
		r.Instance = nil
	}
}

// choosePresentMode prefers Fifo (vsync, always supported). Without vsync
// it takes Immediate, then Mailbox, when the surface offers them.
func choosePresentMode(vsync bool, available []wgpu.PresentMode) wgpu.PresentMode {
	if vsync {
		return wgpu.PresentModeFifo
	}
	for _, m := range []wgpu.PresentMode{wgpu.PresentModeImmediate, wgpu.PresentModeMailbox} {
		if slices.Contains(available, m) {
			return m
		}
	}
	return wgpu.PresentModeFifo
}
