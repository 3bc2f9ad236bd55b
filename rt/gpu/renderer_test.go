package gpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestChoosePresentMode(t *testing.T) {
	tests := []struct {
		name      string
		vsync     bool
		available []wgpu.PresentMode
		want      wgpu.PresentMode
	}{
		{"vsync ignores others", true, []wgpu.PresentMode{wgpu.PresentModeImmediate}, wgpu.PresentModeFifo},
		{"immediate preferred", false, []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeMailbox, wgpu.PresentModeImmediate}, wgpu.PresentModeImmediate},
		{"mailbox fallback", false, []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeMailbox}, wgpu.PresentModeMailbox},
		{"fifo only", false, []wgpu.PresentMode{wgpu.PresentModeFifo}, wgpu.PresentModeFifo},
		{"nothing reported", false, nil, wgpu.PresentModeFifo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, choosePresentMode(tt.vsync, tt.available))
		})
	}
}

func TestVertexStrides(t *testing.T) {
	// Attribute offsets in the pipelines assume these layouts.
	assert.Equal(t, uint64(32), textVertexStride)
}

func TestSurfaceExtent(t *testing.T) {
	fixed := func(w, h int) func() (int, int) {
		return func() (int, int) { return w, h }
	}
	tests := []struct {
		name         string
		framebuffer  func() (int, int)
		wantW, wantH int
	}{
		{"no framebuffer source", nil, 1600, 1200},
		{"matches render size", fixed(1600, 1200), 1600, 1200},
		// A ratio-3 display keeps its full framebuffer; the capped scene is stretched.
		{"larger framebuffer", fixed(2400, 1800), 2400, 1800},
		{"minimised framebuffer", fixed(0, 0), 1600, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := surfaceExtent(1600, 1200, tt.framebuffer)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestRenderer_Upscaling(t *testing.T) {
	r := &Renderer{renderW: 1600, renderH: 1200, Config: &wgpu.SurfaceConfiguration{Width: 1600, Height: 1200}}
	assert.False(t, r.upscaling())

	r.Config.Width, r.Config.Height = 2400, 1800
	assert.True(t, r.upscaling())
}

// Constructors release whatever they built when a later step fails, which
// means Release must cope with partially built passes.
func TestPasses_ReleasePartial(t *testing.T) {
	assert.NotPanics(t, func() {
		(&LatticePass{}).Release()
		(&TextPass{}).Release()
		(&BlitPass{}).Release()

		var lp *LatticePass
		lp.Release()
		var tp *TextPass
		tp.Release()
		var bp *BlitPass
		bp.Release()
	})
}

func TestRenderer_ClosePartial(t *testing.T) {
	assert.NotPanics(t, func() {
		(&Renderer{}).Close()
	})
}
