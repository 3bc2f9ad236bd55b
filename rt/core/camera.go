package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Viewport is the window size in logical units plus the pixel ratio used
// for the render surface.
type Viewport struct {
	Width       int
	Height      int
	PixelRatio  float32
	PixelWidth  int
	PixelHeight int
	Aspect      float32
}

// NewViewport caps devicePixelRatio at maxRatio. A zero height (minimised
// window) yields aspect 1.
func NewViewport(width, height int, devicePixelRatio, maxRatio float32) Viewport {
	ratio := devicePixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	if ratio > maxRatio {
		ratio = maxRatio
	}

	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}

	return Viewport{
		Width:       width,
		Height:      height,
		PixelRatio:  ratio,
		PixelWidth:  int(math.Round(float64(float32(width) * ratio))),
		PixelHeight: int(math.Round(float64(float32(height) * ratio))),
		Aspect:      aspect,
	}
}

func (v Viewport) Empty() bool {
	return v.PixelWidth <= 0 || v.PixelHeight <= 0
}

// OrthoProjection describes an orthographic view volume. It is a value:
// a resize builds a new one instead of patching fields in place.
type OrthoProjection struct {
	Left, Right float32
	Top, Bottom float32
	Near, Far   float32
	Zoom        float32
}

// NewOrthoProjection keeps the vertical half-extent at wide and lets the
// horizontal half-extent follow the aspect ratio.
func NewOrthoProjection(wide, aspect, near, far float32) OrthoProjection {
	return OrthoProjection{
		Left:   -wide * aspect,
		Right:  wide * aspect,
		Top:    wide,
		Bottom: -wide,
		Near:   near,
		Far:    far,
		Zoom:   1,
	}
}

func (p OrthoProjection) WithZoom(zoom float32) OrthoProjection {
	p.Zoom = zoom
	return p
}

// glToWebGPU remaps clip-space depth from [-1, 1] to [0, 1].
var glToWebGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Matrix returns the projection for WebGPU clip space. Zoom shrinks the
// volume around its centre.
func (p OrthoProjection) Matrix() mgl32.Mat4 {
	zoom := p.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	dx := (p.Right - p.Left) / (2 * zoom)
	dy := (p.Top - p.Bottom) / (2 * zoom)
	cx := (p.Right + p.Left) / 2
	cy := (p.Top + p.Bottom) / 2

	return glToWebGPU.Mul4(mgl32.Ortho(cx-dx, cx+dx, cy-dy, cy+dy, p.Near, p.Far))
}
