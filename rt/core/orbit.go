package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	orbitEpsilon   = 1e-6
	maxElevation   = math.Pi/2 - 1e-4
	zoomStep       = 0.95
	defaultMinZoom = 0.1
	defaultMaxZoom = 10
)

// OrbitControls orbits a camera around Target on a sphere. Pointer drags
// accumulate angular velocity; Advance integrates it once per frame and
// decays it by DampingFactor so motion eases out instead of stopping.
type OrbitControls struct {
	Target    mgl32.Vec3
	Azimuth   float32
	Elevation float32
	Distance  float32
	Zoom      float32

	MinZoom       float32
	MaxZoom       float32
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32

	deltaAzimuth   float32
	deltaElevation float32

	dragging     bool
	lastX, lastY float64
	viewHeight   float32
}

// NewOrbitControls places the camera at distance along +Z from the origin.
func NewOrbitControls(distance, damping float32) *OrbitControls {
	return &OrbitControls{
		Distance:      distance,
		Zoom:          1,
		MinZoom:       defaultMinZoom,
		MaxZoom:       defaultMaxZoom,
		DampingFactor: damping,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		viewHeight:    1,
	}
}

// SetViewHeight sets the logical height used to turn pixel drags into
// angles: a drag across the full height is one full turn.
func (c *OrbitControls) SetViewHeight(h int) {
	if h > 0 {
		c.viewHeight = float32(h)
	}
}

func (c *OrbitControls) PointerDown(x, y float64) {
	c.dragging = true
	c.lastX, c.lastY = x, y
}

func (c *OrbitControls) PointerUp() {
	c.dragging = false
}

func (c *OrbitControls) Dragging() bool {
	return c.dragging
}

func (c *OrbitControls) PointerMove(x, y float64) {
	if !c.dragging {
		return
	}
	dx := float32(x - c.lastX)
	dy := float32(y - c.lastY)
	c.lastX, c.lastY = x, y

	turn := 2 * math.Pi * c.RotateSpeed / c.viewHeight
	c.deltaAzimuth -= dx * turn
	c.deltaElevation += dy * turn
}

// Scroll zooms in for positive offsets. Zoom is applied immediately.
func (c *OrbitControls) Scroll(yoff float64) {
	if yoff == 0 {
		return
	}
	scale := float32(math.Pow(zoomStep, float64(c.ZoomSpeed)))
	if yoff > 0 {
		c.Zoom /= scale
	} else {
		c.Zoom *= scale
	}
	c.Zoom = mgl32.Clamp(c.Zoom, c.MinZoom, c.MaxZoom)
}

// Advance integrates one frame of pending rotation. It must run exactly once
// before each draw. It reports whether the camera moved.
func (c *OrbitControls) Advance() bool {
	stepAz := c.deltaAzimuth * c.DampingFactor
	stepEl := c.deltaElevation * c.DampingFactor

	prevEl := c.Elevation
	c.Azimuth += stepAz
	c.Elevation = mgl32.Clamp(c.Elevation+stepEl, -maxElevation, maxElevation)

	c.deltaAzimuth *= 1 - c.DampingFactor
	c.deltaElevation *= 1 - c.DampingFactor
	if mgl32.Abs(c.deltaAzimuth) < orbitEpsilon {
		c.deltaAzimuth = 0
	}
	if mgl32.Abs(c.deltaElevation) < orbitEpsilon {
		c.deltaElevation = 0
	}

	return mgl32.Abs(stepAz) > orbitEpsilon || mgl32.Abs(c.Elevation-prevEl) > orbitEpsilon
}

// Settled reports that no rotation is pending.
func (c *OrbitControls) Settled() bool {
	return c.deltaAzimuth == 0 && c.deltaElevation == 0
}

func (c *OrbitControls) Eye() mgl32.Vec3 {
	az := float64(c.Azimuth)
	el := float64(c.Elevation)
	d := float64(c.Distance)
	return c.Target.Add(mgl32.Vec3{
		float32(d * math.Cos(el) * math.Sin(az)),
		float32(d * math.Sin(el)),
		float32(d * math.Cos(el) * math.Cos(az)),
	})
}

func (c *OrbitControls) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}
