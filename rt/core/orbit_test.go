package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOrbitControls_DefaultEye(t *testing.T) {
	c := NewOrbitControls(20, 0.05)
	assert.True(t, c.Eye().ApproxEqual(mgl32.Vec3{0, 0, 20}))

	view := c.View()
	origin := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -20.0, origin.Z(), 1e-4)

	assert.False(t, c.Advance(), "idle controls should not move")
	assert.True(t, c.Settled())
}

func TestOrbitControls_DampedDragConverges(t *testing.T) {
	c := NewOrbitControls(20, 0.05)
	c.SetViewHeight(1000)

	c.PointerDown(100, 100)
	c.PointerMove(150, 100)
	c.PointerUp()

	want := float32(-50 * 2 * math.Pi / 1000)

	assert.True(t, c.Advance())
	first := c.Azimuth
	assert.InDelta(t, want*0.05, first, 1e-6)

	for i := 0; i < 2000 && !c.Settled(); i++ {
		c.Advance()
	}
	assert.True(t, c.Settled())
	assert.InDelta(t, want, c.Azimuth, 1e-4)
	assert.Equal(t, float32(0), c.Elevation)
}

func TestOrbitControls_StepsShrink(t *testing.T) {
	c := NewOrbitControls(20, 0.1)
	c.SetViewHeight(500)
	c.PointerDown(0, 0)
	c.PointerMove(0, 40)
	c.PointerUp()

	prev := c.Elevation
	c.Advance()
	lastStep := c.Elevation - prev
	for i := 0; i < 10; i++ {
		prev = c.Elevation
		c.Advance()
		step := c.Elevation - prev
		assert.Less(t, step, lastStep)
		assert.Greater(t, step, float32(0))
		lastStep = step
	}
}

func TestOrbitControls_MoveWithoutDragIgnored(t *testing.T) {
	c := NewOrbitControls(20, 0.05)
	c.PointerMove(300, 300)
	assert.False(t, c.Dragging())
	assert.False(t, c.Advance())
}

func TestOrbitControls_ElevationClamped(t *testing.T) {
	c := NewOrbitControls(20, 1)
	c.SetViewHeight(100)
	c.PointerDown(0, 0)
	c.PointerMove(0, 1000)
	c.Advance()

	assert.LessOrEqual(t, c.Elevation, float32(maxElevation))
	eye := c.Eye()
	assert.False(t, math.IsNaN(float64(eye.Y())))
	assert.InDelta(t, 20.0, eye.Len(), 1e-3)
}

func TestOrbitControls_Scroll(t *testing.T) {
	c := NewOrbitControls(20, 0.05)

	c.Scroll(1)
	assert.InDelta(t, 1/0.95, c.Zoom, 1e-5)
	c.Scroll(-1)
	assert.InDelta(t, 1.0, c.Zoom, 1e-5)
	c.Scroll(0)
	assert.InDelta(t, 1.0, c.Zoom, 1e-5)

	for i := 0; i < 500; i++ {
		c.Scroll(1)
	}
	assert.Equal(t, c.MaxZoom, c.Zoom)
	for i := 0; i < 500; i++ {
		c.Scroll(-1)
	}
	assert.Equal(t, c.MinZoom, c.Zoom)
}
