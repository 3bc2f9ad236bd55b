package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewViewport(t *testing.T) {
	tests := []struct {
		name           string
		w, h           int
		dpr            float32
		wantRatio      float32
		wantPW, wantPH int
		wantAspect     float32
	}{
		{"full hd", 1920, 1080, 1, 1, 1920, 1080, 1920.0 / 1080.0},
		{"retina", 1280, 720, 2, 2, 2560, 1440, 1280.0 / 720.0},
		{"capped", 800, 600, 3, 2, 1600, 1200, 800.0 / 600.0},
		{"fractional", 1000, 500, 1.25, 1.25, 1250, 625, 2},
		{"no ratio reported", 640, 480, 0, 1, 640, 480, 640.0 / 480.0},
		{"minimised", 0, 0, 1, 1, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(tt.w, tt.h, tt.dpr, 2)
			assert.Equal(t, tt.wantRatio, v.PixelRatio)
			assert.Equal(t, tt.wantPW, v.PixelWidth)
			assert.Equal(t, tt.wantPH, v.PixelHeight)
			assert.InDelta(t, tt.wantAspect, v.Aspect, 1e-6)
		})
	}

	assert.True(t, NewViewport(0, 0, 1, 2).Empty())
	assert.False(t, NewViewport(1, 1, 1, 2).Empty())
}

func TestNewOrthoProjection(t *testing.T) {
	p := NewOrthoProjection(18, 1920.0/1080.0, 0.1, 100)
	assert.InDelta(t, 32.0, p.Right, 1e-4)
	assert.InDelta(t, -32.0, p.Left, 1e-4)
	assert.Equal(t, float32(18), p.Top)
	assert.Equal(t, float32(-18), p.Bottom)
	assert.Equal(t, float32(0.1), p.Near)
	assert.Equal(t, float32(100), p.Far)
	assert.Equal(t, float32(1), p.Zoom)

	again := NewOrthoProjection(18, 1920.0/1080.0, 0.1, 100)
	assert.Equal(t, p, again)
}

func TestOrthoProjection_Matrix(t *testing.T) {
	p := NewOrthoProjection(18, 2, 0.1, 100)
	m := p.Matrix()

	// Right/top edges map to +1 in x/y.
	corner := m.Mul4x1(mgl32.Vec4{36, 18, -50, 1})
	assert.InDelta(t, 1.0, corner.X(), 1e-5)
	assert.InDelta(t, 1.0, corner.Y(), 1e-5)

	// Near plane maps to depth 0, far plane to 1.
	near := m.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := m.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 0.0, near.Z(), 1e-5)
	assert.InDelta(t, 1.0, far.Z(), 1e-5)
}

func TestOrthoProjection_Zoom(t *testing.T) {
	p := NewOrthoProjection(18, 1, 0.1, 100).WithZoom(2)
	m := p.Matrix()

	edge := m.Mul4x1(mgl32.Vec4{9, 9, -1, 1})
	assert.InDelta(t, 1.0, edge.X(), 1e-5)
	assert.InDelta(t, 1.0, edge.Y(), 1e-5)

	// Non-positive zoom falls back to 1.
	assert.Equal(t, NewOrthoProjection(18, 1, 0.1, 100).Matrix(), p.WithZoom(0).Matrix())
}
