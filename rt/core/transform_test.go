package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	assert.True(t, Identity().Matrix().ApproxEqual(mgl32.Ident4()))
}

func TestTilt(t *testing.T) {
	angle := float32(math.Pi * 0.25)
	m := Tilt(angle, angle).Matrix()

	want := mgl32.HomogRotate3DX(angle).Mul4(mgl32.HomogRotate3DY(angle))
	assert.InDeltaSlice(t, want[:], m[:], 1e-5)

	// Rotation keeps lengths.
	p := m.Mul4x1(mgl32.Vec4{6.75, 6.75, 6.75, 1}).Vec3()
	assert.InDelta(t, mgl32.Vec3{6.75, 6.75, 6.75}.Len(), p.Len(), 1e-4)
}

func TestTransform_TRS(t *testing.T) {
	tr := Identity()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}

	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.True(t, p.ApproxEqual(mgl32.Vec3{3, 2, 3}))
}
