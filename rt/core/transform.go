package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places a mesh in world space. The zero value is not usable;
// start from Identity.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Tilt is an XYZ Euler rotation with no Z component: X is applied outermost.
func Tilt(x, y float32) Transform {
	t := Identity()
	t.Rotation = mgl32.AnglesToQuat(x, y, 0, mgl32.XYZ)
	return t
}

// Matrix composes translate, rotate, scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}
