package core

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// BoxVertex matches the WGSL per-vertex attributes (position at location 0,
// normal at location 1).
type BoxVertex struct {
	Position [3]float32
	Normal   [3]float32
}

const BoxVertexStride = uint64(unsafe.Sizeof(BoxVertex{}))

// BoxGeometry is an indexed axis-aligned box centred on the origin.
type BoxGeometry struct {
	Vertices []BoxVertex
	Indices  []uint16
}

// NewBoxGeometry builds a cube with edge length size: four vertices per
// face so each face keeps its own normal, two CCW triangles per face.
func NewBoxGeometry(size float32) *BoxGeometry {
	g := &BoxGeometry{
		Vertices: make([]BoxVertex, 0, 24),
		Indices:  make([]uint16, 0, 36),
	}

	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}

	h := size / 2
	for _, f := range faces {
		base := uint16(len(g.Vertices))
		center := f.normal.Mul(h)
		corners := [4]mgl32.Vec3{
			center.Sub(f.u.Mul(h)).Sub(f.v.Mul(h)),
			center.Add(f.u.Mul(h)).Sub(f.v.Mul(h)),
			center.Add(f.u.Mul(h)).Add(f.v.Mul(h)),
			center.Sub(f.u.Mul(h)).Add(f.v.Mul(h)),
		}
		for _, c := range corners {
			g.Vertices = append(g.Vertices, BoxVertex{
				Position: [3]float32{c.X(), c.Y(), c.Z()},
				Normal:   [3]float32{f.normal.X(), f.normal.Y(), f.normal.Z()},
			})
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

func (g *BoxGeometry) IndexCount() uint32 {
	return uint32(len(g.Indices))
}
