package core

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// LatticeInstance matches the WGSL per-instance attributes
// (a_position at location 2, a_index at location 3).
type LatticeInstance struct {
	Position [3]float32
	Index    float32
}

const LatticeInstanceStride = uint64(unsafe.Sizeof(LatticeInstance{}))

// Lattice is an n×n×n grid of instance offsets centred on the origin.
type Lattice struct {
	Size      int
	Padding   float32
	Positions []mgl32.Vec3
	Indices   []float32
}

// BuildLattice lays instances out with y outermost, then x, then z. Index i
// is the i-th instance generated, so the index to position mapping seen by
// the shader depends on that order.
func BuildLattice(n int, padding float32) *Lattice {
	if n <= 0 {
		return &Lattice{Size: 0, Padding: padding}
	}

	count := n * n * n
	l := &Lattice{
		Size:      n,
		Padding:   padding,
		Positions: make([]mgl32.Vec3, 0, count),
		Indices:   make([]float32, 0, count),
	}

	middle := float32(n-1) / 2
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			for z := 0; z < n; z++ {
				l.Positions = append(l.Positions, mgl32.Vec3{
					(float32(x) - middle) * padding,
					(float32(y) - middle) * padding,
					(float32(z) - middle) * padding,
				})
				l.Indices = append(l.Indices, float32(len(l.Indices)))
			}
		}
	}
	return l
}

func (l *Lattice) Count() int {
	return len(l.Positions)
}

// IndexAt returns the instance index of lattice coordinate (x, y, z).
func (l *Lattice) IndexAt(x, y, z int) int {
	return (y*l.Size+x)*l.Size + z
}

// Instances interleaves positions and indices into the vertex buffer layout.
func (l *Lattice) Instances() []LatticeInstance {
	out := make([]LatticeInstance, len(l.Positions))
	for i, p := range l.Positions {
		out[i] = LatticeInstance{
			Position: [3]float32{p.X(), p.Y(), p.Z()},
			Index:    l.Indices[i],
		}
	}
	return out
}

// Extent is the half-size of the lattice's bounding box, including the
// unit cubes drawn at the outermost offsets.
func (l *Lattice) Extent() float32 {
	if l.Size == 0 {
		return 0
	}
	return float32(l.Size-1)/2*l.Padding + 0.5
}
