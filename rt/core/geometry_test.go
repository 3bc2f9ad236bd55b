package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoxGeometry_Counts(t *testing.T) {
	g := NewBoxGeometry(1)
	require.Len(t, g.Vertices, 24)
	require.Len(t, g.Indices, 36)
	assert.Equal(t, uint32(36), g.IndexCount())
	assert.Equal(t, uint64(24), BoxVertexStride)

	for _, v := range g.Vertices {
		for _, c := range v.Position {
			assert.InDelta(t, 0.5, mgl32.Abs(c), 1e-6)
		}
	}
}

func TestNewBoxGeometry_OutwardWinding(t *testing.T) {
	g := NewBoxGeometry(1)

	for i := 0; i < len(g.Indices); i += 3 {
		a := mgl32.Vec3(g.Vertices[g.Indices[i]].Position)
		b := mgl32.Vec3(g.Vertices[g.Indices[i+1]].Position)
		c := mgl32.Vec3(g.Vertices[g.Indices[i+2]].Position)
		n := mgl32.Vec3(g.Vertices[g.Indices[i]].Normal)

		face := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, face.Dot(n), float32(0), "triangle %d winds inward", i/3)
		// The face centroid lies on the normal's side of the origin.
		assert.Greater(t, a.Add(b).Add(c).Dot(n), float32(0))
	}
}

func TestNewBoxGeometry_Size(t *testing.T) {
	g := NewBoxGeometry(3)
	for _, v := range g.Vertices {
		for _, c := range v.Position {
			assert.InDelta(t, 1.5, mgl32.Abs(c), 1e-6)
		}
	}
}
