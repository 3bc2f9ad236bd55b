package core

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// FrameUniforms mirrors the WGSL Frame struct. WGSL rounds the struct up to
// 16-byte alignment, hence the padding after Time.
type FrameUniforms struct {
	ViewProj mgl32.Mat4
	Model    mgl32.Mat4
	Time     float32
	_        [3]float32
}

const FrameUniformsSize = uint64(unsafe.Sizeof(FrameUniforms{}))

func (u *FrameUniforms) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), FrameUniformsSize)
}
