package cubesketch

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the window options chosen on the command line together with
// the fixed scene constants. The scene constants are not exposed as flags.
type Config struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string
	DebugMode    bool
	VSync        bool
	SampleCount  uint32

	// Lattice
	LatticeSize    int
	LatticePadding float32

	// Camera
	Wide           float32
	Near           float32
	Far            float32
	CameraDistance float32
	MaxPixelRatio  float32

	// Mesh tilt, radians about X and Y.
	TiltX float32
	TiltY float32

	// Orbit controls
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32
}

func DefaultConfig() Config {
	return Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "Cube Sketch",
		VSync:        true,
		SampleCount:  4,

		LatticeSize:    10,
		LatticePadding: 1.5,

		Wide:           18,
		Near:           0.1,
		Far:            100,
		CameraDistance: 20,
		MaxPixelRatio:  2,

		TiltX: math.Pi * 0.25,
		TiltY: math.Pi * 0.25,

		DampingFactor: 0.05,
		RotateSpeed:   1.0,
		ZoomSpeed:     1.0,
	}
}

func (c Config) Validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.WindowWidth, c.WindowHeight)
	}
	if c.SampleCount != 1 && c.SampleCount != 4 {
		return fmt.Errorf("%w: sample count %d (want 1 or 4)", ErrInvalidConfig, c.SampleCount)
	}
	if c.LatticeSize <= 0 {
		return fmt.Errorf("%w: lattice size %d", ErrInvalidConfig, c.LatticeSize)
	}
	if c.Wide <= 0 {
		return fmt.Errorf("%w: camera half-height %v", ErrInvalidConfig, c.Wide)
	}
	if c.Near <= 0 || c.Far <= c.Near {
		return fmt.Errorf("%w: clip planes [%v, %v]", ErrInvalidConfig, c.Near, c.Far)
	}
	if c.MaxPixelRatio <= 0 {
		return fmt.Errorf("%w: max pixel ratio %v", ErrInvalidConfig, c.MaxPixelRatio)
	}
	if c.DampingFactor <= 0 || c.DampingFactor > 1 {
		return fmt.Errorf("%w: damping factor %v", ErrInvalidConfig, c.DampingFactor)
	}
	return nil
}
