package platform

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GLFW window without a client API, ready to back a WebGPU
// surface. All methods must be called from the main OS thread.
type Window struct {
	win *glfw.Window
}

func NewWindow(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // WebGPU owns the surface, not OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &Window{win: win}
	win.SetKeyCallback(func(gw *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.SetShouldClose(true)
		}
	})
	return w, nil
}

// Size is the window size in screen coordinates.
func (w *Window) Size() (int, int) {
	return w.win.GetSize()
}

// FramebufferSize is the window size in physical pixels.
func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// PixelRatio is physical pixels per screen coordinate. It falls back to the
// monitor content scale while the window has no size.
func (w *Window) PixelRatio() float32 {
	ww, _ := w.win.GetSize()
	fw, _ := w.win.GetFramebufferSize()
	if ww > 0 && fw > 0 {
		return float32(fw) / float32(ww)
	}
	sx, _ := w.win.GetContentScale()
	return sx
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

// OnResize reports the window size in screen coordinates. It also fires
// when the window moves to a monitor with a different content scale, since
// the framebuffer changes size without the window doing so.
func (w *Window) OnResize(fn func(width, height int)) {
	w.win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		fn(width, height)
	})
	w.win.SetContentScaleCallback(func(gw *glfw.Window, _, _ float32) {
		fn(gw.GetSize())
	})
}

// OnPointer wires the left mouse button, cursor motion and the vertical
// scroll wheel.
func (w *Window) OnPointer(down func(x, y float64), move func(x, y float64), up func(), scroll func(yoff float64)) {
	w.win.SetMouseButtonCallback(func(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			down(gw.GetCursorPos())
		case glfw.Release:
			up()
		}
	})
	w.win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		move(xpos, ypos)
	})
	w.win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		scroll(yoff)
	})
}

// Close destroys the window and shuts GLFW down.
func (w *Window) Close() {
	if w.win != nil {
		w.win.Destroy()
		w.win = nil
	}
	glfw.Terminate()
}
