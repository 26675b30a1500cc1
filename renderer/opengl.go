package renderer

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/lumen-render/lumen/scene"
	"github.com/lumen-render/lumen/tracer"
	"github.com/lumen-render/lumen/types"
)

const (
	// Coefficients for converting cursor deltas to yaw/pitch angles
	// and scroll deltas to zoom steps.
	mouseSensitivity float32 = 0.003
	scrollZoomStep   float32 = 0.001

	// Camera movement per key press.
	cameraMoveStep float32 = 0.1

	// Zoom per Z/X key press.
	keyZoomStep float32 = 0.1
)

// An interactive opengl-based renderer. Every camera interaction
// restarts accumulation; holding still lets the image refine.
type interactiveGLRenderer struct {
	*Default

	// opengl handles
	window *glfw.Window
	texFbo uint32

	// input state
	lastCursorPos types.Vec2
	mousePressed  bool
}

// NewInteractive creates a windowed renderer that progressively
// refines the view and resets accumulation on camera motion.
func NewInteractive(cam *scene.Camera, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options) (Renderer, error) {
	base, err := NewDefault(cam, scheduler, tracers, opts)
	if err != nil {
		return nil, err
	}

	r := &interactiveGLRenderer{Default: base}
	if err = r.initGL(opts); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

func (r *interactiveGLRenderer) Close() {
	if r.window != nil {
		r.window.SetShouldClose(true)
		glfw.Terminate()
		r.window = nil
	}
	r.Default.Close()
}

func (r *interactiveGLRenderer) initGL(opts Options) error {
	// The GL context is bound to the calling thread for the lifetime
	// of the window.
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %s", err.Error())
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(int(opts.FrameW), int(opts.FrameH), "lumen", nil, nil)
	if err != nil {
		return fmt.Errorf("could not create opengl window: %s", err.Error())
	}
	r.window = window
	r.window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		return fmt.Errorf("could not init opengl: %s", err.Error())
	}

	// Setup texture for frame buffer data.
	var fbTexture uint32
	gl.GenTextures(1, &fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fbTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(opts.FrameW), int32(opts.FrameH), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO.
	gl.GenFramebuffers(1, &r.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// Bind event callbacks.
	r.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	r.window.SetKeyCallback(r.onKeyEvent)
	r.window.SetMouseButtonCallback(r.onMouseEvent)
	r.window.SetCursorPosCallback(r.onCursorPosEvent)
	r.window.SetScrollCallback(r.onScrollEvent)

	return nil
}

func (r *interactiveGLRenderer) Render() error {
	frameW := int32(r.options.FrameW)
	frameH := int32(r.options.FrameH)

	for !r.window.ShouldClose() {
		glfw.PollEvents()

		// Don't render if the sample budget for this viewpoint has
		// been reached; keep the window responsive.
		if r.options.SamplesPerPixel != 0 && r.FrameCount() >= r.options.SamplesPerPixel {
			continue
		}

		if err := r.Default.Render(); err != nil {
			return err
		}

		// Upload frame data and blit it flipped so the first buffer
		// row lands at the top of the window.
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, frameW, frameH, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(r.FrameBuffer()))
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
		gl.BlitFramebuffer(0, frameH, frameW, 0, 0, 0, frameW, frameH, gl.COLOR_BUFFER_BIT, gl.LINEAR)
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

		r.window.SwapBuffers()
	}
	return nil
}

func (r *interactiveGLRenderer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	cam := r.Camera()
	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
		return
	case glfw.KeyW:
		cam.Move(scene.Forward, cameraMoveStep)
	case glfw.KeyS:
		cam.Move(scene.Backward, cameraMoveStep)
	case glfw.KeyA:
		cam.Move(scene.Left, cameraMoveStep)
	case glfw.KeyD:
		cam.Move(scene.Right, cameraMoveStep)
	case glfw.KeyZ:
		cam.Zoom(keyZoomStep)
	case glfw.KeyX:
		cam.Zoom(-keyZoomStep)
	default:
		return
	}

	r.UpdateCamera()
}

func (r *interactiveGLRenderer) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	if action == glfw.Press {
		xPos, yPos := w.GetCursorPos()
		r.lastCursorPos = types.XY(float32(xPos), float32(yPos))
		r.mousePressed = true
	} else {
		r.mousePressed = false
	}
}

func (r *interactiveGLRenderer) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	if !r.mousePressed {
		return
	}

	newPos := types.XY(float32(xPos), float32(yPos))
	delta := r.lastCursorPos.Sub(newPos)
	r.lastCursorPos = newPos

	r.Camera().Rotate(delta[0]*mouseSensitivity, delta[1]*mouseSensitivity)
	r.UpdateCamera()
}

func (r *interactiveGLRenderer) onScrollEvent(w *glfw.Window, xOff, yOff float64) {
	r.Camera().Zoom(float32(yOff) * scrollZoomStep * 10)
	r.UpdateCamera()
}
