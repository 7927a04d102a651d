package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// MouseButton identifies the pointer button held during a drag.
type MouseButton int

const (
	// MouseButtonLeft orbits the camera.
	MouseButtonLeft MouseButton = iota
	// MouseButtonRight pans the camera.
	MouseButtonRight
	// MouseButtonMiddle is reported but unbound by the viewer.
	MouseButtonMiddle
)

// Window defines the interface for a platform window that hosts the WebGPU surface and
// delivers input events. All callbacks run on the thread that calls ProcessMessages.
type Window interface {
	// SetUpdateCallback registers the function called once per iteration of the message loop,
	// after pending events have been processed.
	//
	// Parameters:
	//   - callback: the per-iteration function
	SetUpdateCallback(callback func())

	// SetResizeCallback registers the function called when the framebuffer size changes.
	// Sizes are in pixels and may be zero while the window is minimized.
	//
	// Parameters:
	//   - callback: receives the new framebuffer width and height
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback registers the function called on vertical scroll.
	//
	// Parameters:
	//   - callback: receives the scroll delta; positive scrolls away from the user
	SetScrollCallback(callback func(delta float32))

	// SetCharCallback registers the function called for each typed character.
	// Key repeat delivers the character again.
	//
	// Parameters:
	//   - callback: receives the typed character
	SetCharCallback(callback func(r rune))

	// SetDragCallback registers the function called when the pointer moves with a button held.
	//
	// Parameters:
	//   - callback: receives the held button and the movement in pixels since the last event
	SetDragCallback(callback func(button MouseButton, dx, dy float32))

	// SurfaceDescriptor returns the descriptor used to create the WebGPU surface for this window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform surface descriptor, nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open and has not been asked to close.
	IsRunning() bool

	// Close destroys the window and terminates the platform library. Safe to call more than once.
	//
	// Returns:
	//   - error: error if the platform failed to tear down
	Close() error

	// ProcessMessages runs the message loop until the window closes: each iteration polls
	// events and then invokes the update callback.
	ProcessMessages()

	// RequestClose asks the message loop to exit after the current iteration.
	RequestClose()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	width  int
	height int

	internalWindow any

	// drag state
	dragging   bool
	dragButton MouseButton
	lastX      float64
	lastY      float64

	onUpdate func()
	onResize func(width, height int)
	onScroll func(delta float32)
	onChar   func(r rune)
	onDrag   func(button MouseButton, dx, dy float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a platform window.
// Defaults: 1280x720, resizable between 320x240 and 3840x2160.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the newly created window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "oxy-viewer",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetCharCallback(callback func(r rune)) {
	w.onChar = callback
}

func (w *engineWindow) SetDragCallback(callback func(button MouseButton, dx, dy float32)) {
	w.onDrag = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// beginDrag starts tracking a drag for button at the given cursor position.
// A second button pressed mid-drag is ignored until the first is released.
func (w *engineWindow) beginDrag(button MouseButton, x, y float64) {
	if w.dragging {
		return
	}
	w.dragging = true
	w.dragButton = button
	w.lastX = x
	w.lastY = y
}

// endDrag stops tracking when the button that started the drag is released.
func (w *engineWindow) endDrag(button MouseButton) {
	if w.dragging && w.dragButton == button {
		w.dragging = false
	}
}

// moveCursor reports the movement since the last cursor event while a drag is active.
func (w *engineWindow) moveCursor(x, y float64) {
	if !w.dragging {
		return
	}
	dx := float32(x - w.lastX)
	dy := float32(y - w.lastY)
	w.lastX = x
	w.lastY = y
	if w.onDrag != nil && (dx != 0 || dy != 0) {
		w.onDrag(w.dragButton, dx, dy)
	}
}
