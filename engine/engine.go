package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// engine implements the Engine interface.
// All scene, camera and renderer access happens on the goroutine that calls Run or Step;
// other goroutines hand work over through Post.
type engine struct {
	postMu *sync.Mutex
	posted []func()

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	camera   camera.Camera
	viewport *viewport.State

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback     func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	now       func() time.Time
	lastTick  time.Time
	frame     uint64
	loggedErr map[string]bool
}

// Engine is the main entry point for the viewer runtime.
// It owns the single-threaded tick: posted callbacks, the tick callback, then one rendered frame.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer, or nil if none is attached.
	Renderer() renderer.Renderer

	// Scene returns the scene drawn each tick.
	Scene() scene.Scene

	// Camera returns the camera the scene is drawn from.
	Camera() camera.Camera

	// Viewport returns the drawable area shared by the renderer and the camera.
	Viewport() *viewport.State

	// Post schedules fn to run on the engine thread at the start of the next tick.
	// Safe to call from any goroutine and never blocks. Callbacks run in post order.
	// Callbacks posted after Quit are dropped.
	//
	// Parameters:
	//   - fn: the callback to run
	Post(fn func())

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called once per tick after posted callbacks
	// and before rendering. The viewer advances camera damping here.
	//
	// Parameters:
	//   - callback: receives the time since the previous tick in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Step runs exactly one tick: posted callbacks, the tick callback, camera update and render.
	// A panic inside the tick is recovered, logged and stops the engine.
	Step()

	// Run drives ticks until Quit is called or the window closes. With a window, the window's
	// message loop calls Step after polling events; without one, Step runs in a plain loop.
	// Blocks; must be called from the thread that created the window.
	Run()

	// Quit stops the loop after the current tick.
	// Safe to call multiple times and from any goroutine; subsequent calls are no-ops.
	Quit()

	// Done returns a channel closed once Quit has been called.
	Done() <-chan struct{}

	// Frame returns the number of completed ticks.
	Frame() uint64
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// When a window is attached, its framebuffer resize events update the viewport, the renderer
// surface size and the camera aspect ratio.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		postMu:      &sync.Mutex{},
		quitChannel: make(chan struct{}),
		now:         time.Now,
		loggedErr:   make(map[string]bool),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	if e.viewport == nil {
		switch {
		case e.window != nil:
			e.viewport = viewport.New(e.window.Width(), e.window.Height())
		case e.renderer != nil:
			e.viewport = viewport.New(e.renderer.Size())
		default:
			e.viewport = viewport.New(0, 0)
		}
	}
	if e.camera != nil {
		e.camera.SetAspect(e.viewport.Aspect())
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Viewport() *viewport.State {
	return e.viewport
}

func (e *engine) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-e.quitChannel:
		return
	default:
	}
	e.postMu.Lock()
	defer e.postMu.Unlock()
	e.posted = append(e.posted, fn)
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Step() {
	// Recover from panics inside the tick to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] tick recovered from panic: %v", r)
			e.Quit()
		}
	}()

	now := e.now()
	var dt float32
	if !e.lastTick.IsZero() {
		dt = float32(now.Sub(e.lastTick).Seconds())
	}
	e.lastTick = now

	for _, fn := range e.drainPosted() {
		fn()
	}

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	if e.renderer != nil && e.scene != nil && e.camera != nil {
		e.camera.Update()
		if err := e.renderer.Render(e.scene, e.camera); err != nil {
			e.logOnce(err)
		}
	}

	e.frame++

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
}

func (e *engine) Run() {
	defer e.Quit()

	if e.window == nil {
		for !e.stopped() {
			start := e.now()
			e.Step()
			e.limitFrame(start)
		}
		return
	}

	e.window.SetUpdateCallback(func() {
		if e.stopped() {
			e.window.RequestClose()
			return
		}
		start := e.now()
		e.Step()
		e.limitFrame(start)
	})
	e.window.ProcessMessages()
}

// Quit signals the loop to exit.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

func (e *engine) Frame() uint64 {
	return e.frame
}

// resize propagates a framebuffer size change. A zero size still reaches the renderer so it
// can suspend drawing, but leaves the viewport and camera aspect untouched.
func (e *engine) resize(width, height int) {
	if e.renderer != nil {
		e.renderer.SetSize(width, height)
	}
	if e.viewport.Resize(width, height) && e.camera != nil {
		e.camera.SetAspect(e.viewport.Aspect())
	}
}

// drainPosted takes ownership of every callback posted so far.
func (e *engine) drainPosted() []func() {
	e.postMu.Lock()
	defer e.postMu.Unlock()
	fns := e.posted
	e.posted = nil
	return fns
}

func (e *engine) stopped() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

// limitFrame sleeps for the rest of the frame budget when a frame limit is set.
func (e *engine) limitFrame(start time.Time) {
	if e.renderFrameLimit <= 0 {
		return
	}
	if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
		time.Sleep(remaining)
	}
}

// logOnce logs the first occurrence of each distinct render error.
func (e *engine) logOnce(err error) {
	msg := err.Error()
	if e.loggedErr[msg] {
		return
	}
	e.loggedErr[msg] = true
	log.Printf("[Engine] render error: %v", err)
}
