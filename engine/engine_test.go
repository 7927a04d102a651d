package engine

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	width, height int
	sizes         [][2]int
	renders       int
	err           func(frame int) error
	onRender      func()
}

func (f *fakeRenderer) Render(s scene.Scene, cam camera.Camera) error {
	f.renders++
	if f.onRender != nil {
		f.onRender()
	}
	if f.err != nil {
		return f.err(f.renders)
	}
	return nil
}

func (f *fakeRenderer) SetSize(width, height int) {
	f.width, f.height = width, height
	f.sizes = append(f.sizes, [2]int{width, height})
}

func (f *fakeRenderer) Size() (int, int) { return f.width, f.height }

func (f *fakeRenderer) BackendType() renderer.RendererBackendType { return renderer.BackendTypeWGPU }

func (f *fakeRenderer) Release() {}

// fakeWindow runs its update callback until asked to close or maxIterations is reached.
type fakeWindow struct {
	width, height int
	maxIterations int
	iterations    int
	closeRequests int
	running       bool

	onUpdate func()
	onResize func(width, height int)
}

func (w *fakeWindow) SetUpdateCallback(callback func()) { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetScrollCallback(func(delta float32)) {}
func (w *fakeWindow) SetCharCallback(func(r rune)) {}
func (w *fakeWindow) SetDragCallback(func(window.MouseButton, float32, float32)) {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool { return w.running }
func (w *fakeWindow) Close() error { w.running = false; return nil }
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }

func (w *fakeWindow) RequestClose() {
	w.closeRequests++
	w.running = false
}

func (w *fakeWindow) ProcessMessages() {
	w.running = true
	for w.running && w.iterations < w.maxIterations {
		w.iterations++
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func newTestEngine(r *fakeRenderer, options ...EngineBuilderOption) Engine {
	base := []EngineBuilderOption{
		WithRenderer(r),
		WithScene(scene.New()),
		WithCamera(camera.NewCamera(camera.WithController(camera.NewCameraController()))),
	}
	return NewEngine(append(base, options...)...)
}

func TestEngine_StepOrder(t *testing.T) {
	var order []string
	r := &fakeRenderer{width: 4, height: 2, onRender: func() { order = append(order, "render") }}
	e := newTestEngine(r, WithTickCallback(func(float32) { order = append(order, "tick") }))

	e.Post(func() { order = append(order, "posted-1") })
	e.Post(func() {
		order = append(order, "posted-2")
		// posted during a drain: runs on the next tick
		e.Post(func() { order = append(order, "posted-3") })
	})

	e.Step()
	assert.Equal(t, []string{"posted-1", "posted-2", "tick", "render"}, order)

	order = nil
	e.Step()
	assert.Equal(t, []string{"posted-3", "tick", "render"}, order)
	assert.Equal(t, uint64(2), e.Frame())
}

func TestEngine_TickDelta(t *testing.T) {
	now := time.Unix(100, 0)
	var deltas []float32
	e := newTestEngine(&fakeRenderer{},
		WithClock(func() time.Time { return now }),
		WithTickCallback(func(dt float32) { deltas = append(deltas, dt) }),
	)

	e.Step()
	now = now.Add(16 * time.Millisecond)
	e.Step()

	require.Len(t, deltas, 2)
	assert.Equal(t, float32(0), deltas[0])
	assert.InDelta(t, 0.016, deltas[1], 1e-6)
}

func TestEngine_PostFromGoroutines(t *testing.T) {
	e := newTestEngine(&fakeRenderer{})

	var wg sync.WaitGroup
	counts := make([]int, 4)
	for g := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				e.Post(func() { counts[g]++ })
			}
		}()
	}
	wg.Wait()

	e.Step()
	assert.Equal(t, []int{100, 100, 100, 100}, counts)
}

func TestEngine_RenderErrorsLoggedOncePerMessage(t *testing.T) {
	buf := captureLog(t)
	r := &fakeRenderer{err: func(frame int) error {
		if frame == 4 {
			return errors.New("mesh upload failed")
		}
		return errors.New("surface lost")
	}}
	e := newTestEngine(r)

	for range 5 {
		e.Step()
	}

	assert.Equal(t, 5, r.renders)
	assert.Equal(t, 1, strings.Count(buf.String(), "surface lost"))
	assert.Equal(t, 1, strings.Count(buf.String(), "mesh upload failed"))
	assert.Equal(t, uint64(5), e.Frame())
}

func TestEngine_PanicStopsEngine(t *testing.T) {
	buf := captureLog(t)
	e := newTestEngine(&fakeRenderer{}, WithTickCallback(func(float32) { panic("boom") }))

	assert.NotPanics(t, e.Step)
	assert.Contains(t, buf.String(), "[Engine] tick recovered from panic: boom")

	select {
	case <-e.Done():
	default:
		t.Fatal("engine should have stopped")
	}

	// posts after quit are dropped
	ran := false
	e.Post(func() { ran = true })
	e.Quit()
	e.Step()
	assert.False(t, ran)
}

func TestEngine_RunWithWindow(t *testing.T) {
	w := &fakeWindow{width: 800, height: 400, maxIterations: 100}
	r := &fakeRenderer{width: 800, height: 400}
	var e Engine
	e = newTestEngine(r, WithWindow(w), WithTickCallback(func(float32) {
		if e.Frame() == 2 {
			e.Quit()
		}
	}))

	e.Run()

	assert.Equal(t, 3, r.renders)
	assert.Equal(t, uint64(3), e.Frame())
	assert.Equal(t, 1, w.closeRequests)
	assert.Equal(t, 4, w.iterations)
}

func TestEngine_RunHeadless(t *testing.T) {
	r := &fakeRenderer{width: 10, height: 10}
	var e Engine
	e = newTestEngine(r, WithRenderFrameLimit(1000), WithTickCallback(func(float32) {
		if e.Frame() == 4 {
			e.Quit()
		}
	}))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("headless run did not stop")
	}
	assert.Equal(t, 5, r.renders)
}

func TestEngine_Resize(t *testing.T) {
	w := &fakeWindow{width: 800, height: 400}
	r := &fakeRenderer{width: 800, height: 400}
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
	e := NewEngine(WithWindow(w), WithRenderer(r), WithScene(scene.New()), WithCamera(cam))

	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)
	require.NotNil(t, w.onResize)

	w.onResize(300, 600)
	assert.InDelta(t, 0.5, cam.Aspect(), 1e-6)
	width, height := e.Viewport().Size()
	assert.Equal(t, 300, width)
	assert.Equal(t, 600, height)

	// minimized: renderer suspends, aspect is kept
	w.onResize(0, 0)
	assert.InDelta(t, 0.5, cam.Aspect(), 1e-6)
	assert.Equal(t, [][2]int{{300, 600}, {0, 0}}, r.sizes)
}

func TestEngine_QuitIdempotent(t *testing.T) {
	e := newTestEngine(&fakeRenderer{})
	assert.NotPanics(t, func() {
		e.Quit()
		e.Quit()
	})
}
