package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Surface is the presentation target a renderer draws into. window.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width  int
	height int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
}

// Renderer draws a scene from a camera's point of view.
//
// Each Render walks the scene graph, skipping invisible subtrees, and issues one draw per
// mesh with its accumulated world transform. The frame is cleared to the scene's background
// color. GPU resources for a mesh are created the first time it is drawn and released after
// the first frame it no longer appears in.
type Renderer interface {
	// Render draws one frame. Does nothing while the surface has a zero dimension.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the camera to draw it from, already updated for this frame
	//
	// Returns:
	//   - error: error if the frame could not be acquired or a mesh could not be uploaded.
	//     A failing mesh is skipped and the rest of the frame is still drawn.
	Render(s scene.Scene, cam camera.Camera) error

	// SetSize reconfigures the surface for a new size in pixels.
	// A zero dimension (minimized window) suspends rendering until a non-zero size arrives.
	//
	// Parameters:
	//   - width, height: the new surface size
	SetSize(width, height int)

	// Size returns the current surface size in pixels.
	//
	// Returns:
	//   - width, height: the surface size
	Size() (width, height int)

	// BackendType returns the graphics API in use.
	BackendType() RendererBackendType

	// Release frees every GPU resource held by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer that draws into the given surface.
// Options are applied before the backend is created so that adapter selection and MSAA
// can be configured. Defaults: VSync present mode and MSAA4x.
// Panics if the GPU device cannot be created.
//
// Parameters:
//   - backendType: the graphics API to use
//   - surface: the presentation target, typically a window.Window
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created renderer
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
	}
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	default:
		panic(fmt.Sprintf("unsupported renderer backend type: %d", backendType))
	}
	r.backend.SetPresentMode(r.presentMode)
	r.SetSize(surface.Width(), surface.Height())
	return r
}

// newRendererWithBackend wraps an existing backend. The surface is configured only once SetSize
// is called with a non-zero size.
func newRendererWithBackend(backend RendererBackend, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: BackendTypeWGPU,
		backend:     backend,
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
	}
	for _, opt := range options {
		opt(r)
	}
	r.backend.SetPresentMode(r.presentMode)
	return r
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.width <= 0 || r.height <= 0 {
		return nil
	}

	camUniform := cam.Uniform()
	lightsUniform := light.BuildLightsUniform(s.Lights())
	r.backend.SetClearColor(s.Background())
	r.backend.WriteFrameUniforms(camUniform.Marshal(), lightsUniform.Marshal())

	draws := collectDraws(s)

	if err := r.backend.BeginFrame(); err != nil {
		return errors.Wrap(err, "failed to begin frame")
	}

	var drawErr error
	live := make(map[*model.Mesh]bool, len(draws))
	for slot, d := range draws {
		live[d.mesh] = true
		if err := r.backend.Draw(slot, d.mesh, d.uniform); err != nil && drawErr == nil {
			drawErr = errors.Wrapf(err, "failed to draw mesh %q", d.mesh.Name)
		}
	}

	r.backend.EndFrame()
	r.backend.Present()
	r.backend.Prune(live, len(draws))

	return drawErr
}

func (r *renderer) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width == r.width && height == r.height {
		return
	}
	r.width = width
	r.height = height
	if width > 0 && height > 0 {
		r.backend.ConfigureSurface(width, height)
	}
}

func (r *renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}

// meshDraw is one mesh occurrence in the scene with its packed uniform.
type meshDraw struct {
	mesh    *model.Mesh
	uniform model.GPUMeshUniform
}

// collectDraws flattens the visible meshes of a scene in depth-first order.
func collectDraws(s scene.Scene) []meshDraw {
	draws := make([]meshDraw, 0, s.MeshCount())
	s.VisitMeshes(func(m *model.Mesh, world mgl32.Mat4) {
		if len(m.Vertices) == 0 || len(m.Indices) == 0 {
			return
		}
		draws = append(draws, meshDraw{mesh: m, uniform: model.NewMeshUniform(world, m.Material)})
	})
	return draws
}
