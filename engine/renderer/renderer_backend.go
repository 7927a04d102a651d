package renderer

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// RendererBackendType identifies the graphics API a renderer uses.
type RendererBackendType int

const (
	// BackendTypeWGPU renders through WebGPU (wgpu-native).
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are delivered to the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank (FIFO). Frame rate is capped to the display refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples per pixel used for multisample anti-aliasing.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisampling.
	MSAAOff MSAASampleCount = 1

	// MSAA4x uses 4 samples per pixel. Supported by all WebGPU adapters.
	MSAA4x MSAASampleCount = 4

	// MSAA8x uses 8 samples per pixel. Adapter-dependent.
	MSAA8x MSAASampleCount = 8

	// MSAA16x uses 16 samples per pixel. Adapter-dependent.
	MSAA16x MSAASampleCount = 16
)

// RendererBackend is the graphics-API side of a renderer. It owns every GPU resource and
// is driven once per frame by the renderer in the order:
//
//	SetClearColor, WriteFrameUniforms, BeginFrame, Draw..., EndFrame, Present, Prune.
//
// Mesh resources are created lazily on the first Draw of a mesh and live until Prune drops them.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and the MSAA and depth attachments.
	//
	// Parameters:
	//   - width, height: surface size in pixels, both greater than zero
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the next frame is cleared to.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// WriteFrameUniforms uploads the per-frame camera and lighting uniforms.
	//
	// Parameters:
	//   - camera: serialized camera uniform
	//   - lights: serialized lighting uniform
	WriteFrameUniforms(camera, lights []byte)

	// BeginFrame acquires the next surface texture and opens the render pass.
	//
	// Returns:
	//   - error: error if the surface texture could not be acquired
	BeginFrame() error

	// Draw records one draw of a mesh in the open render pass.
	//
	// Parameters:
	//   - slot: the draw's index within the frame, used to key its uniform buffer
	//   - mesh: the geometry and material to draw
	//   - uniform: the mesh's packed world transform and material
	//
	// Returns:
	//   - error: error if the mesh's GPU resources could not be created
	Draw(slot int, mesh *model.Mesh, uniform model.GPUMeshUniform) error

	// EndFrame closes the render pass and submits the recorded commands.
	EndFrame()

	// Present shows the submitted frame.
	Present()

	// Prune releases GPU resources of meshes that were not drawn in the last frame
	// and of draw slots at or beyond slots.
	//
	// Parameters:
	//   - live: the meshes drawn in the last frame
	//   - slots: the number of draw slots used in the last frame
	Prune(live map[*model.Mesh]bool, slots int)

	// Release frees every GPU resource the backend owns.
	Release()
}
