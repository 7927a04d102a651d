package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedDraw struct {
	slot    int
	mesh    *model.Mesh
	uniform model.GPUMeshUniform
}

type fakeBackend struct {
	calls       []string
	configured  [][2]int
	presentMode PresentMode
	clear       common.Color
	camera      []byte
	lights      []byte
	draws       []recordedDraw
	live        map[*model.Mesh]bool
	slots       int

	beginErr error
	drawErr  map[*model.Mesh]error
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.calls = append(f.calls, "configure")
	f.configured = append(f.configured, [2]int{width, height})
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }

func (f *fakeBackend) SetClearColor(c common.Color) {
	f.calls = append(f.calls, "clear")
	f.clear = c
}

func (f *fakeBackend) WriteFrameUniforms(cameraData, lightsData []byte) {
	f.calls = append(f.calls, "uniforms")
	f.camera = cameraData
	f.lights = lightsData
}

func (f *fakeBackend) BeginFrame() error {
	f.calls = append(f.calls, "begin")
	return f.beginErr
}

func (f *fakeBackend) Draw(slot int, mesh *model.Mesh, uniform model.GPUMeshUniform) error {
	f.calls = append(f.calls, "draw")
	f.draws = append(f.draws, recordedDraw{slot: slot, mesh: mesh, uniform: uniform})
	return f.drawErr[mesh]
}

func (f *fakeBackend) EndFrame() { f.calls = append(f.calls, "end") }

func (f *fakeBackend) Present() { f.calls = append(f.calls, "present") }

func (f *fakeBackend) Prune(live map[*model.Mesh]bool, slots int) {
	f.calls = append(f.calls, "prune")
	f.live = live
	f.slots = slots
}

func (f *fakeBackend) Release() { f.calls = append(f.calls, "release") }

func newTestCamera() camera.Camera {
	return camera.NewCamera(camera.WithController(camera.NewCameraController()))
}

func TestRenderer_SetSize(t *testing.T) {
	backend := &fakeBackend{}
	r := newRendererWithBackend(backend, WithPresentMode(PresentModeUncapped))
	assert.Equal(t, PresentModeUncapped, backend.presentMode)

	r.SetSize(800, 600)
	r.SetSize(800, 600)
	r.SetSize(0, 600)
	r.SetSize(1024, 768)

	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}}, backend.configured)
	w, h := r.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestRenderer_SkipsZeroSize(t *testing.T) {
	backend := &fakeBackend{}
	r := newRendererWithBackend(backend)

	s := scene.New()
	s.Add(scene.NewNode("box", scene.WithMesh(model.NewBoxMesh("box", 1, 1, 1, 1, nil))))

	require.NoError(t, r.Render(s, newTestCamera()))
	assert.Empty(t, backend.calls)
}

func TestRenderer_RenderFrame(t *testing.T) {
	backend := &fakeBackend{}
	r := newRendererWithBackend(backend)
	r.SetSize(640, 480)
	backend.calls = nil

	red := model.NewMaterial(model.WithBaseColorHex(0xff0000))
	visible := model.NewBoxMesh("visible", 1, 1, 1, 1, red)
	hidden := model.NewBoxMesh("hidden", 1, 1, 1, 1, nil)
	empty := model.NewMesh("empty", nil, nil, nil)

	s := scene.New(
		scene.WithBackgroundHex(0x336699),
		scene.WithLights(light.NewAmbientLight(light.WithIntensity(0.5))),
	)
	s.Add(scene.NewNode("visible", scene.WithMesh(visible), scene.WithTRS([3]float32{1, 2, 3}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1})))
	hiddenNode := scene.NewNode("hidden", scene.WithMesh(hidden))
	hiddenNode.SetVisible(false)
	s.Add(hiddenNode)
	s.Add(scene.NewNode("empty", scene.WithMesh(empty)))

	require.NoError(t, r.Render(s, newTestCamera()))

	assert.Equal(t, []string{"clear", "uniforms", "begin", "draw", "end", "present", "prune"}, backend.calls)
	assert.Equal(t, uint32(0x336699), backend.clear.Hex())
	assert.Len(t, backend.camera, 80)
	assert.Len(t, backend.lights, 48)

	require.Len(t, backend.draws, 1)
	d := backend.draws[0]
	assert.Equal(t, 0, d.slot)
	assert.Same(t, visible, d.mesh)
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), d.uniform.Model)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, d.uniform.BaseColor)

	assert.Equal(t, map[*model.Mesh]bool{visible: true}, backend.live)
	assert.Equal(t, 1, backend.slots)
}

func TestRenderer_BeginFrameError(t *testing.T) {
	backend := &fakeBackend{beginErr: errors.New("surface lost")}
	r := newRendererWithBackend(backend)
	r.SetSize(640, 480)
	backend.calls = nil

	s := scene.New()
	s.Add(scene.NewNode("box", scene.WithMesh(model.NewBoxMesh("box", 1, 1, 1, 1, nil))))

	err := r.Render(s, newTestCamera())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surface lost")
	assert.Empty(t, backend.draws)
	assert.NotContains(t, backend.calls, "present")
}

func TestRenderer_DrawErrorKeepsFrame(t *testing.T) {
	bad := model.NewBoxMesh("bad", 1, 1, 1, 1, nil)
	good := model.NewBoxMesh("good", 1, 1, 1, 1, nil)
	backend := &fakeBackend{drawErr: map[*model.Mesh]error{bad: errors.New("upload failed")}}
	r := newRendererWithBackend(backend)
	r.SetSize(640, 480)

	s := scene.New()
	s.Add(scene.NewNode("bad", scene.WithMesh(bad)))
	s.Add(scene.NewNode("good", scene.WithMesh(good)))

	err := r.Render(s, newTestCamera())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bad"`)
	assert.Len(t, backend.draws, 2)
	assert.Contains(t, backend.calls, "present")
}

func TestRenderer_SharedMeshUsesSeparateSlots(t *testing.T) {
	backend := &fakeBackend{}
	r := newRendererWithBackend(backend)
	r.SetSize(640, 480)

	shared := model.NewBoxMesh("shared", 1, 1, 1, 1, nil)
	s := scene.New()
	s.Add(scene.NewNode("a", scene.WithMesh(shared)))
	s.Add(scene.NewNode("b", scene.WithMesh(shared), scene.WithTransform(mgl32.Translate3D(5, 0, 0))))

	require.NoError(t, r.Render(s, newTestCamera()))
	require.Len(t, backend.draws, 2)
	assert.Equal(t, 0, backend.draws[0].slot)
	assert.Equal(t, 1, backend.draws[1].slot)
	assert.NotEqual(t, backend.draws[0].uniform.Model, backend.draws[1].uniform.Model)
	assert.Equal(t, 2, backend.slots)
}

func TestPickSurfaceFormat(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm,
		pickSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8Unorm}))
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb,
		pickSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA8UnormSrgb}))
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, pickSurfaceFormat(nil))
}

func TestClearColorValue(t *testing.T) {
	c := clearColorValue(common.NewColorHex(0xff8000))
	assert.InDelta(t, 1.0, c.R, 1e-6)
	assert.InDelta(t, 128.0/255.0, c.G, 1e-6)
	assert.InDelta(t, 0.0, c.B, 1e-6)
	assert.Equal(t, 1.0, c.A)
}

func TestVertexLayout_MatchesGPUVertex(t *testing.T) {
	layout := vertexLayout()
	assert.Equal(t, uint64(32), layout.ArrayStride)
	require.Len(t, layout.Attributes, 3)
	assert.Equal(t, uint64(24), layout.Attributes[2].Offset)
}
