package renderer

import (
	_ "embed"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

//go:embed assets/viewer.wgsl
var viewerShaderSource string

// gpuTexture is an uploaded texture with its view and sampler.
type gpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

func (t *gpuTexture) release() {
	t.sampler.Release()
	t.view.Release()
	t.texture.Release()
}

// gpuGeometry holds the vertex and index buffers of one mesh.
type gpuGeometry struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32
}

func (g *gpuGeometry) release() {
	g.vertexBuffer.Release()
	g.indexBuffer.Release()
}

// gpuDrawSlot is the per-draw uniform buffer and mesh bind group (group 1).
// The bind group is rebuilt when the textures bound to the slot change.
type gpuDrawSlot struct {
	uniformBuffer *wgpu.Buffer
	bindGroup     *wgpu.BindGroup
	base          *gpuTexture
	bump          *gpuTexture
}

func (s *gpuDrawSlot) release() {
	if s.bindGroup != nil {
		s.bindGroup.Release()
	}
	s.uniformBuffer.Release()
}

// wgpuRendererBackend is the WebGPU implementation of RendererBackend.
type wgpuRendererBackend struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	sampleCount   MSAASampleCount
	clearColor    wgpu.Color

	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	shaderModule   *wgpu.ShaderModule
	frameLayout    *wgpu.BindGroupLayout
	meshLayout     *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	// pipelines are keyed by double-sidedness; rebuilt when the surface format changes
	pipelines      map[bool]*wgpu.RenderPipeline
	pipelineFormat wgpu.TextureFormat

	cameraBuffer   *wgpu.Buffer
	lightsBuffer   *wgpu.Buffer
	frameBindGroup *wgpu.BindGroup

	fallbackBase *gpuTexture
	fallbackBump *gpuTexture
	textures     map[*model.Texture]*gpuTexture
	geometry     map[*model.Mesh]*gpuGeometry
	slots        []*gpuDrawSlot

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackend{}

// newWGPURendererBackend creates the instance, surface, adapter and device, then the resources
// that do not depend on the surface size: shader, bind group layouts, frame uniforms and the
// fallback textures. Panics on failure since no frame can be drawn without them.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) *wgpuRendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackend{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  clearColorValue(common.NewColorHex(0)),
		pipelines:   make(map[bool]*wgpu.RenderPipeline),
		textures:    make(map[*model.Texture]*gpuTexture),
		geometry:    make(map[*model.Mesh]*gpuGeometry),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Viewer Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.initSharedResources(); err != nil {
		panic(err)
	}
	return b
}

// initSharedResources creates everything that outlives a surface reconfiguration.
func (b *wgpuRendererBackend) initSharedResources() error {
	var err error
	b.shaderModule, err = b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Viewer Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: viewerShaderSource,
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to compile viewer shader")
	}

	b.frameLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Frame Bind Group Layout",
		Entries: frameLayoutEntries(),
	})
	if err != nil {
		return err
	}
	b.meshLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Mesh Bind Group Layout",
		Entries: meshLayoutEntries(),
	})
	if err != nil {
		return err
	}
	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Viewer Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.frameLayout, b.meshLayout},
	})
	if err != nil {
		return err
	}

	var camUniform camera.GPUCameraUniform
	b.cameraBuffer, err = b.createUniformBuffer("Camera Uniform", uint64(camUniform.Size()))
	if err != nil {
		return err
	}
	var lightsUniform light.GPULightsUniform
	b.lightsBuffer, err = b.createUniformBuffer("Lights Uniform", uint64(lightsUniform.Size()))
	if err != nil {
		return err
	}
	b.frameBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Bind Group",
		Layout: b.frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.cameraBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: b.lightsBuffer, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}

	// White base color and flat (black) height keep untextured materials on the same pipeline.
	b.fallbackBase, err = b.createTexture("Fallback Base Color", common.SolidTexture(255, 255, 255, 255), common.SamplerStagingData{})
	if err != nil {
		return err
	}
	b.fallbackBump, err = b.createTexture("Fallback Bump", common.SolidTexture(0, 0, 0, 255), common.SamplerStagingData{})
	return err
}

func (b *wgpuRendererBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = pickSurfaceFormat(capabilities.Formats)

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	var err error

	if msaaEnabled {
		// The pass draws into the MSAA texture and resolves into the swapchain view.
		b.msaaTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = b.msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth sample count must match the color attachment.
	b.depthTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = b.depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue:    b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	if b.pipelineFormat != b.surfaceFormat || len(b.pipelines) == 0 {
		if err := b.buildPipelines(); err != nil {
			panic(err)
		}
	}
}

func (b *wgpuRendererBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackend) SetClearColor(c common.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = clearColorValue(c)
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackend) WriteFrameUniforms(cameraData, lightsData []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue.WriteBuffer(b.cameraBuffer, 0, cameraData)
	b.queue.WriteBuffer(b.lightsBuffer, 0, lightsData)
}

func (b *wgpuRendererBackend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return errors.New("surface is not configured")
	}
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackend) Draw(slot int, mesh *model.Mesh, uniform model.GPUMeshUniform) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("draw outside of a frame")
	}

	geometry, err := b.meshGeometry(mesh)
	if err != nil {
		return err
	}

	mat := mesh.Material
	if mat == nil {
		mat = model.DefaultMaterial()
	}
	base, err := b.materialTexture(mat.BaseColorTexture, b.fallbackBase)
	if err != nil {
		return err
	}
	bump, err := b.materialTexture(mat.BumpMap, b.fallbackBump)
	if err != nil {
		return err
	}

	s, err := b.drawSlot(slot, base, bump)
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(s.uniformBuffer, 0, uniform.Marshal())

	b.framePass.SetPipeline(b.pipelines[mat.DoubleSided])
	b.framePass.SetBindGroup(0, b.frameBindGroup, nil)
	b.framePass.SetBindGroup(1, s.bindGroup, nil)
	b.framePass.SetVertexBuffer(0, geometry.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(geometry.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(geometry.indexCount, 1, 0, 0, 0)
	return nil
}

func (b *wgpuRendererBackend) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackend) Prune(live map[*model.Mesh]bool, slots int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for mesh, g := range b.geometry {
		if !live[mesh] {
			g.release()
			delete(b.geometry, mesh)
		}
	}

	for i := slots; i < len(b.slots); i++ {
		b.slots[i].release()
	}
	if slots < len(b.slots) {
		b.slots = b.slots[:slots]
	}

	used := make(map[*model.Texture]bool)
	for mesh := range live {
		if mesh.Material == nil {
			continue
		}
		used[mesh.Material.BaseColorTexture] = true
		used[mesh.Material.BumpMap] = true
	}
	for tex, t := range b.textures {
		if !used[tex] {
			t.release()
			delete(b.textures, tex)
		}
	}
}

func (b *wgpuRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.slots {
		s.release()
	}
	b.slots = nil
	for mesh, g := range b.geometry {
		g.release()
		delete(b.geometry, mesh)
	}
	for tex, t := range b.textures {
		t.release()
		delete(b.textures, tex)
	}
	b.fallbackBase.release()
	b.fallbackBump.release()

	for key, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, key)
	}
	b.frameBindGroup.Release()
	b.cameraBuffer.Release()
	b.lightsBuffer.Release()
	b.pipelineLayout.Release()
	b.meshLayout.Release()
	b.frameLayout.Release()
	b.shaderModule.Release()
	b.releaseAttachments()

	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}

// --- internal helpers; callers hold the mutex ---

func (b *wgpuRendererBackend) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTexture.Release()
		b.msaaTextureView = nil
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
		b.depthTextureView = nil
		b.depthTexture = nil
	}
}

// buildPipelines creates the back-face culled and double-sided variants of the viewer pipeline.
func (b *wgpuRendererBackend) buildPipelines() error {
	for key, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, key)
	}

	for _, doubleSided := range []bool{false, true} {
		cullMode := wgpu.CullModeBack
		label := "Viewer Render Pipeline"
		if doubleSided {
			cullMode = wgpu.CullModeNone
			label = "Viewer Double-Sided Render Pipeline"
		}

		created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  label,
			Layout: b.pipelineLayout,
			Vertex: wgpu.VertexState{
				Module:     b.shaderModule,
				EntryPoint: "vs_main",
				Buffers:    []wgpu.VertexBufferLayout{vertexLayout()},
			},
			Fragment: &wgpu.FragmentState{
				Module:     b.shaderModule,
				EntryPoint: "fs_main",
				Targets: []wgpu.ColorTargetState{
					{
						Format:    b.surfaceFormat,
						WriteMask: wgpu.ColorWriteMaskAll,
					},
				},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  wgpu.PrimitiveTopologyTriangleList,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  cullMode,
			},
			Multisample: wgpu.MultisampleState{
				Count: uint32(b.sampleCount),
				Mask:  0xFFFFFFFF,
			},
			DepthStencil: &wgpu.DepthStencilState{
				Format:            wgpu.TextureFormatDepth24Plus,
				DepthWriteEnabled: true,
				DepthCompare:      wgpu.CompareFunctionLess,
				StencilFront: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
				StencilBack: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
			},
		})
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", label)
		}
		b.pipelines[doubleSided] = created
	}
	b.pipelineFormat = b.surfaceFormat
	return nil
}

func (b *wgpuRendererBackend) createUniformBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	return b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
}

// meshGeometry returns the cached buffers of a mesh, uploading them on first use.
func (b *wgpuRendererBackend) meshGeometry(mesh *model.Mesh) (*gpuGeometry, error) {
	if g, ok := b.geometry[mesh]; ok {
		return g, nil
	}

	vertexData := common.SliceToBytes(mesh.Vertices)
	indexData := common.SliceToBytes(mesh.Indices)

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            mesh.Name + " Vertex Buffer",
		Size:             uint64(len(vertexData)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(vb, 0, vertexData)

	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            mesh.Name + " Index Buffer",
		Size:             uint64(len(indexData)),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		vb.Release()
		return nil, err
	}
	b.queue.WriteBuffer(ib, 0, indexData)

	g := &gpuGeometry{vertexBuffer: vb, indexBuffer: ib, indexCount: uint32(len(mesh.Indices))}
	b.geometry[mesh] = g
	return g, nil
}

// materialTexture returns the uploaded texture for tex, or fallback when tex is nil.
func (b *wgpuRendererBackend) materialTexture(tex *model.Texture, fallback *gpuTexture) (*gpuTexture, error) {
	if tex == nil {
		return fallback, nil
	}
	if t, ok := b.textures[tex]; ok {
		return t, nil
	}
	t, err := b.createTexture(tex.Name, tex.Data, tex.Sampler)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upload texture %s", tex.Name)
	}
	b.textures[tex] = t
	return t, nil
}

func (b *wgpuRendererBackend) createTexture(label string, data common.TextureStagingData, sampler common.SamplerStagingData) (*gpuTexture, error) {
	if data.Width == 0 || data.Height == 0 || len(data.Pixels) < int(data.Width*data.Height*4) {
		return nil, errors.Errorf("texture %s has invalid pixel data", label)
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(sampler.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(sampler.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(sampler.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(sampler.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(sampler.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(sampler.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(sampler.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(sampler.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(sampler.MaxAnisotropy, 1),
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}

	return &gpuTexture{texture: tex, view: view, sampler: samp}, nil
}

// drawSlot returns the slot at index, growing the slot list and (re)building its bind group
// as needed.
func (b *wgpuRendererBackend) drawSlot(index int, base, bump *gpuTexture) (*gpuDrawSlot, error) {
	for len(b.slots) <= index {
		var u model.GPUMeshUniform
		buf, err := b.createUniformBuffer("Mesh Uniform", uint64(u.Size()))
		if err != nil {
			return nil, err
		}
		b.slots = append(b.slots, &gpuDrawSlot{uniformBuffer: buf})
	}

	s := b.slots[index]
	if s.bindGroup != nil && s.base == base && s.bump == bump {
		return s, nil
	}
	if s.bindGroup != nil {
		s.bindGroup.Release()
		s.bindGroup = nil
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Mesh Bind Group",
		Layout: b.meshLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: s.uniformBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: base.view},
			{Binding: 2, Sampler: base.sampler},
			{Binding: 3, TextureView: bump.view},
			{Binding: 4, Sampler: bump.sampler},
		},
	})
	if err != nil {
		return nil, err
	}
	s.bindGroup = bindGroup
	s.base = base
	s.bump = bump
	return s, nil
}

// frameLayoutEntries describes group 0: camera and lights uniforms.
func frameLayoutEntries() []wgpu.BindGroupLayoutEntry {
	cameraEntry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	cameraEntry.Buffer.Type = wgpu.BufferBindingTypeUniform

	lightsEntry := wgpu.BindGroupLayoutEntry{
		Binding:    1,
		Visibility: wgpu.ShaderStageFragment,
	}
	lightsEntry.Buffer.Type = wgpu.BufferBindingTypeUniform

	return []wgpu.BindGroupLayoutEntry{cameraEntry, lightsEntry}
}

// meshLayoutEntries describes group 1: mesh uniform, base color texture and sampler,
// bump texture and sampler.
func meshLayoutEntries() []wgpu.BindGroupLayoutEntry {
	meshEntry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	meshEntry.Buffer.Type = wgpu.BufferBindingTypeUniform

	entries := []wgpu.BindGroupLayoutEntry{meshEntry}
	for _, binding := range []uint32{1, 3} {
		tex := wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageFragment,
		}
		tex.Texture.SampleType = wgpu.TextureSampleTypeFloat
		tex.Texture.ViewDimension = wgpu.TextureViewDimension2D

		samp := wgpu.BindGroupLayoutEntry{
			Binding:    binding + 1,
			Visibility: wgpu.ShaderStageFragment,
		}
		samp.Sampler.Type = wgpu.SamplerBindingTypeFiltering

		entries = append(entries, tex, samp)
	}
	return entries
}

// vertexLayout matches model.GPUVertex: position, normal, texcoord.
func vertexLayout() wgpu.VertexBufferLayout {
	var v model.GPUVertex
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(v.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

// pickSurfaceFormat prefers a non-sRGB swapchain format so colors written by the shader and the
// clear color reach the display unconverted.
func pickSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			return f
		}
	}
	if len(formats) > 0 {
		return formats[0]
	}
	return wgpu.TextureFormatBGRA8Unorm
}

func clearColorValue(c common.Color) wgpu.Color {
	return wgpu.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: 1.0}
}
