// Package viewer assembles the scene viewer from a config.Config: scene, lights, orbit camera,
// asset loader, parameter panel and the engine loop that drives them.
package viewer

import (
	"context"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/panel"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const (
	demoBoxName     = "demo-box"
	demoBoxColor    = 0xff0000
	demoBoxBumpSize = 0.1

	shutdownTimeout = 5 * time.Second
)

// Context is the viewer's state, built once at startup and passed explicitly.
// Everything except Server and Loader internals is owned by the engine loop; other goroutines
// reach it through Engine.Post.
type Context struct {
	Config config.Config

	Engine     engine.Engine
	Scene      scene.Scene
	Camera     camera.Camera
	Controller camera.CameraController

	Ambient     light.Light
	Directional light.Light

	Loader loader.Loader
	Panel  *panel.Panel
	Server *panel.Server

	// DemoBox is the optional bump-mapped box, nil unless Config.DemoBox is set.
	DemoBox *scene.Node

	window   window.Window
	renderer renderer.Renderer
}

// New builds the viewer from cfg. Without WithWindow or WithRenderer a GLFW window and a WebGPU
// renderer are created, which panics if no GPU device is available.
//
// Parameters:
//   - cfg: the startup configuration
//   - options: functional options to inject the window, renderer, loader or server options
//
// Returns:
//   - *Context: the assembled viewer
//   - error: error if cfg is invalid
func New(cfg config.Config, options ...ContextBuilderOption) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid viewer config")
	}
	background, _ := cfg.BackgroundHex()

	o := &contextOptions{}
	for _, opt := range options {
		opt(o)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	if o.window == nil && o.renderer == nil {
		o.window = window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
		presentMode := renderer.PresentModeUncapped
		if cfg.Window.VSync {
			presentMode = renderer.PresentModeVSync
		}
		o.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, o.window, renderer.WithPresentMode(presentMode))
	}

	c := &Context{
		Config:   cfg,
		window:   o.window,
		renderer: o.renderer,
	}

	// ── Camera ──────────────────────────────────────────────────────────
	pos, target := cfg.Camera.Position, cfg.Camera.Target
	c.Controller = camera.NewCameraController(
		camera.WithPosition(pos[0], pos[1], pos[2]),
		camera.WithTarget(target[0], target[1], target[2]),
		camera.WithDamping(cfg.Camera.Damping),
		camera.WithDampingFactor(cfg.Camera.DampingFactor),
		camera.WithKeyStep(cfg.Camera.KeyStep),
		camera.WithResetPosition(pos[0], pos[1], pos[2]),
	)
	c.Camera = camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(cfg.Camera.FovDegrees)),
		camera.WithClipPlanes(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithController(c.Controller),
	)

	// ── Lights + Scene ──────────────────────────────────────────────────
	dirPos := cfg.Lights.DirectionalPosition
	c.Ambient = light.NewAmbientLight(
		light.WithColorHex(0xffffff),
		light.WithIntensity(cfg.Lights.AmbientIntensity),
	)
	c.Directional = light.NewDirectionalLight(
		light.WithColorHex(0xffffff),
		light.WithIntensity(cfg.Lights.DirectionalIntensity),
		light.WithPosition(dirPos[0], dirPos[1], dirPos[2]),
		light.WithCastsShadows(true),
	)
	c.Scene = scene.New(
		scene.WithName(cfg.Window.Title),
		scene.WithBackgroundHex(background),
		scene.WithLights(c.Ambient, c.Directional),
	)

	// ── Engine ──────────────────────────────────────────────────────────
	engineOptions := []engine.EngineBuilderOption{
		engine.WithScene(c.Scene),
		engine.WithCamera(c.Camera),
		engine.WithProfiling(cfg.Profile),
		engine.WithRenderFrameLimit(cfg.FrameLimit),
		engine.WithTickCallback(func(float32) { c.Controller.Update() }),
	}
	if o.window != nil {
		engineOptions = append(engineOptions, engine.WithWindow(o.window))
	}
	if o.renderer != nil {
		engineOptions = append(engineOptions, engine.WithRenderer(o.renderer))
	}
	c.Engine = engine.NewEngine(engineOptions...)

	// ── Loader ──────────────────────────────────────────────────────────
	loaderOptions := append([]loader.LoaderBuilderOption{}, o.loaderOptions...)
	c.Loader = loader.NewLoader(append(loaderOptions, loader.WithDispatcher(c.Engine.Post))...)

	if cfg.DemoBox {
		c.DemoBox = c.buildDemoBox()
		c.Scene.Add(c.DemoBox)
	}

	// ── Panel ───────────────────────────────────────────────────────────
	c.Panel = c.buildPanel()
	c.Server = panel.NewServer(c.Panel, c.Engine.Post, o.serverOptions...)

	// ── Input ───────────────────────────────────────────────────────────
	if o.window != nil {
		o.window.SetCharCallback(c.HandleKey)
		o.window.SetScrollCallback(c.Controller.Zoom)
		o.window.SetDragCallback(c.HandleDrag)
	}

	return c, nil
}

// HandleKey applies a keyboard step for w/s/a/d/q/e/r (case-insensitive) and reconciles the
// orbit state. Other characters are ignored.
//
// Parameters:
//   - r: the typed character
func (c *Context) HandleKey(r rune) {
	if c.Controller.ApplyKeyboardStep(r) {
		c.Controller.Update()
	}
}

// HandleDrag maps mouse drags to orbit input: left rotates, right pans, middle dollies.
//
// Parameters:
//   - button: the held mouse button
//   - dx, dy: cursor movement in pixels since the previous event
func (c *Context) HandleDrag(button window.MouseButton, dx, dy float32) {
	_, height := c.Engine.Viewport().Size()
	switch button {
	case window.MouseButtonLeft:
		c.Controller.Drag(dx, dy, float32(height))
	case window.MouseButtonRight:
		c.Controller.Pan(dx, dy, float32(height))
	case window.MouseButtonMiddle:
		c.Controller.Zoom(-dy * 0.1)
	}
}

// LoadModel starts an asynchronous model load. On success the model replaces the scene's model
// root on the next engine tick; on failure the error is logged and the scene is left as it was.
//
// Parameters:
//   - path: the glTF/GLB file to load
//
// Returns:
//   - *loader.Future: completes once the outcome has been posted to the engine loop
func (c *Context) LoadModel(path string) *loader.Future {
	lastQuarter := int64(-1)
	return c.Loader.LoadModel(path,
		func(root *scene.Node) {
			c.Scene.SetModel(root)
			log.Printf("[Viewer] attached %s (%d meshes)", path, root.MeshCount())
		},
		func(loaded, total int64) {
			if total <= 0 {
				return
			}
			if quarter := loaded * 4 / total; quarter > lastQuarter {
				lastQuarter = quarter
				log.Printf("[Viewer] loading %s: %d%%", path, quarter*25)
			}
		},
		func(err error) {
			log.Printf("[Viewer] continuing without model: %v", err)
		},
	)
}

// Start serves the parameter panel and begins loading the configured model.
// An empty panel address or model path skips that part.
//
// Returns:
//   - error: error if the panel server cannot listen
func (c *Context) Start() error {
	if c.Config.PanelAddr != "" {
		if err := c.Server.Start(c.Config.PanelAddr); err != nil {
			return errors.Wrap(err, "failed to start parameter panel")
		}
	}
	if c.Config.Model != "" {
		c.LoadModel(c.Config.Model)
	}
	return nil
}

// Run starts the viewer and blocks in the engine loop until the window closes or Quit is called.
// Resources are released before returning.
//
// Returns:
//   - error: error if startup fails
func (c *Context) Run() error {
	defer c.Close()
	if err := c.Start(); err != nil {
		return err
	}
	c.Engine.Run()
	return nil
}

// Quit stops the engine loop after the current tick.
func (c *Context) Quit() {
	c.Engine.Quit()
}

// Close stops the panel server and the loader, then releases the renderer and the window.
func (c *Context) Close() {
	c.Engine.Quit()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.Server.Shutdown(ctx); err != nil {
		log.Printf("[Viewer] panel shutdown: %v", err)
	}

	c.Loader.Close()
	if c.renderer != nil {
		c.renderer.Release()
	}
	if c.window != nil {
		if err := c.window.Close(); err != nil {
			log.Printf("[Viewer] window close: %v", err)
		}
	}
}

// buildDemoBox creates a unit box with a red base color and the configured bump map.
// A bump map that fails to load is logged and the box is drawn without it.
func (c *Context) buildDemoBox() *scene.Node {
	materialOptions := []model.MaterialBuilderOption{
		model.WithName(demoBoxName),
		model.WithBaseColorHex(demoBoxColor),
	}
	if c.Config.BumpMap != "" {
		bump, err := c.Loader.LoadTexture(c.Config.BumpMap)
		if err != nil {
			log.Printf("[Viewer] demo box drawn without bump map: %v", err)
		} else {
			materialOptions = append(materialOptions, model.WithBumpMap(bump, demoBoxBumpSize))
		}
	}
	mesh := model.NewBoxMesh(demoBoxName, 1, 1, 1, 5, model.NewMaterial(materialOptions...))
	return scene.NewNode(demoBoxName, scene.WithMesh(mesh))
}

// buildPanel binds the light and background controls.
func (c *Context) buildPanel() *panel.Panel {
	p := panel.New(c.Config.Window.Title)

	ambient := p.AddFolder("Ambient Light")
	ambient.AddNumber("Intensity", c.Ambient.Intensity, c.Ambient.SetIntensity, 0, 1, 0.01)
	ambient.Close()

	directional := p.AddFolder("Directional Light")
	for axis, label := range []string{"Position X", "Position Y", "Position Z"} {
		directional.AddNumber(label,
			func() float32 { return c.Directional.Position()[axis] },
			func(v float32) {
				pos := c.Directional.Position()
				pos[axis] = v
				c.Directional.SetPosition(pos[0], pos[1], pos[2])
			},
			-10, 10, 0.1)
	}
	directional.AddNumber("Intensity", c.Directional.Intensity, c.Directional.SetIntensity, 0, 2, 0.01)
	directional.Close()

	p.AddColor("Background Color", c.Scene.BackgroundHex, c.Scene.SetBackgroundHex)
	return p
}
