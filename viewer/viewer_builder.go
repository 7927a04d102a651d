package viewer

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/panel"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// ContextBuilderOption is a functional option for configuring a Context.
type ContextBuilderOption func(*contextOptions)

type contextOptions struct {
	window        window.Window
	renderer      renderer.Renderer
	loaderOptions []loader.LoaderBuilderOption
	serverOptions []panel.ServerBuilderOption
}

// WithWindow supplies the window instead of opening a GLFW window.
//
// Parameters:
//   - w: the window whose input and resize events drive the viewer
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithWindow(w window.Window) ContextBuilderOption {
	return func(o *contextOptions) {
		o.window = w
	}
}

// WithRenderer supplies the renderer instead of creating a WebGPU renderer for the window.
// A renderer given without a window runs the viewer headless.
//
// Parameters:
//   - r: the renderer drawing each tick
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) ContextBuilderOption {
	return func(o *contextOptions) {
		o.renderer = r
	}
}

// WithLoaderOptions appends options to the model loader. The dispatcher is always the engine's Post.
func WithLoaderOptions(options ...loader.LoaderBuilderOption) ContextBuilderOption {
	return func(o *contextOptions) {
		o.loaderOptions = append(o.loaderOptions, options...)
	}
}

// WithServerOptions appends options to the panel server.
func WithServerOptions(options ...panel.ServerBuilderOption) ContextBuilderOption {
	return func(o *contextOptions) {
		o.serverOptions = append(o.serverOptions, options...)
	}
}
