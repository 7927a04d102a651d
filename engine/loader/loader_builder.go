package loader

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithDispatcher routes load callbacks through d, typically the engine's Post so that
// scene mutation happens on the render loop.
//
// Parameters:
//   - d: the dispatcher
//
// Returns:
//   - LoaderBuilderOption: a function that applies the dispatcher option to a loader
func WithDispatcher(d common.Dispatcher) LoaderBuilderOption {
	return func(l *loader) {
		if d != nil {
			l.dispatcher = d
		}
	}
}

// WithWorkers sets the number of worker goroutines parsing model files. Values below 1 become 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithPool supplies an existing worker pool instead of creating one.
//
// Parameters:
//   - pool: the pool that runs load tasks
//
// Returns:
//   - LoaderBuilderOption: a function that applies the pool option to a loader
func WithPool(pool worker.DynamicWorkerPool) LoaderBuilderOption {
	return func(l *loader) {
		l.pool = pool
	}
}

// WithModel pre-populates the model cache.
//
// Parameters:
//   - path: the cache key
//   - root: the model root returned for that path
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(path string, root *scene.Node) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[path] = root
	}
}
