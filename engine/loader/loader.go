package loader

import (
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/pkg/errors"
)

// ErrUnsupportedFormat is returned when a file extension has no registered decoder.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache   map[string]*scene.Node
	textureCache map[string]*model.Texture

	backends map[LoaderBackendType]loaderBackend

	workers    int
	pool       worker.DynamicWorkerPool
	dispatcher common.Dispatcher
	nextTaskID atomic.Int64
}

// Loader defines the public-facing interface for loading and caching models and textures.
// It abstracts the file format behind a backend selected by file extension.
type Loader interface {
	// LoadModel imports a model file on the worker pool. Exactly one of onLoad or onError is
	// called, through the dispatcher. onProgress may be called any number of times before that.
	// Any callback may be nil. A path that is already cached completes without re-reading the file.
	//
	// Parameters:
	//   - path: the file path to the model file
	//   - onLoad: receives the model root on success
	//   - onProgress: receives byte progress while reading
	//   - onError: receives the failure
	//
	// Returns:
	//   - *Future: completes after the callbacks have been dispatched
	LoadModel(path string, onLoad func(*scene.Node), onProgress func(loaded, total int64), onError func(error)) *Future

	// Load imports a model file synchronously on the calling goroutine and caches the result.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *scene.Node: the model root
	//   - error: error if loading fails
	Load(path string) (*scene.Node, error)

	// LoadTexture decodes a PNG, JPEG, BMP or WebP image into a texture and caches it by path.
	//
	// Parameters:
	//   - path: the image file path
	//
	// Returns:
	//   - *model.Texture: the decoded texture
	//   - error: ErrUnsupportedFormat for unknown extensions, or the decode error
	LoadTexture(path string) (*model.Texture, error)

	// Get retrieves a cached model root by path. Returns nil if not found.
	Get(path string) *scene.Node

	// Close stops the worker pool. Loads submitted afterwards never complete.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the glTF backend registered.
// The worker pool defaults to runtime.NumCPU()-1 workers and callbacks run directly on the
// worker goroutine unless WithDispatcher is given.
//
// Parameters:
//   - options: functional options to configure the Loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache:   make(map[string]*scene.Node),
		textureCache: make(map[string]*model.Texture),
		backends: map[LoaderBackendType]loaderBackend{
			BackendTypeGLTF: newGLTFLoaderBackend(),
		},
		workers:    max(runtime.NumCPU()-1, 1),
		dispatcher: func(fn func()) { fn() },
	}
	for _, option := range options {
		option(l)
	}
	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 16, 1*time.Second)
	}
	return l
}

func (l *loader) LoadModel(path string, onLoad func(*scene.Node), onProgress func(loaded, total int64), onError func(error)) *Future {
	future := newFuture()

	progress := func(loaded, total int64) {
		if onProgress != nil {
			l.dispatcher(func() { onProgress(loaded, total) })
		}
	}

	l.pool.SubmitTask(worker.Task{
		ID:      int(l.nextTaskID.Add(1)),
		Payload: path,
		Do: func() (result any, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("panic while loading %s: %v", path, r)
				}
				l.complete(future, path, result, err, onLoad, onError)
			}()
			return l.load(path, progress)
		},
	})

	return future
}

// complete hands the outcome to the dispatcher and then resolves the future.
func (l *loader) complete(future *Future, path string, result any, err error, onLoad func(*scene.Node), onError func(error)) {
	node, _ := result.(*scene.Node)
	if err == nil && node == nil {
		err = errors.Errorf("loading %s produced no model", path)
	}
	if err != nil {
		log.Printf("[Loader] failed to load %s: %v", path, err)
		if onError != nil {
			l.dispatcher(func() { onError(err) })
		}
		future.resolve(nil, err)
		return
	}
	if onLoad != nil {
		l.dispatcher(func() { onLoad(node) })
	}
	future.resolve(node, nil)
}

func (l *loader) Load(path string) (*scene.Node, error) {
	return l.load(path, func(int64, int64) {})
}

func (l *loader) load(path string, progress ProgressFunc) (*scene.Node, error) {
	if cached := l.Get(path); cached != nil {
		progress(1, 1)
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	node, err := backend.Load(path, progress)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}

	l.mu.Lock()
	l.modelCache[path] = node
	l.mu.Unlock()

	return node, nil
}

func (l *loader) LoadTexture(path string) (*model.Texture, error) {
	l.mu.RLock()
	if cached, ok := l.textureCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	tex, err := loadTextureFile(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.textureCache[path] = tex
	l.mu.Unlock()
	return tex, nil
}

func (l *loader) Get(path string) *scene.Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[path]
}

func (l *loader) Close() {
	l.pool.Stop()
}

// resolveBackend selects the loader backend based on the file extension.
//
// Parameters:
//   - path: the file path whose extension determines the backend
//
// Returns:
//   - loaderBackend: the backend for the format
//   - error: ErrUnsupportedFormat if no backend handles the extension
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backends[BackendTypeGLTF], nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "model extension %q", ext)
	}
}
