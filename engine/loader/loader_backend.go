package loader

import "github.com/Carmen-Shannon/oxy-viewer/engine/scene"

// ProgressFunc receives load progress in bytes. total is -1 when unknown.
type ProgressFunc func(loaded, total int64)

// loaderBackend defines the generic interface for importing a model file into a scene subtree.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports the model at path.
	//
	// Parameters:
	//   - path: the file path to load
	//   - progress: receives byte progress; never nil
	//
	// Returns:
	//   - *scene.Node: the model root, one child per top-level node of the file
	//   - error: error if reading or parsing fails
	Load(path string, progress ProgressFunc) (*scene.Node, error)
}
