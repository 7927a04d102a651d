// Package viewport tracks the drawable area the renderer and camera share.
package viewport

import "sync"

// State holds the canvas size in pixels. The camera aspect ratio is derived from it.
type State struct {
	mu     sync.Mutex
	width  int
	height int
}

// New creates a viewport of the given size.
//
// Parameters:
//   - width: canvas width in pixels
//   - height: canvas height in pixels
//
// Returns:
//   - *State: the viewport state
func New(width, height int) *State {
	return &State{width: width, height: height}
}

// Size returns the canvas size in pixels.
func (s *State) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize records a new canvas size. Non-positive dimensions (a minimized window) are ignored.
//
// Parameters:
//   - width: canvas width in pixels
//   - height: canvas height in pixels
//
// Returns:
//   - bool: true if the size changed
func (s *State) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == width && s.height == height {
		return false
	}
	s.width, s.height = width, height
	return true
}

// Aspect returns width / height, or 1 when the height is zero.
func (s *State) Aspect() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.height <= 0 {
		return 1
	}
	return float32(s.width) / float32(s.height)
}
