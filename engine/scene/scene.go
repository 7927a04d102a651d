package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultBackground is the sky blue clear color used when none is configured.
const DefaultBackground uint32 = 0x87ceeb

// Scene is the scene graph consumed by the renderer: a root node, the lights,
// an optional loaded model subtree and the background color.
//
// The node tree is mutated only on the render loop thread. Scalar state (name,
// background, light list, model slot) is guarded so that it can be read from tests
// and panel snapshots.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Root returns the root node. Never nil.
	Root() *Node

	// Add attaches a node to the root.
	//
	// Parameters:
	//   - node: the node to attach
	Add(node *Node)

	// Remove detaches a node from the root.
	//
	// Parameters:
	//   - node: the node to detach
	//
	// Returns:
	//   - bool: true if node was a direct child of the root
	Remove(node *Node) bool

	// AddLight registers a light with the scene.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// Lights returns a copy of the registered lights in insertion order.
	Lights() []light.Light

	// Model returns the loaded model subtree, or nil before a load completes.
	Model() *Node

	// SetModel attaches node to the root as the model subtree, replacing any previous model.
	// Passing nil removes the current model.
	//
	// Parameters:
	//   - node: the model root
	SetModel(node *Node)

	// Background returns the clear color.
	Background() common.Color

	// BackgroundHex returns the clear color as a 24-bit RGB integer.
	BackgroundHex() uint32

	// SetBackgroundHex sets the clear color. Bits above 0xFFFFFF are ignored.
	//
	// Parameters:
	//   - hex: the 24-bit RGB color
	SetBackgroundHex(hex uint32)

	// VisitMeshes calls fn for every visible node carrying a mesh, depth-first from the root,
	// with that node's world transform.
	//
	// Parameters:
	//   - fn: visitor for mesh nodes
	VisitMeshes(fn func(mesh *model.Mesh, world mgl32.Mat4))

	// MeshCount returns the number of mesh nodes in the graph.
	MeshCount() int
}

type sceneImpl struct {
	mu *sync.Mutex

	name       string
	root       *Node
	lights     []light.Light
	model      *Node
	background common.Color
}

var _ Scene = &sceneImpl{}

// New creates an empty Scene with the default background color.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func New(options ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		mu:         &sync.Mutex{},
		name:       "scene",
		root:       NewNode("root"),
		background: common.NewColorHex(DefaultBackground),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *sceneImpl) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *sceneImpl) Root() *Node {
	return s.root
}

func (s *sceneImpl) Add(node *Node) {
	s.root.AddChild(node)
}

func (s *sceneImpl) Remove(node *Node) bool {
	s.mu.Lock()
	if node != nil && node == s.model {
		s.model = nil
	}
	s.mu.Unlock()
	return s.root.RemoveChild(node)
}

func (s *sceneImpl) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *sceneImpl) Lights() []light.Light {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *sceneImpl) Model() *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

func (s *sceneImpl) SetModel(node *Node) {
	s.mu.Lock()
	previous := s.model
	s.model = node
	s.mu.Unlock()

	if previous != nil && previous != node {
		s.root.RemoveChild(previous)
	}
	if node != nil && node.parent != s.root {
		s.root.AddChild(node)
	}
}

func (s *sceneImpl) Background() common.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}

func (s *sceneImpl) BackgroundHex() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background.Hex()
}

func (s *sceneImpl) SetBackgroundHex(hex uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background.SetHex(hex)
}

func (s *sceneImpl) VisitMeshes(fn func(mesh *model.Mesh, world mgl32.Mat4)) {
	s.root.Walk(func(n *Node, world mgl32.Mat4) bool {
		if n.mesh != nil {
			fn(n.mesh, world)
		}
		return true
	})
}

func (s *sceneImpl) MeshCount() int {
	return s.root.MeshCount()
}
