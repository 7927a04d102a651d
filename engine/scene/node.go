package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// Node is an element of the scene graph: a local transform, an optional mesh and
// an ordered list of children. A node has at most one parent.
//
// Nodes are mutated only on the render loop thread and carry no lock.
type Node struct {
	name     string
	local    mgl32.Mat4
	mesh     *model.Mesh
	visible  bool
	parent   *Node
	children []*Node
}

// NodeBuilderOption is a functional option for configuring a Node.
type NodeBuilderOption func(n *Node)

// NewNode creates a visible node with an identity transform.
//
// Parameters:
//   - name: the node name, used for lookups and logs
//   - options: functional options to configure the node
//
// Returns:
//   - *Node: the new node
func NewNode(name string, options ...NodeBuilderOption) *Node {
	n := &Node{
		name:    name,
		local:   mgl32.Ident4(),
		visible: true,
	}
	for _, option := range options {
		option(n)
	}
	return n
}

// WithMesh attaches a mesh to the node.
//
// Parameters:
//   - mesh: the mesh drawn at this node's world transform
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithMesh(mesh *model.Mesh) NodeBuilderOption {
	return func(n *Node) {
		n.mesh = mesh
	}
}

// WithTransform sets the node's local transform.
//
// Parameters:
//   - m: the local transform relative to the parent
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithTransform(m mgl32.Mat4) NodeBuilderOption {
	return func(n *Node) {
		n.local = m
	}
}

// WithTRS sets the node's local transform from translation, rotation quaternion (x, y, z, w)
// and scale. A zero quaternion or zero scale is treated as identity.
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithTRS(t [3]float32, r [4]float32, s [3]float32) NodeBuilderOption {
	return func(n *Node) {
		n.local = common.ComposeTRS(t, r, s)
	}
}

// WithChildren adds initial children in order.
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithChildren(children ...*Node) NodeBuilderOption {
	return func(n *Node) {
		for _, c := range children {
			n.AddChild(c)
		}
	}
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) Mesh() *model.Mesh {
	return n.mesh
}

func (n *Node) SetMesh(mesh *model.Mesh) {
	n.mesh = mesh
}

func (n *Node) Local() mgl32.Mat4 {
	return n.local
}

func (n *Node) SetLocal(m mgl32.Mat4) {
	n.local = m
}

func (n *Node) Visible() bool {
	return n.visible
}

// SetVisible hides or shows the node and its whole subtree.
func (n *Node) SetVisible(visible bool) {
	n.visible = visible
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// AddChild appends child to this node, detaching it from its previous parent first.
// Adding a node to itself or to one of its own descendants is ignored.
//
// Parameters:
//   - child: the node to attach
//
// Returns:
//   - bool: true if the child was attached
func (n *Node) AddChild(child *Node) bool {
	if child == nil {
		return false
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return false
		}
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return true
}

// RemoveChild detaches child from this node.
//
// Parameters:
//   - child: the node to detach
//
// Returns:
//   - bool: true if child was a direct child of n
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// WorldMatrix composes the local transforms from the root down to this node.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.local
	for p := n.parent; p != nil; p = p.parent {
		m = p.local.Mul4(m)
	}
	return m
}

// Walk visits the subtree depth-first in child order, passing each node's world transform.
// Returning false from fn skips that node's children. Hidden subtrees are skipped.
//
// Parameters:
//   - fn: visitor called with the node and its world transform
func (n *Node) Walk(fn func(node *Node, world mgl32.Mat4) bool) {
	parentWorld := mgl32.Ident4()
	if n.parent != nil {
		parentWorld = n.parent.WorldMatrix()
	}
	n.walk(parentWorld, fn)
}

func (n *Node) walk(parentWorld mgl32.Mat4, fn func(*Node, mgl32.Mat4) bool) {
	if !n.visible {
		return
	}
	world := parentWorld.Mul4(n.local)
	if !fn(n, world) {
		return
	}
	for _, c := range n.children {
		c.walk(world, fn)
	}
}

// Find returns the first node in the subtree with the given name, or nil.
func (n *Node) Find(name string) *Node {
	if n.name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// MeshCount returns the number of nodes in the subtree that carry a mesh.
func (n *Node) MeshCount() int {
	count := 0
	if n.mesh != nil {
		count++
	}
	for _, c := range n.children {
		count += c.MeshCount()
	}
	return count
}
