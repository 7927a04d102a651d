package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_AddChildReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")

	require.True(t, a.AddChild(c))
	require.True(t, b.AddChild(c))

	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{c}, b.Children())
	assert.Same(t, b, c.Parent())
}

func TestNode_AddChildRejectsCycles(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	a.AddChild(b)

	assert.False(t, b.AddChild(a))
	assert.False(t, a.AddChild(a))
	assert.False(t, a.AddChild(nil))
	assert.Nil(t, a.Parent())
}

func TestNode_WorldMatrixComposesParents(t *testing.T) {
	parent := NewNode("parent", WithTransform(mgl32.Translate3D(1, 0, 0)))
	child := NewNode("child", WithTRS([3]float32{0, 2, 0}, [4]float32{}, [3]float32{}))
	parent.AddChild(child)

	p := child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 1, p.X(), 1e-6)
	assert.InDelta(t, 2, p.Y(), 1e-6)
	assert.InDelta(t, 0, p.Z(), 1e-6)
}

func TestNode_WalkSkipsHiddenSubtrees(t *testing.T) {
	hidden := NewNode("hidden", WithChildren(NewNode("under-hidden")))
	hidden.SetVisible(false)
	root := NewNode("root", WithChildren(NewNode("a", WithChildren(NewNode("b"))), hidden))

	var names []string
	root.Walk(func(n *Node, _ mgl32.Mat4) bool {
		names = append(names, n.Name())
		return true
	})
	assert.Equal(t, []string{"root", "a", "b"}, names)
}

func TestNode_FindAndMeshCount(t *testing.T) {
	mesh := model.NewBoxMesh("box", 1, 1, 1, 1, nil)
	root := NewNode("root", WithChildren(
		NewNode("a", WithMesh(mesh)),
		NewNode("b", WithChildren(NewNode("c", WithMesh(mesh)))),
	))

	assert.Equal(t, 2, root.MeshCount())
	require.NotNil(t, root.Find("c"))
	assert.Same(t, mesh, root.Find("c").Mesh())
	assert.Nil(t, root.Find("missing"))
}

func TestScene_Defaults(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultBackground, s.BackgroundHex())
	assert.Nil(t, s.Model())
	assert.Empty(t, s.Lights())
	assert.Equal(t, 0, s.MeshCount())
	assert.NotNil(t, s.Root())
}

func TestScene_BackgroundRoundTrip(t *testing.T) {
	s := New(WithBackgroundHex(0x000000))
	for _, hex := range []uint32{0x87ceeb, 0x123456, 0xffffff, 0x000001} {
		s.SetBackgroundHex(hex)
		assert.Equal(t, hex, s.BackgroundHex())
	}
	s.SetBackgroundHex(0xff123456)
	assert.Equal(t, uint32(0x123456), s.BackgroundHex())
}

func TestScene_SetModelReplacesPrevious(t *testing.T) {
	s := New()
	first := NewNode("first")
	second := NewNode("second")

	s.SetModel(first)
	assert.Same(t, first, s.Model())
	assert.Same(t, s.Root(), first.Parent())

	s.SetModel(second)
	assert.Same(t, second, s.Model())
	assert.Nil(t, first.Parent())
	assert.Equal(t, []*Node{second}, s.Root().Children())

	s.SetModel(nil)
	assert.Nil(t, s.Model())
	assert.Empty(t, s.Root().Children())
}

func TestScene_RemoveClearsModelSlot(t *testing.T) {
	s := New()
	m := NewNode("model")
	s.SetModel(m)

	assert.True(t, s.Remove(m))
	assert.Nil(t, s.Model())
}

func TestScene_VisitMeshesUsesWorldTransform(t *testing.T) {
	mesh := model.NewBoxMesh("box", 1, 1, 1, 1, nil)
	s := New(WithNodes(
		NewNode("group", WithTransform(mgl32.Translate3D(0, 0, 5)), WithChildren(
			NewNode("box", WithMesh(mesh), WithTransform(mgl32.Translate3D(1, 0, 0))),
		)),
	))

	var worlds []mgl32.Mat4
	s.VisitMeshes(func(m *model.Mesh, world mgl32.Mat4) {
		assert.Same(t, mesh, m)
		worlds = append(worlds, world)
	})
	require.Len(t, worlds, 1)
	assert.InDelta(t, 1, worlds[0].At(0, 3), 1e-6)
	assert.InDelta(t, 5, worlds[0].At(2, 3), 1e-6)
}

func TestScene_Lights(t *testing.T) {
	ambient := light.NewAmbientLight(light.WithIntensity(0.5))
	sun := light.NewDirectionalLight(light.WithPosition(5, 5, 5))
	s := New(WithLights(ambient))
	s.AddLight(sun)
	s.AddLight(nil)

	lights := s.Lights()
	require.Len(t, lights, 2)
	assert.Same(t, ambient, lights[0])
	assert.Same(t, sun, lights[1])
}
