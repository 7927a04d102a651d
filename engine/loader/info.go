package loader

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// ModelInfo summarizes a loaded model for diagnostics.
type ModelInfo struct {
	Path      string
	Nodes     int
	Meshes    int
	Vertices  int
	Triangles int
	Materials []string
	BoundsMin [3]float32
	BoundsMax [3]float32
}

// Describe walks a model root and reports counts and the world-space bounding box.
//
// Parameters:
//   - path: the source file, copied into the summary
//   - root: the model root
//
// Returns:
//   - ModelInfo: the summary
func Describe(path string, root *scene.Node) ModelInfo {
	info := ModelInfo{Path: path}
	if root == nil {
		return info
	}

	seenMaterials := make(map[*model.Material]bool)
	first := true
	root.Walk(func(n *scene.Node, world mgl32.Mat4) bool {
		info.Nodes++
		m := n.Mesh()
		if m == nil {
			return true
		}
		info.Meshes++
		info.Vertices += len(m.Vertices)
		info.Triangles += m.TriangleCount()
		if m.Material != nil && !seenMaterials[m.Material] {
			seenMaterials[m.Material] = true
			info.Materials = append(info.Materials, m.Material.Name)
		}
		for _, v := range m.Vertices {
			p := world.Mul4x1(mgl32.Vec4{v.Position[0], v.Position[1], v.Position[2], 1})
			for i := range 3 {
				if first {
					info.BoundsMin[i], info.BoundsMax[i] = p[i], p[i]
					continue
				}
				info.BoundsMin[i] = min(info.BoundsMin[i], p[i])
				info.BoundsMax[i] = max(info.BoundsMax[i], p[i])
			}
			first = false
		}
		return true
	})
	return info
}
