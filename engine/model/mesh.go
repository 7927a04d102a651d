package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list with a material.
// Vertex and index data are immutable after construction; the renderer uploads them once.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the interleaved vertex attributes.
	Vertices []GPUVertex

	// Indices are triangle-list indices into Vertices.
	Indices []uint32

	// Material is the surface description, or nil for DefaultMaterial.
	Material *Material

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// NewMesh creates a mesh and computes its bounding box.
// A nil index slice is replaced by the sequential list 0..len(vertices)-1.
//
// Parameters:
//   - name: the mesh identifier
//   - vertices: the vertex data
//   - indices: triangle-list indices, or nil for non-indexed geometry
//   - mat: the material, or nil
//
// Returns:
//   - *Mesh: the mesh
func NewMesh(name string, vertices []GPUVertex, indices []uint32, mat *Material) *Mesh {
	if indices == nil {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
		Material: mat,
	}
	m.computeBounds()
	return m
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// ComputeFlatNormals overwrites vertex normals with area-weighted face normals
// accumulated per vertex. Used when a model file carries no normals.
func (m *Mesh) ComputeFlatNormals() {
	acc := make([]mgl32.Vec3, len(m.Vertices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if int(i0) >= len(acc) || int(i1) >= len(acc) || int(i2) >= len(acc) {
			continue
		}
		p0 := mgl32.Vec3(m.Vertices[i0].Position)
		p1 := mgl32.Vec3(m.Vertices[i1].Position)
		p2 := mgl32.Vec3(m.Vertices[i2].Position)
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[i0] = acc[i0].Add(n)
		acc[i1] = acc[i1].Add(n)
		acc[i2] = acc[i2].Add(n)
	}
	for i, n := range acc {
		if n.Len() > 0 {
			m.Vertices[i].Normal = n.Normalize()
		} else {
			m.Vertices[i].Normal = [3]float32{0, 1, 0}
		}
	}
}

func (m *Mesh) computeBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	m.BoundingMin = m.Vertices[0].Position
	m.BoundingMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			m.BoundingMin[i] = min(m.BoundingMin[i], v.Position[i])
			m.BoundingMax[i] = max(m.BoundingMax[i], v.Position[i])
		}
	}
}
