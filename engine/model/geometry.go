package model

// NewBoxGeometry builds an axis-aligned box centered on the origin with each face
// subdivided into a grid. Every face has its own vertices so normals stay flat, and
// UVs span [0, 1] per face.
//
// Parameters:
//   - width, height, depth: box extents along x, y and z
//   - widthSegments, heightSegments, depthSegments: grid subdivisions per axis (minimum 1)
//
// Returns:
//   - []GPUVertex: the vertices
//   - []uint32: counter-clockwise triangle-list indices
func NewBoxGeometry(width, height, depth float32, widthSegments, heightSegments, depthSegments int) ([]GPUVertex, []uint32) {
	widthSegments = max(widthSegments, 1)
	heightSegments = max(heightSegments, 1)
	depthSegments = max(depthSegments, 1)

	b := &boxBuilder{}
	// axis indices: 0 = x, 1 = y, 2 = z
	b.plane(2, 1, 0, -1, -1, depth, height, width, depthSegments, heightSegments)  // +x
	b.plane(2, 1, 0, 1, -1, depth, height, -width, depthSegments, heightSegments)  // -x
	b.plane(0, 2, 1, 1, 1, width, depth, height, widthSegments, depthSegments)     // +y
	b.plane(0, 2, 1, 1, -1, width, depth, -height, widthSegments, depthSegments)   // -y
	b.plane(0, 1, 2, 1, -1, width, height, depth, widthSegments, heightSegments)   // +z
	b.plane(0, 1, 2, -1, -1, width, height, -depth, widthSegments, heightSegments) // -z
	return b.vertices, b.indices
}

// NewBoxMesh builds a box mesh with the given material.
func NewBoxMesh(name string, width, height, depth float32, segments int, mat *Material) *Mesh {
	vertices, indices := NewBoxGeometry(width, height, depth, segments, segments, segments)
	return NewMesh(name, vertices, indices, mat)
}

type boxBuilder struct {
	vertices []GPUVertex
	indices  []uint32
}

// plane appends one subdivided face. u and v are the in-plane axes, w the face normal axis;
// udir and vdir flip the in-plane axes so every face winds counter-clockwise from outside.
func (b *boxBuilder) plane(u, v, w int, udir, vdir float32, width, height, depth float32, gridX, gridY int) {
	segW := width / float32(gridX)
	segH := height / float32(gridY)
	halfW := width / 2
	halfH := height / 2
	halfD := depth / 2

	normal := float32(1)
	if depth < 0 {
		normal = -1
	}

	start := uint32(len(b.vertices))
	for iy := 0; iy <= gridY; iy++ {
		y := float32(iy)*segH - halfH
		for ix := 0; ix <= gridX; ix++ {
			x := float32(ix)*segW - halfW

			var vert GPUVertex
			vert.Position[u] = x * udir
			vert.Position[v] = y * vdir
			vert.Position[w] = halfD
			vert.Normal[w] = normal
			vert.TexCoord = [2]float32{float32(ix) / float32(gridX), float32(iy) / float32(gridY)}
			b.vertices = append(b.vertices, vert)
		}
	}

	row := uint32(gridX + 1)
	for iy := 0; iy < gridY; iy++ {
		for ix := 0; ix < gridX; ix++ {
			a := start + uint32(ix) + row*uint32(iy)
			bb := start + uint32(ix) + row*uint32(iy+1)
			c := start + uint32(ix+1) + row*uint32(iy+1)
			d := start + uint32(ix+1) + row*uint32(iy)
			b.indices = append(b.indices, a, bb, d, bb, c, d)
		}
	}
}
