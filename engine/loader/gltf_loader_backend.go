package loader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfLoaderBackend imports .gltf and .glb files with github.com/qmuntal/gltf.
type gltfLoaderBackend struct{}

var _ loaderBackend = &gltfLoaderBackend{}

func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackend{}
}

func (b *gltfLoaderBackend) Load(path string, progress ProgressFunc) (*scene.Node, error) {
	total := int64(-1)
	if info, err := os.Stat(path); err == nil {
		total = info.Size()
	}
	progress(0, total)

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse glTF")
	}
	progress(total, total)

	imp := &gltfImport{
		doc:       doc,
		dir:       filepath.Dir(path),
		meshes:    make(map[int][]*model.Mesh),
		materials: make(map[int]*model.Material),
		textures:  make(map[int]*model.Texture),
		visiting:  make(map[int]bool),
	}
	root, err := imp.build(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if root.MeshCount() == 0 {
		return nil, errors.New("file contains no drawable meshes")
	}
	return root, nil
}

// gltfImport holds the per-file conversion state. glTF meshes, materials and textures may be
// referenced many times; each is converted once.
type gltfImport struct {
	doc *gltf.Document
	dir string

	meshes    map[int][]*model.Mesh
	materials map[int]*model.Material
	textures  map[int]*model.Texture
	visiting  map[int]bool
}

// build creates the model root with one child per node of the default scene.
// Files without scenes use every parentless node; files without nodes use every mesh.
func (imp *gltfImport) build(name string) (*scene.Node, error) {
	root := scene.NewNode(name)

	if len(imp.doc.Nodes) == 0 {
		for i := range imp.doc.Meshes {
			child, err := imp.meshNode(fmt.Sprintf("mesh%d", i), i)
			if err != nil {
				return nil, err
			}
			root.AddChild(child)
		}
		return root, nil
	}

	for _, idx := range imp.rootNodes() {
		child, err := imp.node(idx)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	return root, nil
}

func (imp *gltfImport) rootNodes() []int {
	doc := imp.doc
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			sceneIdx = int(*doc.Scene)
		}
		var roots []int
		for _, n := range doc.Scenes[sceneIdx].Nodes {
			roots = append(roots, int(n))
		}
		if len(roots) > 0 {
			return roots
		}
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots
}

func (imp *gltfImport) node(idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(imp.doc.Nodes) {
		return nil, errors.Errorf("node index %d out of range", idx)
	}
	if imp.visiting[idx] {
		return nil, errors.Errorf("node %d is its own ancestor", idx)
	}
	imp.visiting[idx] = true
	defer delete(imp.visiting, idx)

	gn := imp.doc.Nodes[idx]
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node%d", idx)
	}

	var n *scene.Node
	if gn.Mesh != nil {
		var err error
		n, err = imp.meshNode(name, int(*gn.Mesh))
		if err != nil {
			return nil, err
		}
	} else {
		n = scene.NewNode(name)
	}
	n.SetLocal(nodeTransform(gn))

	for _, c := range gn.Children {
		child, err := imp.node(int(c))
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// meshNode returns a node drawing every primitive of a glTF mesh. A single primitive is
// carried by the node itself; additional primitives become children.
func (imp *gltfImport) meshNode(name string, meshIdx int) (*scene.Node, error) {
	meshes, err := imp.mesh(meshIdx)
	if err != nil {
		return nil, err
	}
	n := scene.NewNode(name)
	for i, m := range meshes {
		if i == 0 {
			n.SetMesh(m)
			continue
		}
		n.AddChild(scene.NewNode(fmt.Sprintf("%s/%d", name, i), scene.WithMesh(m)))
	}
	return n, nil
}

func (imp *gltfImport) mesh(idx int) ([]*model.Mesh, error) {
	if cached, ok := imp.meshes[idx]; ok {
		return cached, nil
	}
	if idx < 0 || idx >= len(imp.doc.Meshes) {
		return nil, errors.Errorf("mesh index %d out of range", idx)
	}

	gm := imp.doc.Meshes[idx]
	name := gm.Name
	if name == "" {
		name = fmt.Sprintf("mesh%d", idx)
	}

	var out []*model.Mesh
	for i, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			log.Printf("[Loader] skipping %s primitive %d: only triangle lists are drawn", name, i)
			continue
		}
		m, err := imp.primitive(fmt.Sprintf("%s/%d", name, i), prim)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %q primitive %d", name, i)
		}
		out = append(out, m)
	}
	imp.meshes[idx] = out
	return out, nil
}

func (imp *gltfImport) primitive(name string, prim *gltf.Primitive) (*model.Mesh, error) {
	doc := imp.doc

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("missing POSITION attribute")
	}
	posAccessor, err := imp.accessor(int(posIdx))
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, posAccessor, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read positions")
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := imp.accessor(int(idx))
		if err != nil {
			return nil, err
		}
		if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
			return nil, errors.Wrap(err, "failed to read normals")
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acc, err := imp.accessor(int(idx))
		if err != nil {
			return nil, err
		}
		if uvs, err = modeler.ReadTextureCoord(doc, acc, nil); err != nil {
			return nil, errors.Wrap(err, "failed to read texture coordinates")
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acc, err := imp.accessor(int(*prim.Indices))
		if err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(doc, acc, nil); err != nil {
			return nil, errors.Wrap(err, "failed to read indices")
		}
		for _, i := range indices {
			if int(i) >= len(positions) {
				return nil, errors.Errorf("index %d out of range for %d vertices", i, len(positions))
			}
		}
	}

	vertices := make([]model.GPUVertex, len(positions))
	for i, p := range positions {
		vertices[i].Position = p
		if i < len(normals) {
			vertices[i].Normal = normals[i]
		}
		if i < len(uvs) {
			vertices[i].TexCoord = uvs[i]
		}
	}

	var mat *model.Material
	if prim.Material != nil {
		if mat, err = imp.material(int(*prim.Material)); err != nil {
			return nil, err
		}
	}

	m := model.NewMesh(name, vertices, indices, mat)
	if len(normals) != len(positions) {
		m.ComputeFlatNormals()
	}
	return m, nil
}

func (imp *gltfImport) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(imp.doc.Accessors) {
		return nil, errors.Errorf("accessor index %d out of range", idx)
	}
	return imp.doc.Accessors[idx], nil
}

// nodeTransform returns the node's local matrix. glTF nodes carry either a column-major matrix
// or TRS components; an identity or zero matrix means TRS is authoritative.
func nodeTransform(n *gltf.Node) mgl32.Mat4 {
	m := mgl32.Mat4(n.Matrix)
	if m != mgl32.Ident4() && m != (mgl32.Mat4{}) {
		return m
	}
	return common.ComposeTRS(n.Translation, n.Rotation, n.Scale)
}
