package loader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTriangleGLB writes a single red triangle without normals, translated by (1, 2, 3).
func writeTriangleGLB(t *testing.T, dir string, withTexture bool) string {
	t.Helper()

	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	indices := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	attributes := map[string]uint32{gltf.POSITION: positions}

	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{1, 0, 0, 1}}
	if withTexture {
		attributes[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
		imageIdx, err := modeler.WriteImage(doc, "checker", "image/png", bytes.NewReader(encodePNG(t, 2, 2)))
		require.NoError(t, err)
		doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(imageIdx)})
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: 0}
	}
	doc.Materials = append(doc.Materials, &gltf.Material{Name: "red", PBRMetallicRoughness: pbr})

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: attributes,
			Material:   gltf.Index(0),
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name:        "tri",
		Mesh:        gltf.Index(0),
		Translation: [3]float32{1, 2, 3},
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(dir, "triangle.glb")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	encoder := gltf.NewEncoder(f)
	encoder.AsBinary = true
	require.NoError(t, encoder.Encode(doc))
	return path
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(255 * x), G: uint8(255 * y), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// queueDispatcher collects dispatched callbacks so tests can run them like a render loop.
type queueDispatcher struct {
	ch chan func()
}

func newQueueDispatcher() *queueDispatcher {
	return &queueDispatcher{ch: make(chan func(), 64)}
}

func (q *queueDispatcher) post(fn func()) {
	q.ch <- fn
}

func (q *queueDispatcher) drain() int {
	n := 0
	for {
		select {
		case fn := <-q.ch:
			fn()
			n++
		default:
			return n
		}
	}
}

func TestLoader_LoadModelSuccess(t *testing.T) {
	path := writeTriangleGLB(t, t.TempDir(), false)
	q := newQueueDispatcher()
	l := NewLoader(WithDispatcher(q.post), WithWorkers(1))
	defer l.Close()

	var loaded *scene.Node
	var lastProgress [2]int64
	errored := false
	future := l.LoadModel(path,
		func(n *scene.Node) { loaded = n },
		func(done, total int64) { lastProgress = [2]int64{done, total} },
		func(error) { errored = true },
	)

	root, err := future.Result()
	require.NoError(t, err)
	require.NotNil(t, root)

	// callbacks wait for the loop
	assert.Nil(t, loaded)
	assert.Positive(t, q.drain())
	assert.Same(t, root, loaded)
	assert.False(t, errored)
	assert.Equal(t, lastProgress[0], lastProgress[1])
	assert.Positive(t, lastProgress[1])

	assert.Equal(t, "triangle.glb", root.Name())
	tri := root.Find("tri")
	require.NotNil(t, tri)
	mesh := tri.Mesh()
	require.NotNil(t, mesh)
	assert.Len(t, mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	for _, v := range mesh.Vertices {
		assert.InDelta(t, 1, v.Normal[2], 1e-6, "normals are generated when missing")
	}
	require.NotNil(t, mesh.Material)
	assert.Equal(t, "red", mesh.Material.Name)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, mesh.Material.BaseColor)

	world := tri.WorldMatrix()
	assert.InDelta(t, 1, world.At(0, 3), 1e-6)
	assert.InDelta(t, 2, world.At(1, 3), 1e-6)
	assert.InDelta(t, 3, world.At(2, 3), 1e-6)
}

func TestLoader_EmbeddedTexture(t *testing.T) {
	path := writeTriangleGLB(t, t.TempDir(), true)
	l := NewLoader()
	defer l.Close()

	root, err := l.Load(path)
	require.NoError(t, err)
	mesh := root.Find("tri").Mesh()
	require.NotNil(t, mesh.Material.BaseColorTexture)
	tex := mesh.Material.BaseColorTexture
	assert.Equal(t, uint32(2), tex.Data.Width)
	assert.Equal(t, uint32(2), tex.Data.Height)
	assert.Len(t, tex.Data.Pixels, 16)
	assert.Equal(t, float32(1), mesh.Vertices[1].TexCoord[0])
}

func TestLoader_LoadModelCachesByPath(t *testing.T) {
	path := writeTriangleGLB(t, t.TempDir(), false)
	l := NewLoader()
	defer l.Close()

	first, err := l.LoadModel(path, nil, nil, nil).Result()
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	second, err := l.LoadModel(path, nil, nil, nil).Result()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, first, l.Get(path))
}

func TestLoader_LoadModelFailures(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.glb")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a model"), 0o644))

	tests := []struct {
		name        string
		path        string
		unsupported bool
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.glb")},
		{name: "corrupt file", path: corrupt},
		{name: "unsupported extension", path: filepath.Join(dir, "model.obj"), unsupported: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQueueDispatcher()
			l := NewLoader(WithDispatcher(q.post))
			defer l.Close()

			loadCalled := false
			var gotErr error
			_, err := l.LoadModel(tt.path,
				func(*scene.Node) { loadCalled = true },
				nil,
				func(err error) { gotErr = err },
			).Result()
			require.Error(t, err)
			q.drain()

			assert.False(t, loadCalled)
			require.Error(t, gotErr)
			assert.Equal(t, tt.unsupported, errors.Is(gotErr, ErrUnsupportedFormat))
			assert.Nil(t, l.Get(tt.path))
		})
	}
}

func TestLoader_LoadTexture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bump1.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 4, 2), 0o644))

	l := NewLoader()
	defer l.Close()

	tex, err := l.LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), tex.Data.Width)
	assert.Equal(t, uint32(2), tex.Data.Height)
	assert.Equal(t, path, tex.Name)

	again, err := l.LoadTexture(path)
	require.NoError(t, err)
	assert.Same(t, tex, again)

	_, err = l.LoadTexture(filepath.Join(dir, "notes.txt"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = l.LoadTexture(filepath.Join(dir, "missing.jpg"))
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	path := writeTriangleGLB(t, t.TempDir(), false)
	l := NewLoader()
	defer l.Close()

	root, err := l.Load(path)
	require.NoError(t, err)

	info := Describe(path, root)
	assert.Equal(t, 2, info.Nodes)
	assert.Equal(t, 1, info.Meshes)
	assert.Equal(t, 3, info.Vertices)
	assert.Equal(t, 1, info.Triangles)
	assert.Equal(t, []string{"red"}, info.Materials)
	assert.InDeltaSlice(t, []float32{1, 2, 3}, info.BoundsMin[:], 1e-6)
	assert.InDeltaSlice(t, []float32{2, 3, 3}, info.BoundsMax[:], 1e-6)
}
