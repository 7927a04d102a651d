package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: from-file.glb\nwindow:\n  width: 1024\n"), 0o644))

	f := &flags{}
	cmd := newRootCommand(f)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--height", "480", "--demo-box", "--panel-addr", ""}))

	cfg, err := loadConfig(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, "from-file.glb", cfg.Model)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.True(t, cfg.DemoBox)
	assert.Empty(t, cfg.PanelAddr)
	assert.Equal(t, "bump1.jpg", cfg.BumpMap)
}

func TestLoadConfig_RejectsInvalidFlags(t *testing.T) {
	f := &flags{}
	cmd := newRootCommand(f)
	require.NoError(t, cmd.ParseFlags([]string{"--width=-5"}))

	_, err := loadConfig(cmd, f)
	require.Error(t, err)
}

func TestInfoCommand(t *testing.T) {
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       "tri",
		Primitives: []*gltf.Primitive{{Attributes: map[string]uint32{gltf.POSITION: positions}}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "tri", Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	path := filepath.Join(t.TempDir(), "tri.glb")
	file, err := os.Create(path)
	require.NoError(t, err)
	encoder := gltf.NewEncoder(file)
	encoder.AsBinary = true
	require.NoError(t, encoder.Encode(doc))
	require.NoError(t, file.Close())

	var out bytes.Buffer
	cmd := newRootCommand(&flags{})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"info", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Meshes: (int) 1")
	assert.Contains(t, out.String(), "Triangles: (int) 1")
}

func TestInfoCommand_MissingFile(t *testing.T) {
	cmd := newRootCommand(&flags{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"info", filepath.Join(t.TempDir(), "missing.glb")})
	require.Error(t, cmd.Execute())
}
