package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	bg, err := cfg.BackgroundHex()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x87CEEB), bg)
	assert.Equal(t, [3]float32{2, 2, 2}, cfg.Camera.Position)
	assert.Equal(t, float32(0.25), cfg.Camera.DampingFactor)
	assert.Equal(t, "scene.glb", cfg.Model)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
model: models/helmet.glb
background: "#ff0000"
camera:
  damping_factor: 0.1
lights:
  directional_position: [1, 2, 3]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "models/helmet.glb", cfg.Model)
	assert.Equal(t, float32(0.1), cfg.Camera.DampingFactor)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Lights.DirectionalPosition)
	// untouched keys keep defaults
	assert.Equal(t, float32(75), cfg.Camera.FovDegrees)
	assert.Equal(t, float32(0.5), cfg.Lights.AmbientIntensity)

	bg, err := cfg.BackgroundHex()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF0000), bg)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":          "window: [",
		"ambient too high":  "lights:\n  ambient_intensity: 1.5\n",
		"position range":    "lights:\n  directional_position: [0, 11, 0]\n",
		"directional range": "lights:\n  directional_intensity: 3\n",
		"bad background":    "background: blue\n",
		"zero damping":      "camera:\n  damping_factor: 0\n",
		"bad window":        "window:\n  width: 0\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
