// Package config holds the viewer's startup configuration. Values come from
// Default, optionally overlaid by a YAML file, optionally overlaid by CLI flags.
package config

import (
	"io/fs"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the complete startup configuration for the viewer.
type Config struct {
	Window     WindowConfig `yaml:"window"`
	Model      string       `yaml:"model"`
	BumpMap    string       `yaml:"bump_map"`
	PanelAddr  string       `yaml:"panel_addr"`
	Camera     CameraConfig `yaml:"camera"`
	Lights     LightsConfig `yaml:"lights"`
	Background string       `yaml:"background"`
	FrameLimit float64      `yaml:"frame_limit"`
	Profile    bool         `yaml:"profile"`
	DemoBox    bool         `yaml:"demo_box"`
}

// WindowConfig describes the initial window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// CameraConfig describes the perspective camera and its controller.
type CameraConfig struct {
	FovDegrees    float32    `yaml:"fov_degrees"`
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	Position      [3]float32 `yaml:"position,flow"`
	Target        [3]float32 `yaml:"target,flow"`
	Damping       bool       `yaml:"damping"`
	DampingFactor float32    `yaml:"damping_factor"`
	KeyStep       float32    `yaml:"key_step"`
}

// LightsConfig describes the initial light parameters.
type LightsConfig struct {
	AmbientIntensity     float32    `yaml:"ambient_intensity"`
	DirectionalIntensity float32    `yaml:"directional_intensity"`
	DirectionalPosition  [3]float32 `yaml:"directional_position,flow"`
}

// Default returns the configuration the viewer starts with when no file or flags are given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-viewer",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Model:     "scene.glb",
		BumpMap:   "bump1.jpg",
		PanelAddr: "127.0.0.1:8088",
		Camera: CameraConfig{
			FovDegrees:    75,
			Near:          0.1,
			Far:           1000,
			Position:      [3]float32{2, 2, 2},
			Damping:       true,
			DampingFactor: 0.25,
			KeyStep:       0.1,
		},
		Lights: LightsConfig{
			AmbientIntensity:     0.5,
			DirectionalIntensity: 1,
			DirectionalPosition:  [3]float32{5, 5, 5},
		},
		Background: "#87ceeb",
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep their default value.
// An empty path or a file that does not exist yields the defaults.
//
// Parameters:
//   - path: the YAML file path (may be empty)
//
// Returns:
//   - Config: the merged and validated configuration
//   - error: error if the file cannot be read, parsed, or fails validation
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Config] %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %s", path)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate checks that every value is usable at startup.
//
// Returns:
//   - error: the first problem found, or nil
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		return errors.Errorf("camera fov_degrees must be in (0, 180), got %v", c.Camera.FovDegrees)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return errors.Errorf("camera near/far must satisfy 0 < near < far, got %v/%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.DampingFactor <= 0 || c.Camera.DampingFactor > 1 {
		return errors.Errorf("camera damping_factor must be in (0, 1], got %v", c.Camera.DampingFactor)
	}
	if c.Camera.KeyStep <= 0 {
		return errors.Errorf("camera key_step must be positive, got %v", c.Camera.KeyStep)
	}
	if c.Lights.AmbientIntensity < 0 || c.Lights.AmbientIntensity > 1 {
		return errors.Errorf("lights ambient_intensity must be in [0, 1], got %v", c.Lights.AmbientIntensity)
	}
	if c.Lights.DirectionalIntensity < 0 || c.Lights.DirectionalIntensity > 2 {
		return errors.Errorf("lights directional_intensity must be in [0, 2], got %v", c.Lights.DirectionalIntensity)
	}
	for i, v := range c.Lights.DirectionalPosition {
		if v < -10 || v > 10 {
			return errors.Errorf("lights directional_position[%d] must be in [-10, 10], got %v", i, v)
		}
	}
	if c.FrameLimit < 0 {
		return errors.Errorf("frame_limit must not be negative, got %v", c.FrameLimit)
	}
	if _, err := c.BackgroundHex(); err != nil {
		return err
	}
	return nil
}

// BackgroundHex parses the configured background color.
//
// Returns:
//   - uint32: the 24-bit RGB value
//   - error: error if the color string is malformed
func (c Config) BackgroundHex() (uint32, error) {
	return common.ParseHexColor(c.Background)
}
