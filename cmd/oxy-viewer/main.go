// oxy-viewer - desktop glTF scene viewer
//
// Controls:
//
//	Left drag   - Orbit around the target
//	Right drag  - Pan
//	Scroll      - Dolly in/out
//	W/S         - Move camera along +Z/-Z
//	A/D         - Move camera along +X/-X
//	Q/E         - Move camera along -Y/+Y
//	R           - Reset camera position
//	Esc         - Quit
//
// Light and background parameters are edited in the browser panel served on --panel-addr.
package main

import (
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/viewer"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// GLFW and the WebGPU surface must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

type flags struct {
	configPath string
	model      string
	bump       string
	width      int
	height     int
	panelAddr  string
	profile    bool
	demoBox    bool
}

func main() {
	if err := newRootCommand(&flags{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oxy-viewer",
		Short: "Desktop glTF scene viewer",
		Long: `oxy-viewer - desktop glTF scene viewer

Loads one glTF/GLB model into a lit scene and renders it with WebGPU.

Controls:
  Left drag   - Orbit
  Right drag  - Pan
  Scroll      - Dolly
  W/S/A/D/Q/E - Step the camera along the world axes
  R           - Reset camera position
  Esc         - Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			v, err := viewer.New(cfg)
			if err != nil {
				return err
			}
			return v.Run()
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&f.model, "model", "", "Model to load (.gltf/.glb)")
	cmd.Flags().StringVar(&f.bump, "bump", "", "Bump map for the demo box")
	cmd.Flags().IntVar(&f.width, "width", 0, "Window width")
	cmd.Flags().IntVar(&f.height, "height", 0, "Window height")
	cmd.Flags().StringVar(&f.panelAddr, "panel-addr", "", "Parameter panel listen address, empty to disable")
	cmd.Flags().BoolVar(&f.profile, "profile", false, "Log frame rate and memory statistics")
	cmd.Flags().BoolVar(&f.demoBox, "demo-box", false, "Add a bump-mapped demo box to the scene")

	cmd.SilenceUsage = true
	cmd.AddCommand(newInfoCommand())
	return cmd
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.gltf|model.glb>",
		Short: "Display model information",
		Long:  "Load a model without opening a window and print its node, mesh, vertex and triangle counts, materials and bounding box.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args[0])
		},
	}
}

func runInfo(cmd *cobra.Command, path string) error {
	l := loader.NewLoader(loader.WithWorkers(1))
	defer l.Close()

	root, err := l.Load(path)
	if err != nil {
		return errors.Wrapf(err, "cannot load %s", path)
	}

	dump := spew.NewDefaultConfig()
	dump.DisableCapacities = true
	dump.DisablePointerAddresses = true
	dump.Fdump(cmd.OutOrStdout(), loader.Describe(path, root))
	return nil
}

// loadConfig reads the config file and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("model") {
		cfg.Model = f.model
	}
	if changed("bump") {
		cfg.BumpMap = f.bump
	}
	if changed("width") {
		cfg.Window.Width = f.width
	}
	if changed("height") {
		cfg.Window.Height = f.height
	}
	if changed("panel-addr") {
		cfg.PanelAddr = f.panelAddr
	}
	if changed("profile") {
		cfg.Profile = f.profile
	}
	if changed("demo-box") {
		cfg.DemoBox = f.demoBox
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
