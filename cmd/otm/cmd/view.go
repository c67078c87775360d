package cmd

import (
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"github.com/golang/geo/s2"
	"github.com/spf13/cobra"

	appui "github.com/OpenTraceLab/OpenTraceMap/internal/ui"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/gesture"
)

var (
	viewFlags tunableFlags
	viewLat   float64
	viewLng   float64
	viewZoom  float64
	viewDark  bool
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive map viewer",
	Long: `Opens a Gio window with a graticule map driven by the gesture core.

Controls:
  Drag              - Pan
  Circle the finger - Zoom (clockwise in)
  Hold at an edge   - Rotate
  Two fingers       - Pinch zoom, rotate and pan
  Scroll wheel      - Zoom at the cursor
  + / -             - Zoom at the center
  R                 - Face north

Without --config the tunables come from the per-user config file, which
the viewer's save button also writes.`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	viewFlags.register(viewCmd)
	viewCmd.Flags().Float64Var(&viewLat, "lat", 48.8566, "initial center latitude")
	viewCmd.Flags().Float64Var(&viewLng, "lng", 2.3522, "initial center longitude")
	viewCmd.Flags().Float64Var(&viewZoom, "zoom", 5, "initial zoom level")
	viewCmd.Flags().BoolVar(&viewDark, "dark", false, "dark palette")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	path := viewFlags.config
	if path == "" {
		p, err := gesture.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := viewFlags.load(path)
	if err != nil {
		return err
	}
	fmt.Printf("Tunables: %s (metric %s, rotation %s)\n", path, cfg.Metric, cfg.Rotation.Mode)

	opts := appui.Options{
		Config:     cfg,
		ConfigPath: path,
		Center:     s2.LatLngFromDegrees(viewLat, viewLng),
		Zoom:       viewZoom,
		DarkMode:   viewDark,
	}
	go func() {
		w := new(app.Window)
		if err := appui.New(w, opts).Run(); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}
