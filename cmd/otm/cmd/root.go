package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/gesture"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otm",
	Short: "OpenTraceMap - gesture-driven map camera",
	Long: `OpenTraceMap (otm) interprets pointer gestures into map camera moves:
  - one-finger drag pans with the anchor kept under the finger
  - circling the finger zooms (clockwise in, counter-clockwise out)
  - holding near a side edge rotates the map
  - two fingers pinch-zoom, rotate and pan
  - releasing a fling keeps the map gliding

Examples:
  otm view                              # Open the interactive viewer
  otm view --mode gear --metric area    # Try other tunables
  otm replay spin.gs --trace            # Replay a gesture script
  otm config default > gestures.json    # Dump default tunables`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			gesture.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log gesture diagnostics to stderr")
}
