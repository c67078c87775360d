package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/script"
)

var (
	replayFlags tunableFlags
	replayTrace bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay a gesture script against the reference view",
	Long: `Parses a gesture script, feeds its pointer events through the gesture
core with a simulated frame clock and prints the resulting camera.

With --trace every frame is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayFlags.register(replayCmd)
	replayCmd.Flags().BoolVar(&replayTrace, "trace", false, "print every frame")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := replayFlags.load(replayFlags.config)
	if err != nil {
		return err
	}
	f, err := script.ParseFile(args[0])
	if err != nil {
		return err
	}
	prog, err := script.Compile(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	res, err := script.Run(prog, script.Options{Config: cfg, Trace: replayTrace})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if replayTrace {
		if err := res.WriteTrace(out); err != nil {
			return err
		}
	}
	s := res.Snapshot.Stats
	fmt.Fprintf(out, "final: %s\n", res.Final)
	fmt.Fprintf(out, "events: %d forwarded, %d dropped\n", res.Pointer.Forwarded, res.Pointer.Dropped)
	fmt.Fprintf(out, "gestures: %d moves, %d zoom steps, %d wheel steps, %d rotation steps, %d pinch frames, %d flings\n",
		s.Moves, s.ZoomSteps, s.WheelSteps, s.RotationSteps, s.PinchFrames, s.Inertias)
	if res.Feedback > 0 {
		fmt.Fprintf(os.Stderr, "rotation feedback shown %d times\n", res.Feedback)
	}
	return nil
}
