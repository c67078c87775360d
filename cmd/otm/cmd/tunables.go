package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/gesture"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/rotation"
)

// tunableFlags are the gesture overrides shared by view and replay.
type tunableFlags struct {
	config string
	mode   string
	metric string
}

func (f *tunableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.config, "config", "", "gesture tunables file (JSON)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "rotation mode: edge or gear")
	cmd.Flags().StringVar(&f.metric, "metric", "", "spin metric: area, circles or compound")
}

// load reads the tunables from path, or uses the defaults when path is
// empty, and then applies the flag overrides.
func (f *tunableFlags) load(path string) (gesture.Config, error) {
	cfg := gesture.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = gesture.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if f.mode != "" {
		m, err := rotation.ParseMode(f.mode)
		if err != nil {
			return cfg, fmt.Errorf("--mode: %w", err)
		}
		cfg.Rotation.Mode = m
	}
	if f.metric != "" {
		m, err := geometry.ParseMetric(f.metric)
		if err != nil {
			return cfg, fmt.Errorf("--metric: %w", err)
		}
		cfg.Metric = m
	}
	return cfg, cfg.Validate()
}
