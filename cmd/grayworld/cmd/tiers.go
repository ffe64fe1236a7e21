package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-grayworld/grayworld"
	"github.com/ajroetker/go-grayworld/hwy"
)

// NewTiersCmd reports the detected CPU and which tiers it can run.
func NewTiersCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "list vector tiers supported by this CPU",
		Long:  "list vector tiers supported by this CPU; HWY_NO_SIMD=1 restricts detection to scalar",
		RunE: func(cmd *cobra.Command, args []string) error {
			caps := hwy.DetectCapabilities()
			auto, err := grayworld.SelectTier(grayworld.TierAuto, caps)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cpu: %s (%d-byte vectors)\n", caps.Level, caps.MaxWidth)
			fmt.Fprintf(out, "auto: %s\n", auto)
			for _, t := range grayworld.Tiers {
				_, err := grayworld.SelectTier(t, caps)
				fmt.Fprintf(out, "  %-7s %2d lanes  supported=%t\n", t, t.Lanes(), err == nil)
			}
			return nil
		},
	}
	return cmd
}
