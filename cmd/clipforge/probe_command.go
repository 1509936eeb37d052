package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// probeOutput is the machine-readable probe summary.
type probeOutput struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
	HasAudio bool    `json:"has_audio"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <path>",
		Short: "Print duration and audio-stream presence of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc := ctx.deps.Prober.Describe(cmd.Context(), args[0])
			return json.NewEncoder(cmd.OutOrStdout()).Encode(probeOutput{
				Path:     desc.Path,
				Duration: desc.DurationSeconds,
				HasAudio: desc.HasAudio,
			})
		},
	}
}
