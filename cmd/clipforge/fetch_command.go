package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var merge string

	cmd := &cobra.Command{
		Use:   "fetch <stream-url>",
		Short: "Download a remote stream (HLS/http) into the temp store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.deps.Store
			outputPath := store.NewFilePath("fetched", ".mp4")

			if err := ctx.deps.Engine.Fetch(cmd.Context(), args[0], outputPath); err != nil {
				return err
			}

			if merge != "" {
				// Replace the fetched copy with the merged result and
				// drop the intermediate download.
				result, err := ctx.deps.Engine.MergeAudio(cmd.Context(), outputPath, merge)
				if err != nil {
					return err
				}
				if err := store.Cleanup(cmd.Context(), []string{outputPath}); err != nil {
					ctx.logger.Warn("cleanup of fetched input failed", "error", err)
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(renderOutput{
					Path:     result.OutputPath,
					Duration: result.DurationSeconds,
				})
			}

			duration := ctx.deps.Prober.Duration(cmd.Context(), outputPath)
			return json.NewEncoder(cmd.OutOrStdout()).Encode(renderOutput{
				Path:     outputPath,
				Duration: duration,
			})
		},
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&merge, "merge-audio", "", "Mux this local audio file onto the fetched video")

	return cmd
}
