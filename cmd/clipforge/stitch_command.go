package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/engine"
)

func newStitchCommand(ctx *commandContext) *cobra.Command {
	var clipsFile string

	cmd := &cobra.Command{
		Use:   "stitch [clip...]",
		Short: "Concatenate rendered clips into one output file",
		Long: "Concatenate rendered clips, given as exposed URLs or local paths, " +
			"into a single output. Clips that cannot be resolved are skipped " +
			"unless strict stitching is configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := collectClips(args, clipsFile)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				return fmt.Errorf("no clips given; pass paths as arguments or use --clips")
			}

			outputPath, err := ctx.deps.Stitcher.Concatenate(cmd.Context(), refs)
			if err != nil {
				return err
			}

			duration := ctx.deps.Prober.Duration(cmd.Context(), outputPath)
			return json.NewEncoder(cmd.OutOrStdout()).Encode(renderOutput{
				Path:     outputPath,
				Duration: duration,
			})
		},
	}

	cmd.Flags().StringVar(&clipsFile, "clips", "", "Path to a JSON file with an array of clip URLs/paths")

	return cmd
}

// collectClips merges positional clip arguments with an optional JSON
// file, preserving order (file entries first).
func collectClips(args []string, clipsFile string) ([]engine.ClipRef, error) {
	var refs []engine.ClipRef

	if clipsFile != "" {
		data, err := os.ReadFile(clipsFile) // #nosec G304 - path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("read clips file: %w", err)
		}
		var urls []string
		if err := json.Unmarshal(data, &urls); err != nil {
			return nil, fmt.Errorf("decode clips file: %w", err)
		}
		for _, u := range urls {
			refs = append(refs, engine.ClipRef{Ref: u})
		}
	}

	for _, a := range args {
		refs = append(refs, engine.ClipRef{Ref: a})
	}

	return refs, nil
}
