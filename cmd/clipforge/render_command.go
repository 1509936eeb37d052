package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/actions"
	"github.com/clipforge/clipforge/internal/engine"
)

// renderOutput is the machine-readable result printed to stdout.
type renderOutput struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
	URL      string  `json:"url,omitempty"`
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var actionsFile string
	var actionsJSON string
	var streamURL string
	var start float64
	var duration float64
	var publish bool

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Transform a media file with an ordered list of edit actions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && streamURL == "" {
				return fmt.Errorf("either an input path or --stream-url is required")
			}

			list, err := loadActions(actionsFile, actionsJSON, ctx)
			if err != nil {
				return err
			}

			req := engine.RenderRequest{
				Actions:      list,
				TrimStart:    start,
				TrimDuration: duration,
			}

			var result *engine.RenderResult
			if streamURL != "" {
				result, err = ctx.deps.Engine.RenderStream(cmd.Context(), streamURL, req)
			} else {
				req.InputPath = args[0]
				result, err = ctx.deps.Engine.Render(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			out := renderOutput{Path: result.OutputPath, Duration: result.DurationSeconds}
			if publish {
				url, err := publishFile(cmd, ctx, result.OutputPath)
				if err != nil {
					return err
				}
				out.URL = url
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
		},
	}

	cmd.Flags().StringVar(&actionsFile, "actions", "", "Path to a JSON file with the action list")
	cmd.Flags().StringVar(&actionsJSON, "actions-json", "", "Inline JSON action list")
	cmd.Flags().StringVar(&streamURL, "stream-url", "", "Fetch the input from a remote stream URL instead of a local path")
	cmd.Flags().Float64Var(&start, "start", 0, "Timeline trim start in seconds")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Timeline trim duration in seconds")
	cmd.Flags().BoolVar(&publish, "publish", false, "Upload the rendered output to the configured S3 bucket")

	return cmd
}

// loadActions reads the action list from a file or an inline JSON
// string. Both empty means an empty list (a plain re-encode, or just a
// trim window).
func loadActions(file, inline string, ctx *commandContext) ([]actions.Action, error) {
	if file != "" && inline != "" {
		return nil, fmt.Errorf("--actions and --actions-json are mutually exclusive")
	}

	var data []byte
	switch {
	case file != "":
		b, err := os.ReadFile(file) // #nosec G304 - path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("read actions file: %w", err)
		}
		data = b
	case inline != "":
		data = []byte(inline)
	default:
		return nil, nil
	}

	return actions.DecodeList(data, ctx.logger)
}

// publishFile uploads path to the configured publish target and
// returns the public URL.
func publishFile(cmd *cobra.Command, ctx *commandContext, path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 - path was generated by this process
	if err != nil {
		return "", fmt.Errorf("open output for publish: %w", err)
	}
	defer f.Close()

	return ctx.deps.Store.Publish(cmd.Context(), filepath.Base(path), f)
}
