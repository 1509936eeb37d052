package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/bootstrap"
	"github.com/clipforge/clipforge/internal/config"
)

// commandContext carries lazily initialized dependencies shared by all
// subcommands.
type commandContext struct {
	cfg    *config.Config
	logger *slog.Logger
	deps   *bootstrap.Dependencies
}

// ensure loads configuration and initializes dependencies once. The
// external engine check runs here, at process start, never per call.
func (c *commandContext) ensure() error {
	if c.deps != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg

	c.logger = cfg.NewLogger()
	slog.SetDefault(c.logger)

	deps, err := bootstrap.NewDependencies(cfg, c.logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}
	c.deps = deps
	return nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "clipforge",
		Short:         "Local media transformation pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.ensure()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newRenderCommand(ctx))
	rootCmd.AddCommand(newStitchCommand(ctx))
	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newFetchCommand(ctx))

	return rootCmd
}
