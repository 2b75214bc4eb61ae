package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yatralens/backend/config"
	"github.com/yatralens/backend/internal/app"
	"github.com/yatralens/backend/internal/logging"
)

// commandContext lazily loads configuration and the recognition stack
type commandContext struct {
	logLevel   string
	noFallback bool

	cfg *config.Config
	app *app.App
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if c.noFallback {
		cfg.Recognition.EnableFallback = false
	}

	// stdout carries JSON results, logs go to stderr
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: os.Stderr,
	})

	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) ensureApp(ctx context.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	c.app = a
	return a, nil
}

func (c *commandContext) close() {
	if c.app != nil {
		c.app.Close()
	}
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "yatralens",
		Short:         "Recognize Indian monuments from photos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&ctx.noFallback, "no-fallback", false, "Report failures instead of simulated results when the classifier is unavailable")

	rootCmd.AddCommand(newMonumentsCommand(ctx))
	rootCmd.AddCommand(newRecognizeCommand(ctx))

	return rootCmd
}
