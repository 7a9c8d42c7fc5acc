// Package main runs the link page server and its operator tools.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	linkpagecmd "github.com/digitalexpert/linkpage/internal/cmd/linkpage"
	platformcmd "github.com/digitalexpert/linkpage/internal/platform/cmd"
	"github.com/digitalexpert/linkpage/internal/platform/config"
	"github.com/digitalexpert/linkpage/internal/platform/logging"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := linkpagecmd.LoadConfig()
	if err != nil {
		config.Exitf("%s", color.RedString("error: %v", err))
	}
	if err := newRootCmd(&cfg).ExecuteContext(ctx); err != nil {
		stop()
		config.Exitf("%s", color.RedString("error: %v", err))
	}
}

func newRootCmd(cfg *linkpagecmd.Config) *cobra.Command {
	serve := func(cmd *cobra.Command, _ []string) error {
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		return platformcmd.RunWithTelemetry(cmd.Context(), platformcmd.ServiceWeb, runOptions(cfg, logger), func(ctx context.Context) error {
			return linkpagecmd.Serve(ctx, *cfg, logger)
		})
	}

	root := &cobra.Command{
		Use:           "linkpage",
		Short:         "Link-in-bio page with an expert chat",
		Args:          cobra.NoArgs,
		RunE:          serve,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	linkpagecmd.BindFlags(root.PersistentFlags(), cfg)
	linkpagecmd.BindServeFlags(root.Flags(), cfg)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the page (default)",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	linkpagecmd.BindServeFlags(serveCmd.Flags(), cfg)

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the site file and translations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return linkpagecmd.Check(*cfg, cmd.OutOrStdout())
		},
	}

	var tipLang string
	tipCmd := &cobra.Command{
		Use:   "tip",
		Short: "Print one expert tip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return linkpagecmd.PrintTip(cmd.Context(), *cfg, tipLang, cmd.OutOrStdout(), logger)
		},
	}
	tipCmd.Flags().StringVar(&tipLang, "lang", "en", "tip language")
	tipCmd.Flags().StringVar(&cfg.AIProvider, "ai-provider", cfg.AIProvider, "generative provider: gemini, openai or none")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve link and expert tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return platformcmd.RunWithTelemetry(cmd.Context(), platformcmd.ServiceMCP, runOptions(cfg, logger), func(ctx context.Context) error {
				return linkpagecmd.ServeMCP(ctx, *cfg, logger)
			})
		},
	}
	mcpCmd.Flags().StringVar(&cfg.AIProvider, "ai-provider", cfg.AIProvider, "generative provider: gemini, openai or none")

	root.AddCommand(serveCmd, checkCmd, tipCmd, mcpCmd)
	return root
}

func runOptions(cfg *linkpagecmd.Config, logger *zap.Logger) platformcmd.RunOptions {
	return platformcmd.RunOptions{Logger: logger, Telemetry: cfg.Telemetry()}
}

// newLogger writes to stderr so stdout stays free for tip output and MCP.
func newLogger(cfg *linkpagecmd.Config) (*zap.Logger, error) {
	return logging.New(logging.Config{Level: cfg.LogLevel, Format: logging.Format(cfg.LogFormat)})
}
