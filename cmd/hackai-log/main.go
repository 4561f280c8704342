// Package main is the entry point for the hackai-log CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/helixml/hackai-log/infrastructure/terminal"
	"github.com/helixml/hackai-log/internal/config"
	"github.com/helixml/hackai-log/internal/log"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultConfigPath is read when --config is not given. A missing default
// file is not an error.
const defaultConfigPath = ".env"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = log.WithCorrelationID(ctx, uuid.NewString())

	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		terminal.NewPrinter(os.Stderr).Error(err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hackai-log",
		Short: "Document pull requests with the AI chats behind them",
		Long: `hackai-log gathers the diff of a merged pull request and the AI assistant
chats stored by the editor, and renders them as documentation pages.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().String("config", defaultConfigPath, "Path to .env file")

	cmd.AddCommand(prCmd())
	cmd.AddCommand(diffCmd())
	cmd.AddCommand(chatsCmd())
	cmd.AddCommand(generateCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from the .env file named by --config and
// the environment, then checks the settings the command requires.
func loadConfig(cmd *cobra.Command, requirements ...config.Requirement) (config.AppConfig, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return config.AppConfig{}, err
	}

	cfg, err := config.LoadConfig(path, flags.Changed("config"))
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(requirements...); err != nil {
		return config.AppConfig{}, err
	}
	return cfg, nil
}

// setup loads configuration and installs the logger as the default.
func setup(cmd *cobra.Command, requirements ...config.Requirement) (config.AppConfig, *log.Logger, error) {
	cfg, err := loadConfig(cmd, requirements...)
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	return cfg, log.Configure(cfg), nil
}
