package main

import (
	"fmt"

	hackailog "github.com/helixml/hackai-log"
	"github.com/helixml/hackai-log/infrastructure/terminal"
	"github.com/helixml/hackai-log/internal/config"
	"github.com/spf13/cobra"
)

func prCmd() *cobra.Command {
	var number int

	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Summarize the diff of a pull request",
		Long: `Fetch a pull request from GitHub and summarize the diff of its merge commit.

Environment variables:
  GITHUB_TOKEN                 Token used for the GitHub API
  GITHUB_OWNER                 Repository owner
  GITHUB_REPO                  Repository name
  MAX_HUNK_LINES               Changed lines kept per hunk (default: 20)
  CONTEXT_LINES                Context allowance when cropping (default: 3)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPR(cmd, number)
		},
	}

	cmd.Flags().IntVar(&number, "pr", 0, "Pull request number")
	_ = cmd.MarkFlagRequired("pr")

	return cmd
}

func runPR(cmd *cobra.Command, number int) error {
	if number <= 0 {
		return fmt.Errorf("--pr must be a positive number, got %d", number)
	}

	cfg, logger, err := setup(cmd, config.RequireGitHub)
	if err != nil {
		return err
	}

	client, err := hackailog.New(append(clientOptions(cfg), hackailog.WithLogger(logger.Slog()))...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	summary, err := client.Diffs.Summarize(cmd.Context(), number)
	if err != nil {
		return err
	}

	terminal.NewPrinter(cmd.OutOrStdout()).Summary(summary)
	return nil
}
