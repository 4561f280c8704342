package main

import (
	hackailog "github.com/helixml/hackai-log"
	"github.com/helixml/hackai-log/infrastructure/terminal"
	"github.com/spf13/cobra"
)

func diffCmd() *cobra.Command {
	var (
		repo string
		rev  string
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Summarize the diff of a local commit",
		Long: `Summarize the diff a commit in a local repository introduced.

The git library is selected with GIT_PROVIDER (gogit or gitea).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, repo, rev)
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "Path to the local repository")
	cmd.Flags().StringVar(&rev, "rev", "HEAD", "Revision to summarize")

	return cmd
}

func runDiff(cmd *cobra.Command, repo, rev string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	client, err := hackailog.New(append(clientOptions(cfg), hackailog.WithLogger(logger.Slog()))...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	summary, err := client.Diffs.SummarizeLocal(cmd.Context(), repo, rev)
	if err != nil {
		return err
	}

	terminal.NewPrinter(cmd.OutOrStdout()).Summary(summary)
	return nil
}
