package main

import (
	"fmt"

	hackailog "github.com/helixml/hackai-log"
	"github.com/helixml/hackai-log/infrastructure/terminal"
	"github.com/helixml/hackai-log/internal/config"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	var (
		number  int
		filters filterFlags
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the MDX page of a pull request",
		Long: `Summarize a pull request and the chats behind it and write the result to
MDX_OUTPUT_PATH/pr-<n>.mdx.

Chats are read from SQLITE_DB_PATH when it is set; otherwise the page has
no chat section.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, number, &filters)
		},
	}

	cmd.Flags().IntVar(&number, "pr", 0, "Pull request number")
	_ = cmd.MarkFlagRequired("pr")
	filters.register(cmd)

	return cmd
}

func runGenerate(cmd *cobra.Command, number int, filters *filterFlags) error {
	if number <= 0 {
		return fmt.Errorf("--pr must be a positive number, got %d", number)
	}

	cfg, logger, err := setup(cmd, config.RequireGitHub, config.RequireOutput)
	if err != nil {
		return err
	}

	client, err := hackailog.New(append(clientOptions(cfg),
		hackailog.WithLogger(logger.Slog()),
		hackailog.WithComposerSelector(terminal.NewPicker()),
	)...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	path, err := client.Pages.Generate(cmd.Context(), number, filters.options(cmd, cfg)...)
	if err != nil {
		return err
	}

	terminal.NewPrinter(cmd.OutOrStdout()).Success("Page written to " + path)
	return nil
}
