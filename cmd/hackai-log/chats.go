package main

import (
	hackailog "github.com/helixml/hackai-log"
	"github.com/helixml/hackai-log/application/service"
	"github.com/helixml/hackai-log/infrastructure/markdown"
	"github.com/helixml/hackai-log/infrastructure/terminal"
	"github.com/helixml/hackai-log/internal/config"
	"github.com/spf13/cobra"
)

func chatsCmd() *cobra.Command {
	var (
		filters    filterFlags
		asMarkdown bool
		threshold  int
	)

	cmd := &cobra.Command{
		Use:   "chats",
		Short: "Extract the AI chats stored by the editor",
		Long: `Extract the prompts stored in the editor's state database, write JSON
snapshots of them and preview the first few.

With --markdown the prompts and generations are paired into a conversation
and printed as Markdown.

Environment variables:
  SQLITE_DB_PATH               Path to the editor's state.vscdb
  SNAPSHOT_DIR                 Where extracted-*.json snapshots go (default: .)
  CHAT_NAME_FILTER             Default --name filter
  CHAT_CHARACTER_THRESHOLD     Collapse chats longer than this (default: 1000)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChats(cmd, &filters, asMarkdown, threshold)
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Print the conversation as Markdown")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Collapse threshold for --markdown (default: CHAT_CHARACTER_THRESHOLD)")

	return cmd
}

func runChats(cmd *cobra.Command, filters *filterFlags, asMarkdown bool, threshold int) error {
	cfg, logger, err := setup(cmd, config.RequireStore)
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

	ctx := cmd.Context()
	opts := filters.options(cmd, cfg)
	printer := terminal.NewPrinter(cmd.OutOrStdout())

	if asMarkdown {
		if !cmd.Flags().Changed("threshold") {
			threshold = client.CharacterThreshold()
		}
		conversation, err := client.Chats.Conversation(ctx, opts...)
		if err != nil {
			return err
		}
		printer.Markdown(markdown.RenderChat(conversation, threshold))
		return nil
	}

	prompts, err := client.Chats.Prompts(ctx, opts...)
	if err != nil {
		return err
	}
	printer.Prompts(client.SnapshotPath(service.PromptsKey), prompts)
	return nil
}
