package main

import (
	"log/slog"

	hackailog "github.com/helixml/hackai-log"
	"github.com/helixml/hackai-log/infrastructure/markdown"
	"github.com/helixml/hackai-log/internal/mcp"
	"github.com/spf13/cobra"
)

func stdioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants process diffs, render chats and read the stored
prompts. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(cmd)
		},
	}
}

func runStdio(cmd *cobra.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	slogger := logger.Slog()

	client, err := hackailog.New(append(clientOptions(cfg), hackailog.WithLogger(slogger))...)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	slogger.Info("starting MCP server",
		slog.String("version", version),
		slog.Bool("chat_store", client.HasChatStore()),
	)

	var records mcp.RecordExtractor
	if client.HasChatStore() {
		records = client.Chats
	}
	server := mcp.NewServer(client.Diffs, markdown.NewRenderer(nil), records, client.CharacterThreshold(), version, slogger)
	return server.ServeStdio()
}
