package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	hackailog "github.com/helixml/hackai-log"
	"github.com/helixml/hackai-log/infrastructure/api"
	"github.com/helixml/hackai-log/internal/config"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview HTTP API server",
		Long: `Start the preview HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (--config, default ./.env)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 127.0.0.1)
  PORT                         Server port to listen on (default: 8787)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  SQLITE_DB_PATH               Enables the chat store endpoints`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, host, port)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 127.0.0.1)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8787)")

	return cmd
}

func runServe(cmd *cobra.Command, host string, port int) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)
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

	opts := []api.APIServerOption{
		api.WithCharacterThreshold(client.CharacterThreshold()),
		api.WithVersion(version),
		api.WithLogger(slogger),
	}
	if client.HasChatStore() {
		opts = append(opts, api.WithExtractor(client.Chats))
	}
	apiServer := api.NewAPIServer(client.Diffs, opts...)

	ctx := cmd.Context()
	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.ListenAndServe(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
