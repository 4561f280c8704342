// Package hackailog turns merged pull requests and the AI chats behind them
// into documentation pages.
//
// Basic usage:
//
//	client, err := hackailog.New(
//	    hackailog.WithGitHub("helixml", "hackai", os.Getenv("GITHUB_TOKEN")),
//	    hackailog.WithSQLite("state.vscdb"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	path, err := client.Pages.Generate(ctx, 42)
package hackailog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/helixml/hackai-log/application/service"
	"github.com/helixml/hackai-log/infrastructure/git"
	"github.com/helixml/hackai-log/infrastructure/github"
	"github.com/helixml/hackai-log/infrastructure/markdown"
	"github.com/helixml/hackai-log/infrastructure/persistence"
	"github.com/helixml/hackai-log/internal/database"
)

// Client wires the diff, chat and page pipelines together.
//
// Chats is nil when no chat store is configured. Diffs can always process
// raw diffs and local commits, and fetches pull requests when GitHub is
// configured.
type Client struct {
	Diffs *service.Diff
	Chats *service.Extractor
	Pages *service.Page

	snapshots *persistence.SnapshotStore
	closers   []func() error
	threshold int
	logger    *slog.Logger
	closed    atomic.Bool
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	client := &Client{
		threshold: cfg.characterThreshold,
		logger:    logger,
	}
	for _, c := range cfg.closers {
		client.closers = append(client.closers, c.Close)
	}

	local, err := git.NewAdapter(cfg.gitProvider, logger)
	if err != nil {
		return nil, fmt.Errorf("git adapter: %w", err)
	}
	diffOpts := []service.DiffOption{
		service.WithLocalGit(local),
		service.WithDiffLimits(cfg.maxHunkLines, cfg.contextLines),
		service.WithDiffLogger(logger),
	}

	if cfg.githubOwner != "" && cfg.githubRepo != "" {
		ghOpts := []github.Option{
			github.WithToken(cfg.githubToken),
			github.WithLogger(logger),
		}
		if cfg.githubAPIURL != "" {
			ghOpts = append(ghOpts, github.WithBaseURL(cfg.githubAPIURL))
		}
		if cfg.httpCacheDir != "" {
			ghOpts = append(ghOpts, github.WithCacheDir(cfg.httpCacheDir))
		}
		gh, err := github.NewClient(cfg.githubOwner, cfg.githubRepo, ghOpts...)
		if err != nil {
			return nil, fmt.Errorf("github client: %w", err)
		}
		diffOpts = append(diffOpts, service.WithPullRequestSource(gh))
	}
	client.Diffs = service.NewDiff(diffOpts...)

	if cfg.sqlitePath != "" {
		db, err := database.NewDatabase(context.Background(), cfg.sqlitePath, database.WithReadOnly())
		if err != nil {
			return nil, fmt.Errorf("open chat store: %w", err)
		}
		client.closers = append(client.closers, db.Close)

		extractorOpts := []service.ExtractorOption{service.WithExtractorLogger(logger)}
		if cfg.snapshotDir != "" {
			snapshots := persistence.NewSnapshotStore(cfg.snapshotDir, logger)
			client.snapshots = &snapshots
			extractorOpts = append(extractorOpts, service.WithSnapshots(snapshots))
		}
		if cfg.selector != nil {
			extractorOpts = append(extractorOpts, service.WithComposerSelector(cfg.selector))
		}
		client.Chats = service.NewExtractor(persistence.NewItemStore(db), extractorOpts...)
	}

	page := markdown.NewPage(markdown.NewRenderer(nil), cfg.characterThreshold)
	client.Pages = service.NewPage(client.Diffs, client.Chats, page, cfg.outputDir, logger)

	return client, nil
}

// HasChatStore reports whether a chat store is configured.
func (c *Client) HasChatStore() bool {
	return c.Chats != nil
}

// SnapshotPath returns the file records read under key are written to, or
// empty when snapshots are disabled.
func (c *Client) SnapshotPath(key string) string {
	if c.snapshots == nil {
		return ""
	}
	return c.snapshots.Path(key)
}

// CharacterThreshold returns the configured collapse threshold.
func (c *Client) CharacterThreshold() int {
	return c.threshold
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Close releases the chat store and registered resources. It is safe to
// call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close client: %w", err)
	}
	c.logger.Debug("client closed")
	return nil
}
