package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/domain/pullrequest"
	"github.com/helixml/hackai-log/infrastructure/markdown"
	"golang.org/x/sync/errgroup"
)

// Page generates the MDX page of a pull request.
type Page struct {
	diffs     *Diff
	extractor *Extractor
	renderer  markdown.Page
	outputDir string
	logger    *slog.Logger
}

// NewPage creates a new Page service. A nil extractor produces pages
// without conversations.
func NewPage(diffs *Diff, extractor *Extractor, renderer markdown.Page, outputDir string, logger *slog.Logger) *Page {
	if logger == nil {
		logger = slog.Default()
	}
	if outputDir == "" {
		outputDir = "."
	}
	return &Page{
		diffs:     diffs,
		extractor: extractor,
		renderer:  renderer,
		outputDir: outputDir,
		logger:    logger,
	}
}

// Path returns the file the page of pull request number is written to.
func (p *Page) Path(number int) string {
	return filepath.Join(p.outputDir, fmt.Sprintf("pr-%d.mdx", number))
}

// Render builds the page text. The diff and chat pipelines run
// concurrently and the first failure cancels the other.
func (p *Page) Render(ctx context.Context, number int, opts ...chat.ExtractionOption) (string, error) {
	var (
		summary      pullrequest.Summary
		conversation chat.FormattedChat
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := p.diffs.Summarize(gctx, number)
		if err != nil {
			return fmt.Errorf("summarize pull request: %w", err)
		}
		summary = s
		return nil
	})
	if p.extractor != nil {
		g.Go(func() error {
			c, err := p.extractor.Conversation(gctx, opts...)
			if err != nil {
				return fmt.Errorf("extract conversation: %w", err)
			}
			conversation = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var chats []chat.FormattedChat
	if !conversation.Empty() {
		chats = append(chats, conversation)
	}
	return p.renderer.Render(summary, chats)
}

// Generate renders the page and writes it, returning the path written.
func (p *Page) Generate(ctx context.Context, number int, opts ...chat.ExtractionOption) (string, error) {
	content, err := p.Render(ctx, number, opts...)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := p.Path(number)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write page: %w", err)
	}

	p.logger.InfoContext(ctx, "page written", slog.String("path", path), slog.Int("pr", number))
	return path, nil
}
