package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/helixml/hackai-log/domain/diff"
	"github.com/helixml/hackai-log/domain/pullrequest"
	domainservice "github.com/helixml/hackai-log/domain/service"
	"github.com/helixml/hackai-log/infrastructure/diffing"
	"github.com/helixml/hackai-log/infrastructure/git"
)

// Diff summarizes the changes of a pull request or a local commit.
type Diff struct {
	source       domainservice.PullRequestSource
	local        git.Adapter
	maxHunkLines int
	contextLines int
	logger       *slog.Logger
}

// DiffOption configures a Diff service.
type DiffOption func(*Diff)

// WithPullRequestSource sets where pull requests are fetched from.
func WithPullRequestSource(s domainservice.PullRequestSource) DiffOption {
	return func(d *Diff) { d.source = s }
}

// WithLocalGit sets the adapter used for local repositories.
func WithLocalGit(a git.Adapter) DiffOption {
	return func(d *Diff) { d.local = a }
}

// WithDiffLimits sets the hunk cropping limits.
func WithDiffLimits(maxHunkLines, contextLines int) DiffOption {
	return func(d *Diff) {
		d.maxHunkLines = maxHunkLines
		d.contextLines = contextLines
	}
}

// WithDiffLogger sets the logger.
func WithDiffLogger(l *slog.Logger) DiffOption {
	return func(d *Diff) { d.logger = l }
}

// NewDiff creates a new Diff service.
func NewDiff(opts ...DiffOption) *Diff {
	d := &Diff{
		maxHunkLines: diffing.DefaultMaxHunkLines,
		contextLines: diffing.DefaultContextLines,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Process segments and crops a raw unified diff with the configured limits.
func (d *Diff) Process(raw string) diff.Result {
	return diffing.Process(raw, d.maxHunkLines, d.contextLines)
}

// ProcessWithLimits is Process with limits overriding the configured ones.
// A non-positive maxHunkLines or a negative contextLines keeps the
// configured value.
func (d *Diff) ProcessWithLimits(raw string, maxHunkLines, contextLines int) diff.Result {
	if maxHunkLines <= 0 {
		maxHunkLines = d.maxHunkLines
	}
	if contextLines < 0 {
		contextLines = d.contextLines
	}
	return diffing.Process(raw, maxHunkLines, contextLines)
}

// Summarize fetches pull request number and processes the diff of its
// merge commit, or of its head commit when it is not merged.
func (d *Diff) Summarize(ctx context.Context, number int) (pullrequest.Summary, error) {
	if d.source == nil {
		return pullrequest.Summary{}, fmt.Errorf("pull request source: %w", ErrNotConfigured)
	}

	pr, err := d.source.PullRequest(ctx, number)
	if err != nil {
		return pullrequest.Summary{}, err
	}

	ref := pr.Ref()
	if ref == "" {
		return pullrequest.Summary{}, fmt.Errorf("pull request %d: %w", number, ErrNoCommit)
	}

	raw, err := d.source.CommitDiff(ctx, ref)
	if err != nil {
		return pullrequest.Summary{}, err
	}

	result := d.Process(raw)
	d.logger.InfoContext(ctx, "processed pull request diff",
		slog.Int("pr", number),
		slog.String("commit", ref),
		slog.Int("hunks", result.Len()),
	)

	return pullrequest.NewSummary(pr, result, d.source.CommitURL(ref)), nil
}

// SummarizeLocal processes the diff of a commit in a local repository
// against its first parent. The commit subject becomes the title.
func (d *Diff) SummarizeLocal(ctx context.Context, repoPath, rev string) (pullrequest.Summary, error) {
	if d.local == nil {
		return pullrequest.Summary{}, fmt.Errorf("local git: %w", ErrNotConfigured)
	}
	if rev == "" {
		rev = "HEAD"
	}

	sha, err := d.local.ResolveRevision(ctx, repoPath, rev)
	if err != nil {
		return pullrequest.Summary{}, err
	}

	info, err := d.local.CommitDetails(ctx, repoPath, sha)
	if err != nil {
		return pullrequest.Summary{}, err
	}

	raw, err := d.local.CommitDiff(ctx, repoPath, sha)
	if err != nil {
		return pullrequest.Summary{}, err
	}

	result := d.Process(raw)
	d.logger.InfoContext(ctx, "processed local diff",
		slog.String("repo", repoPath),
		slog.String("commit", sha),
		slog.Int("hunks", result.Len()),
	)

	committed := info.CommittedAt
	pr := pullrequest.NewPullRequest(0, info.Subject(), info.Body(), nil, sha, &committed, rev, sha)

	var commitURL string
	if d.source != nil {
		commitURL = d.source.CommitURL(sha)
	}
	return pullrequest.NewSummary(pr, result, commitURL), nil
}
