// Package github fetches pull requests and commit diffs from the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"github.com/helixml/hackai-log/domain/pullrequest"
	"github.com/helixml/hackai-log/domain/service"
)

// ErrPullRequestInvalid indicates a pull request number or payload that
// cannot be summarized.
var ErrPullRequestInvalid = errors.New("invalid pull request")

// DefaultWebURL is the browser base URL used for commit links.
const DefaultWebURL = "https://github.com"

// Client implements service.PullRequestSource over the GitHub REST API.
type Client struct {
	gh     *gh.Client
	owner  string
	repo   string
	webURL string
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	token      string
	baseURL    string
	webURL     string
	cacheDir   string
	httpClient *http.Client
	logger     *slog.Logger
}

// WithToken authenticates requests with a personal access token.
func WithToken(token string) Option {
	return func(o *clientOptions) { o.token = token }
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise server or a test server.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = u }
}

// WithWebURL sets the browser base URL used by CommitURL.
func WithWebURL(u string) Option {
	return func(o *clientOptions) { o.webURL = u }
}

// WithCacheDir caches successful GET responses under dir.
func WithCacheDir(dir string) Option {
	return func(o *clientOptions) { o.cacheDir = dir }
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient creates a Client for the owner/repo repository.
func NewClient(owner, repo string, opts ...Option) (*Client, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("github owner and repo are required")
	}

	o := clientOptions{webURL: DefaultWebURL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if o.cacheDir != "" {
		cached := *httpClient
		cached.Transport = NewCachingTransport(o.cacheDir, httpClient.Transport, o.logger)
		httpClient = &cached
	}

	client := gh.NewClient(httpClient)
	if o.token != "" {
		client = client.WithAuthToken(o.token)
	}
	if o.baseURL != "" {
		base, err := url.Parse(strings.TrimRight(o.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse github api url: %w", err)
		}
		client.BaseURL = base
	}

	return &Client{
		gh:     client,
		owner:  owner,
		repo:   repo,
		webURL: strings.TrimRight(o.webURL, "/"),
		logger: o.logger,
	}, nil
}

// PullRequest returns the metadata of pull request number.
func (c *Client) PullRequest(ctx context.Context, number int) (pullrequest.PullRequest, error) {
	if number <= 0 {
		return pullrequest.PullRequest{}, fmt.Errorf("%w: number %d", ErrPullRequestInvalid, number)
	}

	c.logger.DebugContext(ctx, "fetching pull request",
		slog.String("repo", c.owner+"/"+c.repo),
		slog.Int("number", number),
	)

	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return pullrequest.PullRequest{}, fmt.Errorf("get pull request %d: %w", number, err)
	}

	result := toDomain(pr)
	if result.Ref() == "" {
		return pullrequest.PullRequest{}, fmt.Errorf("%w: pull request %d has no commit", ErrPullRequestInvalid, number)
	}
	return result, nil
}

// CommitDiff returns the unified diff of a commit.
func (c *Client) CommitDiff(ctx context.Context, sha string) (string, error) {
	diff, _, err := c.gh.Repositories.GetCommitRaw(ctx, c.owner, c.repo, sha, gh.RawOptions{Type: gh.Diff})
	if err != nil {
		return "", fmt.Errorf("get commit diff %s: %w", sha, err)
	}
	return diff, nil
}

// CommitURL returns the browser URL of a commit.
func (c *Client) CommitURL(sha string) string {
	return fmt.Sprintf("%s/%s/%s/commit/%s", c.webURL, c.owner, c.repo, sha)
}

func toDomain(pr *gh.PullRequest) pullrequest.PullRequest {
	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}

	var mergedAt *time.Time
	if pr.MergedAt != nil {
		t := pr.MergedAt.Time
		mergedAt = &t
	}

	return pullrequest.NewPullRequest(
		pr.GetNumber(),
		pr.GetTitle(),
		pr.GetBody(),
		labels,
		pr.GetMergeCommitSHA(),
		mergedAt,
		pr.GetHead().GetRef(),
		pr.GetHead().GetSHA(),
	)
}

// Ensure Client implements service.PullRequestSource.
var _ service.PullRequestSource = (*Client)(nil)
