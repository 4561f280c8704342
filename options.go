package hackailog

import (
	"io"
	"log/slog"

	domainservice "github.com/helixml/hackai-log/domain/service"
	"github.com/helixml/hackai-log/infrastructure/diffing"
	"github.com/helixml/hackai-log/infrastructure/git"
	"github.com/helixml/hackai-log/infrastructure/markdown"
)

// Option configures the Client.
type Option func(*clientConfig)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	sqlitePath         string
	githubOwner        string
	githubRepo         string
	githubToken        string
	githubAPIURL       string
	httpCacheDir       string
	gitProvider        string
	snapshotDir        string
	outputDir          string
	maxHunkLines       int
	contextLines       int
	characterThreshold int
	selector           domainservice.ComposerSelector
	logger             *slog.Logger
	closers            []io.Closer
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		gitProvider:        git.ProviderGoGit,
		outputDir:          ".",
		maxHunkLines:       diffing.DefaultMaxHunkLines,
		contextLines:       diffing.DefaultContextLines,
		characterThreshold: markdown.DefaultCharacterThreshold,
	}
}

// WithSQLite reads chats from the editor state database at path. The file
// is opened read-only.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.sqlitePath = path
	}
}

// WithGitHub fetches pull requests from owner/repo. token may be empty for
// public repositories.
func WithGitHub(owner, repo, token string) Option {
	return func(c *clientConfig) {
		c.githubOwner = owner
		c.githubRepo = repo
		c.githubToken = token
	}
}

// WithGitHubAPIURL points the GitHub client at another API root, such as a
// GitHub Enterprise server.
func WithGitHubAPIURL(u string) Option {
	return func(c *clientConfig) {
		c.githubAPIURL = u
	}
}

// WithHTTPCacheDir caches GitHub GET responses under dir.
func WithHTTPCacheDir(dir string) Option {
	return func(c *clientConfig) {
		c.httpCacheDir = dir
	}
}

// WithGitProvider selects the library used for local repositories.
func WithGitProvider(provider string) Option {
	return func(c *clientConfig) {
		c.gitProvider = provider
	}
}

// WithSnapshotDir writes a JSON snapshot of every record set read to dir.
func WithSnapshotDir(dir string) Option {
	return func(c *clientConfig) {
		c.snapshotDir = dir
	}
}

// WithOutputDir sets where generated pages are written.
func WithOutputDir(dir string) Option {
	return func(c *clientConfig) {
		if dir != "" {
			c.outputDir = dir
		}
	}
}

// WithDiffLimits sets the hunk cropping limits.
func WithDiffLimits(maxHunkLines, contextLines int) Option {
	return func(c *clientConfig) {
		c.maxHunkLines = maxHunkLines
		c.contextLines = contextLines
	}
}

// WithCharacterThreshold sets the length above which chats are collapsed.
func WithCharacterThreshold(n int) Option {
	return func(c *clientConfig) {
		c.characterThreshold = n
	}
}

// WithComposerSelector asks s to choose when several composers exist.
func WithComposerSelector(s domainservice.ComposerSelector) Option {
	return func(c *clientConfig) {
		c.selector = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithCloser registers a resource to close with the Client.
func WithCloser(closer io.Closer) Option {
	return func(c *clientConfig) {
		c.closers = append(c.closers, closer)
	}
}
