// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Default configuration values.
const (
	DefaultHost               = "127.0.0.1"
	DefaultPort               = 8787
	DefaultLogLevel           = "INFO"
	DefaultMaxHunkLines       = 20
	DefaultContextLines       = 3
	DefaultCharacterThreshold = 1000
	DefaultSnapshotDir        = "."
	DefaultOutputDir          = "."
	DefaultGitProvider        = "gogit"
	DefaultGitHubAPIURL       = "https://api.github.com/"
)

// ErrInvalidConfig indicates configuration that cannot serve a command.
var ErrInvalidConfig = errors.New("invalid configuration")

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Requirement names a group of settings a command needs.
type Requirement int

// Requirement values.
const (
	// RequireGitHub needs the token, owner and repository.
	RequireGitHub Requirement = iota
	// RequireStore needs the editor state database path.
	RequireStore
	// RequireOutput needs the page output directory.
	RequireOutput
)

// AppConfig holds the main application configuration.
type AppConfig struct {
	host               string
	port               int
	logLevel           string
	logFormat          LogFormat
	githubToken        string
	githubOwner        string
	githubRepo         string
	githubAPIURL       string
	sqliteDBPath       string
	outputDir          string
	snapshotDir        string
	httpCacheDir       string
	maxHunkLines       int
	contextLines       int
	characterThreshold int
	chatNameFilter     string
	gitProvider        string
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:               DefaultHost,
		port:               DefaultPort,
		logLevel:           DefaultLogLevel,
		logFormat:          LogFormatPretty,
		githubAPIURL:       DefaultGitHubAPIURL,
		outputDir:          DefaultOutputDir,
		snapshotDir:        DefaultSnapshotDir,
		maxHunkLines:       DefaultMaxHunkLines,
		contextLines:       DefaultContextLines,
		characterThreshold: DefaultCharacterThreshold,
		gitProvider:        DefaultGitProvider,
	}
}

// Host returns the server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the server address in host:port format.
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// GitHubToken returns the GitHub access token.
func (c AppConfig) GitHubToken() string { return c.githubToken }

// GitHubOwner returns the repository owner.
func (c AppConfig) GitHubOwner() string { return c.githubOwner }

// GitHubRepo returns the repository name.
func (c AppConfig) GitHubRepo() string { return c.githubRepo }

// GitHubAPIURL returns the GitHub REST API root.
func (c AppConfig) GitHubAPIURL() string { return c.githubAPIURL }

// SQLiteDBPath returns the path of the editor's state database.
func (c AppConfig) SQLiteDBPath() string { return c.sqliteDBPath }

// OutputDir returns the directory generated pages are written to.
func (c AppConfig) OutputDir() string { return c.outputDir }

// SnapshotDir returns the directory extraction snapshots are written to.
func (c AppConfig) SnapshotDir() string { return c.snapshotDir }

// HTTPCacheDir returns the HTTP response cache directory, or empty.
func (c AppConfig) HTTPCacheDir() string { return c.httpCacheDir }

// MaxHunkLines returns the hunk cropping limit.
func (c AppConfig) MaxHunkLines() int { return c.maxHunkLines }

// ContextLines returns the context allowance used when cropping.
func (c AppConfig) ContextLines() int { return c.contextLines }

// CharacterThreshold returns the length above which chats collapse.
func (c AppConfig) CharacterThreshold() int { return c.characterThreshold }

// ChatNameFilter returns the default chat name filter, or empty.
func (c AppConfig) ChatNameFilter() string { return c.chatNameFilter }

// GitProvider returns the local git implementation name.
func (c AppConfig) GitProvider() string { return c.gitProvider }

// Validate checks the settings each requirement needs and the diff limits.
// All failures are reported together.
func (c AppConfig) Validate(requirements ...Requirement) error {
	var errs []error
	missing := func(name string) {
		errs = append(errs, fmt.Errorf("%s is required", name))
	}

	for _, r := range requirements {
		switch r {
		case RequireGitHub:
			if c.githubToken == "" {
				missing("GITHUB_TOKEN")
			}
			if c.githubOwner == "" {
				missing("GITHUB_OWNER")
			}
			if c.githubRepo == "" {
				missing("GITHUB_REPO")
			}
		case RequireStore:
			if c.sqliteDBPath == "" {
				missing("SQLITE_DB_PATH")
			}
		case RequireOutput:
			if c.outputDir == "" {
				missing("MDX_OUTPUT_PATH")
			}
		}
	}

	if c.maxHunkLines <= 0 {
		errs = append(errs, fmt.Errorf("MAX_HUNK_LINES must be positive, got %d", c.maxHunkLines))
	}
	if c.contextLines < 0 {
		errs = append(errs, fmt.Errorf("CONTEXT_LINES must not be negative, got %d", c.contextLines))
	}
	switch c.gitProvider {
	case "gogit", "gitea":
	default:
		errs = append(errs, fmt.Errorf("GIT_PROVIDER must be gogit or gitea, got %q", c.gitProvider))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithGitHub sets the GitHub token and repository.
func WithGitHub(token, owner, repo string) AppConfigOption {
	return func(c *AppConfig) {
		c.githubToken = token
		c.githubOwner = owner
		c.githubRepo = repo
	}
}

// WithGitHubAPIURL sets the GitHub REST API root.
func WithGitHubAPIURL(u string) AppConfigOption {
	return func(c *AppConfig) { c.githubAPIURL = u }
}

// WithSQLiteDBPath sets the editor state database path.
func WithSQLiteDBPath(path string) AppConfigOption {
	return func(c *AppConfig) { c.sqliteDBPath = path }
}

// WithOutputDir sets the page output directory.
func WithOutputDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.outputDir = dir }
}

// WithSnapshotDir sets the snapshot directory.
func WithSnapshotDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.snapshotDir = dir }
}

// WithHTTPCacheDir sets the HTTP response cache directory.
func WithHTTPCacheDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.httpCacheDir = dir }
}

// WithDiffLimits sets the hunk cropping limits.
func WithDiffLimits(maxHunkLines, contextLines int) AppConfigOption {
	return func(c *AppConfig) {
		c.maxHunkLines = maxHunkLines
		c.contextLines = contextLines
	}
}

// WithCharacterThreshold sets the chat collapse threshold.
func WithCharacterThreshold(n int) AppConfigOption {
	return func(c *AppConfig) { c.characterThreshold = n }
}

// WithChatNameFilter sets the default chat name filter.
func WithChatNameFilter(filter string) AppConfigOption {
	return func(c *AppConfig) { c.chatNameFilter = filter }
}

// WithGitProvider sets the local git implementation.
func WithGitProvider(provider string) AppConfigOption {
	return func(c *AppConfig) { c.gitProvider = strings.ToLower(provider) }
}

// NewAppConfigWithOptions creates an AppConfig with the given options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
