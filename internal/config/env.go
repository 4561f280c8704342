package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the preview server host to bind to.
	// Env: HOST (default: 127.0.0.1)
	Host string `envconfig:"HOST" default:"127.0.0.1"`

	// Port is the preview server port.
	// Env: PORT (default: 8787)
	Port int `envconfig:"PORT" default:"8787"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// GitHub configures pull request access.
	GitHub GitHubEnv `envconfig:"GITHUB"`

	// SQLiteDBPath is the editor's state.vscdb file.
	// Env: SQLITE_DB_PATH
	SQLiteDBPath string `envconfig:"SQLITE_DB_PATH"`

	// MDXOutputPath is the directory generated pages are written to.
	// Env: MDX_OUTPUT_PATH (default: .)
	MDXOutputPath string `envconfig:"MDX_OUTPUT_PATH" default:"."`

	// SnapshotDir is where extracted-*.json snapshots are written.
	// Env: SNAPSHOT_DIR (default: .)
	SnapshotDir string `envconfig:"SNAPSHOT_DIR" default:"."`

	// HTTPCacheDir caches GitHub GET responses on disk when set.
	// Env: HTTP_CACHE_DIR
	HTTPCacheDir string `envconfig:"HTTP_CACHE_DIR"`

	// MaxHunkLines is the hunk cropping limit.
	// Env: MAX_HUNK_LINES (default: 20)
	MaxHunkLines int `envconfig:"MAX_HUNK_LINES" default:"20"`

	// ContextLines is the context allowance when cropping.
	// Env: CONTEXT_LINES (default: 3)
	ContextLines int `envconfig:"CONTEXT_LINES" default:"3"`

	// ChatCharacterThreshold collapses longer chats.
	// Env: CHAT_CHARACTER_THRESHOLD (default: 1000)
	ChatCharacterThreshold int `envconfig:"CHAT_CHARACTER_THRESHOLD" default:"1000"`

	// ChatNameFilter is the default chat name filter.
	// Env: CHAT_NAME_FILTER
	ChatNameFilter string `envconfig:"CHAT_NAME_FILTER"`

	// GitProvider selects the local git implementation (gogit or gitea).
	// Env: GIT_PROVIDER (default: gogit)
	GitProvider string `envconfig:"GIT_PROVIDER" default:"gogit"`
}

// GitHubEnv holds environment configuration for GitHub.
type GitHubEnv struct {
	// Token is a personal access token.
	// Env: GITHUB_TOKEN
	Token string `envconfig:"TOKEN"`

	// Owner is the repository owner.
	// Env: GITHUB_OWNER
	Owner string `envconfig:"OWNER"`

	// Repo is the repository name.
	// Env: GITHUB_REPO
	Repo string `envconfig:"REPO"`

	// APIURL is the REST API root.
	// Env: GITHUB_API_URL (default: https://api.github.com/)
	APIURL string `envconfig:"API_URL" default:"https://api.github.com/"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}

	cfg = applyOption(cfg, WithGitHub(e.GitHub.Token, e.GitHub.Owner, e.GitHub.Repo))
	if e.GitHub.APIURL != "" {
		cfg = applyOption(cfg, WithGitHubAPIURL(e.GitHub.APIURL))
	}

	cfg = applyOption(cfg, WithSQLiteDBPath(e.SQLiteDBPath))
	if e.MDXOutputPath != "" {
		cfg = applyOption(cfg, WithOutputDir(e.MDXOutputPath))
	}
	if e.SnapshotDir != "" {
		cfg = applyOption(cfg, WithSnapshotDir(e.SnapshotDir))
	}
	cfg = applyOption(cfg, WithHTTPCacheDir(e.HTTPCacheDir))

	cfg = applyOption(cfg, WithDiffLimits(e.MaxHunkLines, e.ContextLines))
	cfg = applyOption(cfg, WithCharacterThreshold(e.ChatCharacterThreshold))
	cfg = applyOption(cfg, WithChatNameFilter(e.ChatNameFilter))
	if e.GitProvider != "" {
		cfg = applyOption(cfg, WithGitProvider(e.GitProvider))
	}

	return cfg
}

func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
