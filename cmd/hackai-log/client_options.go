package main

import (
	hackailog "github.com/helixml/hackai-log"
	"github.com/helixml/hackai-log/internal/config"
)

// clientOptions returns the hackailog.Option slice derived from AppConfig.
// Callers append command-specific options before calling hackailog.New.
func clientOptions(cfg config.AppConfig) []hackailog.Option {
	opts := []hackailog.Option{
		hackailog.WithGitProvider(cfg.GitProvider()),
		hackailog.WithDiffLimits(cfg.MaxHunkLines(), cfg.ContextLines()),
		hackailog.WithCharacterThreshold(cfg.CharacterThreshold()),
		hackailog.WithOutputDir(cfg.OutputDir()),
	}

	if cfg.GitHubOwner() != "" && cfg.GitHubRepo() != "" {
		opts = append(opts,
			hackailog.WithGitHub(cfg.GitHubOwner(), cfg.GitHubRepo(), cfg.GitHubToken()),
			hackailog.WithGitHubAPIURL(cfg.GitHubAPIURL()),
		)
	}
	if dir := cfg.HTTPCacheDir(); dir != "" {
		opts = append(opts, hackailog.WithHTTPCacheDir(dir))
	}
	if path := cfg.SQLiteDBPath(); path != "" {
		opts = append(opts, hackailog.WithSQLite(path))
	}
	if dir := cfg.SnapshotDir(); dir != "" {
		opts = append(opts, hackailog.WithSnapshotDir(dir))
	}

	return opts
}
