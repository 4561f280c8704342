package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	app := cfg.ToAppConfig()
	if app.MaxHunkLines() != 20 {
		t.Errorf("MaxHunkLines() = %d, want 20", app.MaxHunkLines())
	}
	if app.GitHubAPIURL() != DefaultGitHubAPIURL {
		t.Errorf("GitHubAPIURL() = %v", app.GitHubAPIURL())
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("GITHUB_OWNER", "helixml")
	t.Setenv("GITHUB_REPO", "hackai")
	t.Setenv("SQLITE_DB_PATH", "/data/state.vscdb")
	t.Setenv("MAX_HUNK_LINES", "40")
	t.Setenv("CONTEXT_LINES", "5")
	t.Setenv("CHAT_CHARACTER_THRESHOLD", "250")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("GIT_PROVIDER", "gitea")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	app := cfg.ToAppConfig()

	if app.GitHubToken() != "tok" || app.GitHubOwner() != "helixml" || app.GitHubRepo() != "hackai" {
		t.Errorf("github = %q/%q/%q", app.GitHubToken(), app.GitHubOwner(), app.GitHubRepo())
	}
	if app.SQLiteDBPath() != "/data/state.vscdb" {
		t.Errorf("SQLiteDBPath() = %v", app.SQLiteDBPath())
	}
	if app.MaxHunkLines() != 40 || app.ContextLines() != 5 {
		t.Errorf("diff limits = %d/%d, want 40/5", app.MaxHunkLines(), app.ContextLines())
	}
	if app.CharacterThreshold() != 250 {
		t.Errorf("CharacterThreshold() = %d, want 250", app.CharacterThreshold())
	}
	if app.LogFormat() != LogFormatJSON {
		t.Errorf("LogFormat() = %v, want json", app.LogFormat())
	}
	if app.GitProvider() != "gitea" {
		t.Errorf("GitProvider() = %v, want gitea", app.GitProvider())
	}
}

func TestLoadFromEnv_InvalidNumber(t *testing.T) {
	t.Setenv("MAX_HUNK_LINES", "many")

	if _, err := LoadFromEnv(); err == nil {
		t.Error("expected error for non-numeric MAX_HUNK_LINES")
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MDX_OUTPUT_PATH=/site/pages\nCHAT_NAME_FILTER=parser\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MDX_OUTPUT_PATH", "")
	_ = os.Unsetenv("MDX_OUTPUT_PATH")
	t.Cleanup(func() { _ = os.Unsetenv("CHAT_NAME_FILTER") })

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.OutputDir() != "/site/pages" {
		t.Errorf("OutputDir() = %v, want /site/pages", cfg.OutputDir())
	}
	if cfg.ChatNameFilter() != "parser" {
		t.Errorf("ChatNameFilter() = %v, want parser", cfg.ChatNameFilter())
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.env")

	if _, err := LoadConfig(missing, false); err != nil {
		t.Errorf("implicit missing file should be ignored: %v", err)
	}
	if _, err := LoadConfig(missing, true); err == nil {
		t.Error("explicit missing file should fail")
	}
}
