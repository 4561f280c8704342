package git

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	giteagit "code.gitea.io/gitea/modules/git"
	"code.gitea.io/gitea/modules/git/gitcmd"
	"code.gitea.io/gitea/modules/setting"
)

// GiteaAdapter implements Adapter using Gitea's git module (native git binary).
type GiteaAdapter struct {
	logger *slog.Logger
}

var giteaInitOnce sync.Once
var giteaInitErr error

// NewGiteaAdapter creates a new GiteaAdapter. It initializes the Gitea git
// module once (verifying the git binary is available).
func NewGiteaAdapter(logger *slog.Logger) (*GiteaAdapter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := exec.LookPath("git"); err != nil {
		return nil, fmt.Errorf("git is not installed or not in PATH: install git and try again")
	}

	giteaInitOnce.Do(func() {
		// Gitea's git module needs an isolated HomePath for its git config.
		home, err := os.MkdirTemp("", "hackai-log-git-home-*")
		if err != nil {
			giteaInitErr = fmt.Errorf("create git home directory: %w", err)
			return
		}
		setting.Git.HomePath = home

		giteaInitErr = giteagit.InitSimple()
	})
	if giteaInitErr != nil {
		return nil, fmt.Errorf("init git: %w", giteaInitErr)
	}

	return &GiteaAdapter{logger: logger}, nil
}

// RepositoryExists checks if repository exists at local path.
func (g *GiteaAdapter) RepositoryExists(ctx context.Context, localPath string) (bool, error) {
	repo, err := giteagit.OpenRepository(ctx, localPath)
	if err != nil {
		if _, statErr := os.Stat(localPath); os.IsNotExist(statErr) {
			return false, nil
		}
		if _, statErr := os.Stat(filepath.Join(localPath, ".git")); os.IsNotExist(statErr) {
			return false, nil
		}
		return false, fmt.Errorf("check repository: %w", err)
	}
	_ = repo.Close()
	return true, nil
}

// ResolveRevision returns the commit SHA rev points to.
func (g *GiteaAdapter) ResolveRevision(ctx context.Context, localPath string, rev string) (string, error) {
	stdout, _, err := gitcmd.NewCommand("rev-parse", "--verify", "--end-of-options").
		AddDynamicArguments(rev + "^{commit}").
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRevisionNotFound, rev, err)
	}

	sha := strings.TrimSpace(stdout)
	g.logger.Debug("resolved revision", slog.String("rev", rev), slog.String("sha", sha))
	return sha, nil
}

// CommitDetails returns detailed information about a specific commit.
func (g *GiteaAdapter) CommitDetails(ctx context.Context, localPath string, commitSHA string) (CommitInfo, error) {
	repo, err := giteagit.OpenRepository(ctx, localPath)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open repository: %w", err)
	}
	defer func() { _ = repo.Close() }()

	commit, err := repo.GetCommit(commitSHA)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("get commit: %w", err)
	}

	return giteaCommitToInfo(commit), nil
}

// CommitDiff returns the diff for a specific commit.
func (g *GiteaAdapter) CommitDiff(ctx context.Context, localPath string, commitSHA string) (string, error) {
	repo, err := giteagit.OpenRepository(ctx, localPath)
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}
	defer func() { _ = repo.Close() }()

	var buf bytes.Buffer
	err = giteagit.GetRawDiff(repo, commitSHA, giteagit.RawDiffNormal, &buf)
	if err != nil {
		return "", fmt.Errorf("get diff: %w", err)
	}

	return buf.String(), nil
}

func giteaCommitToInfo(c *giteagit.Commit) CommitInfo {
	info := CommitInfo{
		SHA:            c.ID.String(),
		Message:        c.CommitMessage,
		AuthorName:     c.Author.Name,
		AuthorEmail:    c.Author.Email,
		AuthoredAt:     c.Author.When,
		CommitterName:  c.Committer.Name,
		CommitterEmail: c.Committer.Email,
		CommittedAt:    c.Committer.When,
	}

	if len(c.Parents) > 0 {
		info.ParentSHA = c.Parents[0].String()
	}

	return info
}

// Ensure GiteaAdapter implements Adapter.
var _ Adapter = (*GiteaAdapter)(nil)
