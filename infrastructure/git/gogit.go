package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GoGitAdapter implements Adapter using go-git library.
type GoGitAdapter struct {
	logger *slog.Logger
}

// NewGoGitAdapter creates a new GoGitAdapter.
func NewGoGitAdapter(logger *slog.Logger) *GoGitAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoGitAdapter{logger: logger}
}

// RepositoryExists checks if repository exists at local path.
func (g *GoGitAdapter) RepositoryExists(_ context.Context, localPath string) (bool, error) {
	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return false, nil
	}

	_, err := gogit.PlainOpen(localPath)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check repository: %w", err)
	}
	return true, nil
}

// ResolveRevision returns the commit SHA rev points to.
func (g *GoGitAdapter) ResolveRevision(_ context.Context, localPath string, rev string) (string, error) {
	repo, err := g.open(localPath)
	if err != nil {
		return "", err
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRevisionNotFound, rev, err)
	}

	g.logger.Debug("resolved revision", slog.String("rev", rev), slog.String("sha", hash.String()))
	return hash.String(), nil
}

// CommitDetails returns detailed information about a specific commit.
func (g *GoGitAdapter) CommitDetails(_ context.Context, localPath string, commitSHA string) (CommitInfo, error) {
	repo, err := g.open(localPath)
	if err != nil {
		return CommitInfo{}, err
	}

	commit, err := repo.CommitObject(plumbing.NewHash(commitSHA))
	if err != nil {
		return CommitInfo{}, fmt.Errorf("get commit: %w", err)
	}

	return commitToInfo(commit), nil
}

// CommitDiff returns the diff for a specific commit. A root commit is
// diffed against the empty tree.
func (g *GoGitAdapter) CommitDiff(_ context.Context, localPath string, commitSHA string) (string, error) {
	repo, err := g.open(localPath)
	if err != nil {
		return "", err
	}

	commit, err := repo.CommitObject(plumbing.NewHash(commitSHA))
	if err != nil {
		return "", fmt.Errorf("get commit: %w", err)
	}

	parentTree := &object.Tree{}
	if len(commit.ParentHashes) > 0 {
		parent, err := repo.CommitObject(commit.ParentHashes[0])
		if err != nil {
			return "", fmt.Errorf("get parent commit: %w", err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return "", fmt.Errorf("get parent tree: %w", err)
		}
	}

	commitTree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("get commit tree: %w", err)
	}

	changes, err := parentTree.Diff(commitTree)
	if err != nil {
		return "", fmt.Errorf("compute diff: %w", err)
	}

	patch, err := changes.Patch()
	if err != nil {
		return "", fmt.Errorf("get patch: %w", err)
	}

	return patch.String(), nil
}

func (g *GoGitAdapter) open(localPath string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(localPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return repo, nil
}

func commitToInfo(c *object.Commit) CommitInfo {
	info := CommitInfo{
		SHA:            c.Hash.String(),
		Message:        c.Message,
		AuthorName:     c.Author.Name,
		AuthorEmail:    c.Author.Email,
		CommitterName:  c.Committer.Name,
		CommitterEmail: c.Committer.Email,
		AuthoredAt:     c.Author.When,
		CommittedAt:    c.Committer.When,
	}

	if len(c.ParentHashes) > 0 {
		info.ParentSHA = c.ParentHashes[0].String()
	}

	return info
}

// Ensure GoGitAdapter implements Adapter.
var _ Adapter = (*GoGitAdapter)(nil)
