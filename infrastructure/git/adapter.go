// Package git reads commits and diffs from local repositories.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrRevisionNotFound indicates a revision does not name a commit.
var ErrRevisionNotFound = errors.New("revision not found")

// ErrUnknownProvider indicates an unsupported git provider name.
var ErrUnknownProvider = errors.New("unknown git provider")

// Provider names.
const (
	ProviderGoGit = "gogit"
	ProviderGitea = "gitea"
)

// Adapter defines the git operations needed to summarize a local commit.
// Implementations wrap specific git libraries.
type Adapter interface {
	// RepositoryExists checks if a repository exists at local path.
	RepositoryExists(ctx context.Context, localPath string) (bool, error)

	// ResolveRevision returns the commit SHA a revision (branch, tag,
	// short SHA, HEAD~1) points to.
	ResolveRevision(ctx context.Context, localPath string, rev string) (string, error)

	// CommitDetails returns detailed information about a specific commit.
	CommitDetails(ctx context.Context, localPath string, commitSHA string) (CommitInfo, error)

	// CommitDiff returns the unified diff between a commit and its first parent.
	CommitDiff(ctx context.Context, localPath string, commitSHA string) (string, error)
}

// CommitInfo holds commit metadata returned from the adapter.
type CommitInfo struct {
	SHA            string
	Message        string
	AuthorName     string
	AuthorEmail    string
	CommitterName  string
	CommitterEmail string
	AuthoredAt     time.Time
	CommittedAt    time.Time
	ParentSHA      string
}

// Subject returns the first line of the commit message.
func (c CommitInfo) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(subject)
}

// Body returns the commit message without its subject line.
func (c CommitInfo) Body() string {
	_, body, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(body)
}

// NewAdapter returns the adapter for a provider name. An empty name
// selects go-git.
func NewAdapter(provider string, logger *slog.Logger) (Adapter, error) {
	switch strings.ToLower(provider) {
	case "", ProviderGoGit:
		return NewGoGitAdapter(logger), nil
	case ProviderGitea:
		return NewGiteaAdapter(logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}
