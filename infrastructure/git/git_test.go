package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a repository with two commits touching notes.txt and
// returns its path with the SHAs of both commits.
func initRepo(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	commit := func(content, message string) string {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(content), 0o644))
		_, err := wt.Add("notes.txt")
		require.NoError(t, err)
		hash, err := wt.Commit(message, &gogit.CommitOptions{
			Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Unix(1700000000, 0)},
		})
		require.NoError(t, err)
		return hash.String()
	}

	first := commit("one\ntwo\nthree\n", "Add notes")
	second := commit("one\n2\nthree\n", "Fix notes\n\nSecond line changed.")
	return dir, first, second
}

func TestGoGitAdapter_ResolveRevision(t *testing.T) {
	ctx := context.Background()
	dir, first, second := initRepo(t)
	g := NewGoGitAdapter(nil)

	head, err := g.ResolveRevision(ctx, dir, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, second, head)

	parent, err := g.ResolveRevision(ctx, dir, "HEAD~1")
	require.NoError(t, err)
	assert.Equal(t, first, parent)

	_, err = g.ResolveRevision(ctx, dir, "no-such-branch")
	require.ErrorIs(t, err, ErrRevisionNotFound)
}

func TestGoGitAdapter_CommitDetails(t *testing.T) {
	ctx := context.Background()
	dir, first, second := initRepo(t)
	g := NewGoGitAdapter(nil)

	info, err := g.CommitDetails(ctx, dir, second)
	require.NoError(t, err)
	assert.Equal(t, "Fix notes", info.Subject())
	assert.Equal(t, "Second line changed.", info.Body())
	assert.Equal(t, first, info.ParentSHA)
	assert.Equal(t, "Test", info.AuthorName)
}

func TestGoGitAdapter_CommitDiff(t *testing.T) {
	ctx := context.Background()
	dir, first, second := initRepo(t)
	g := NewGoGitAdapter(nil)

	diff, err := g.CommitDiff(ctx, dir, second)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(diff, "diff --git a/notes.txt b/notes.txt\n"))
	assert.Contains(t, diff, "-two\n+2\n")

	root, err := g.CommitDiff(ctx, dir, first)
	require.NoError(t, err)
	assert.Contains(t, root, "+one\n")
}

func TestGoGitAdapter_RepositoryExists(t *testing.T) {
	ctx := context.Background()
	dir, _, _ := initRepo(t)
	g := NewGoGitAdapter(nil)

	ok, err := g.RepositoryExists(ctx, dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.RepositoryExists(ctx, t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.RepositoryExists(ctx, filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewAdapter(t *testing.T) {
	a, err := NewAdapter("", nil)
	require.NoError(t, err)
	assert.IsType(t, &GoGitAdapter{}, a)

	_, err = NewAdapter("svn", nil)
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestGiteaAdapter_MatchesGoGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	ctx := context.Background()
	dir, first, second := initRepo(t)

	g, err := NewGiteaAdapter(nil)
	require.NoError(t, err)

	head, err := g.ResolveRevision(ctx, dir, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, second, head)

	info, err := g.CommitDetails(ctx, dir, second)
	require.NoError(t, err)
	assert.Equal(t, first, info.ParentSHA)

	diff, err := g.CommitDiff(ctx, dir, second)
	require.NoError(t, err)
	assert.Contains(t, diff, "diff --git a/notes.txt b/notes.txt")
	assert.Contains(t, diff, "+2")
}
