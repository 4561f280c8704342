package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/helixml/hackai-log/domain/pullrequest"
	"github.com/helixml/hackai-log/infrastructure/diffing"
	"github.com/helixml/hackai-log/infrastructure/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longDiff(changes int) string {
	var b strings.Builder
	b.WriteString("diff --git a/src/big.ts b/src/big.ts\nindex 1..2 100644\n")
	fmt.Fprintf(&b, "@@ -10,%d +10,%d @@", changes, changes)
	for i := 0; i < changes; i++ {
		fmt.Fprintf(&b, "\n+line %d", i)
	}
	return b.String()
}

func testSource() fakeSource {
	merged := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return fakeSource{
		pr:    pullrequest.NewPullRequest(42, "Big change", "", []string{"feature"}, "abc", &merged, "big", "def"),
		diffs: map[string]string{"abc": longDiff(30)},
	}
}

func TestDiff_Summarize(t *testing.T) {
	d := NewDiff(WithPullRequestSource(testSource()), WithDiffLimits(10, 2))

	s, err := d.Summarize(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/o/r/commit/abc", s.CommitURL())
	require.Equal(t, 1, s.Diff().Len())
	h := s.Diff().Hunks()[0]
	assert.Equal(t, "src/big.ts", h.File())
	assert.Equal(t, 10, h.StartLine())
	assert.Contains(t, h.Content(), diffing.SkipMarker(20))
}

func TestDiff_SummarizeDefaults(t *testing.T) {
	d := NewDiff(WithPullRequestSource(testSource()))

	s, err := d.Summarize(context.Background(), 42)
	require.NoError(t, err)
	assert.Contains(t, s.Diff().Hunks()[0].Content(), diffing.SkipMarker(30-diffing.DefaultMaxHunkLines))
}

func TestDiff_SummarizeHeadFallback(t *testing.T) {
	src := testSource()
	src.pr = pullrequest.NewPullRequest(42, "Open", "", nil, "", nil, "big", "abc")
	d := NewDiff(WithPullRequestSource(src))

	s, err := d.Summarize(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/o/r/commit/abc", s.CommitURL())
}

func TestDiff_SummarizeNoCommit(t *testing.T) {
	src := testSource()
	src.pr = pullrequest.NewPullRequest(42, "Empty", "", nil, "", nil, "", "")
	d := NewDiff(WithPullRequestSource(src))

	_, err := d.Summarize(context.Background(), 42)
	require.ErrorIs(t, err, ErrNoCommit)
}

func TestDiff_NotConfigured(t *testing.T) {
	d := NewDiff()

	_, err := d.Summarize(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = d.SummarizeLocal(context.Background(), ".", "HEAD")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestDiff_SummarizeLocal(t *testing.T) {
	committed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	local := fakeGit{
		sha:  "f00",
		info: git.CommitInfo{SHA: "f00", Message: "Tidy parser\n\nDetails here.", CommittedAt: committed},
		diff: "diff --git a/a.go b/a.go\n@@ -3,1 +3,1 @@\n-a\n+b",
	}
	d := NewDiff(WithLocalGit(local))

	s, err := d.SummarizeLocal(context.Background(), "/repo", "")
	require.NoError(t, err)

	pr := s.PullRequest()
	assert.Equal(t, "Tidy parser", pr.Title())
	assert.Equal(t, "Details here.", pr.Body())
	assert.Equal(t, "f00", pr.Ref())
	assert.Empty(t, s.CommitURL())
	require.Equal(t, 1, s.Diff().Len())
	assert.Equal(t, 3, s.Diff().Hunks()[0].StartLine())
}

func TestDiff_SummarizeLocalBadRevision(t *testing.T) {
	d := NewDiff(WithLocalGit(fakeGit{}))

	_, err := d.SummarizeLocal(context.Background(), "/repo", "nope")
	require.ErrorIs(t, err, git.ErrRevisionNotFound)
}

func TestDiff_ProcessWithLimits(t *testing.T) {
	var body strings.Builder
	body.WriteString("diff --git a/f.txt b/f.txt\n@@ -1,30 +1,30 @@\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&body, "+line %d\n", i)
	}

	d := NewDiff(WithDiffLimits(100, 3))

	uncropped := d.ProcessWithLimits(body.String(), 0, -1)
	require.Equal(t, 1, uncropped.Len())
	assert.NotContains(t, uncropped.Hunks()[0].Content(), "lines skipped")

	cropped := d.ProcessWithLimits(body.String(), 10, 0)
	require.Equal(t, 1, cropped.Len())
	assert.Contains(t, cropped.Hunks()[0].Content(), "@@ ... 20 lines skipped ... @@")
}
