// Package pullrequest provides domain types for pull request summaries.
package pullrequest

import (
	"time"

	"github.com/helixml/hackai-log/domain/diff"
)

// PullRequest holds the pull request fields the summary needs.
type PullRequest struct {
	number         int
	title          string
	body           string
	labels         []string
	mergeCommitSHA string
	mergedAt       *time.Time
	headRef        string
	headSHA        string
}

// NewPullRequest creates a PullRequest.
func NewPullRequest(number int, title, body string, labels []string, mergeCommitSHA string, mergedAt *time.Time, headRef, headSHA string) PullRequest {
	l := make([]string, len(labels))
	copy(l, labels)
	return PullRequest{
		number:         number,
		title:          title,
		body:           body,
		labels:         l,
		mergeCommitSHA: mergeCommitSHA,
		mergedAt:       mergedAt,
		headRef:        headRef,
		headSHA:        headSHA,
	}
}

// Number returns the pull request number.
func (p PullRequest) Number() int { return p.number }

// Title returns the title.
func (p PullRequest) Title() string { return p.title }

// Body returns the description, or empty.
func (p PullRequest) Body() string { return p.body }

// Labels returns the label names.
func (p PullRequest) Labels() []string {
	l := make([]string, len(p.labels))
	copy(l, p.labels)
	return l
}

// MergeCommitSHA returns the merge commit, or empty for unmerged PRs.
func (p PullRequest) MergeCommitSHA() string { return p.mergeCommitSHA }

// MergedAt returns the merge time, or nil.
func (p PullRequest) MergedAt() *time.Time { return p.mergedAt }

// HeadRef returns the source branch name.
func (p PullRequest) HeadRef() string { return p.headRef }

// HeadSHA returns the source branch head commit.
func (p PullRequest) HeadSHA() string { return p.headSHA }

// Ref returns the commit the summary describes: the merge commit when
// present, otherwise the head commit.
func (p PullRequest) Ref() string {
	if p.mergeCommitSHA != "" {
		return p.mergeCommitSHA
	}
	return p.headSHA
}

// Summary is a pull request together with its processed diff.
type Summary struct {
	pr        PullRequest
	diff      diff.Result
	commitURL string
}

// NewSummary creates a Summary.
func NewSummary(pr PullRequest, d diff.Result, commitURL string) Summary {
	return Summary{pr: pr, diff: d, commitURL: commitURL}
}

// PullRequest returns the pull request.
func (s Summary) PullRequest() PullRequest { return s.pr }

// Diff returns the processed diff.
func (s Summary) Diff() diff.Result { return s.diff }

// CommitURL returns the web URL of the summarized commit.
func (s Summary) CommitURL() string { return s.commitURL }
