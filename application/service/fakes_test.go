package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/domain/pullrequest"
	domainservice "github.com/helixml/hackai-log/domain/service"
	"github.com/helixml/hackai-log/infrastructure/git"
)

type fakeStore map[string]string

func (f fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := f[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, domainservice.ErrKeyNotFound)
	}
	return []byte(v), nil
}

type fakeSnapshots struct {
	mu      sync.Mutex
	written map[string][]chat.Document
	err     error
}

func (f *fakeSnapshots) Write(_ context.Context, key string, records []chat.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.written == nil {
		f.written = map[string][]chat.Document{}
	}
	f.written[key] = records
	return nil
}

type fakeSelector struct {
	id    string
	err   error
	calls int
}

func (f *fakeSelector) SelectComposer(_ context.Context, _ []chat.Composer) (string, error) {
	f.calls++
	return f.id, f.err
}

type fakeSource struct {
	pr    pullrequest.PullRequest
	diffs map[string]string
	err   error
}

func (f fakeSource) PullRequest(_ context.Context, number int) (pullrequest.PullRequest, error) {
	if f.err != nil {
		return pullrequest.PullRequest{}, f.err
	}
	if number != f.pr.Number() {
		return pullrequest.PullRequest{}, errors.New("not found")
	}
	return f.pr, nil
}

func (f fakeSource) CommitDiff(_ context.Context, sha string) (string, error) {
	d, ok := f.diffs[sha]
	if !ok {
		return "", errors.New("no diff for " + sha)
	}
	return d, nil
}

func (f fakeSource) CommitURL(sha string) string {
	return "https://github.com/o/r/commit/" + sha
}

type fakeGit struct {
	sha  string
	info git.CommitInfo
	diff string
}

func (f fakeGit) RepositoryExists(context.Context, string) (bool, error) { return true, nil }

func (f fakeGit) ResolveRevision(_ context.Context, _ string, rev string) (string, error) {
	if rev != "HEAD" {
		return "", git.ErrRevisionNotFound
	}
	return f.sha, nil
}

func (f fakeGit) CommitDetails(context.Context, string, string) (git.CommitInfo, error) {
	return f.info, nil
}

func (f fakeGit) CommitDiff(context.Context, string, string) (string, error) {
	return f.diff, nil
}
