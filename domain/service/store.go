// Package service declares the capabilities the application layer needs
// from storage, code hosting and the terminal.
package service

import (
	"context"
	"errors"

	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/domain/pullrequest"
)

// ErrKeyNotFound indicates the key/value store holds no row for a key.
var ErrKeyNotFound = errors.New("key not found")

// ErrNotInteractive indicates no user is available to answer a prompt.
var ErrNotInteractive = errors.New("not interactive")

// KeyValueStore reads raw values from the editor's state database.
type KeyValueStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}

// SnapshotWriter persists the full decoded record set of a store key.
type SnapshotWriter interface {
	Write(ctx context.Context, key string, records []chat.Document) error
}

// ComposerSelector asks somebody to choose one composer and returns its id.
type ComposerSelector interface {
	SelectComposer(ctx context.Context, composers []chat.Composer) (string, error)
}

// PullRequestSource fetches pull requests and their combined diffs.
type PullRequestSource interface {
	// PullRequest returns the metadata of pull request number.
	PullRequest(ctx context.Context, number int) (pullrequest.PullRequest, error)

	// CommitDiff returns the unified diff of a commit.
	CommitDiff(ctx context.Context, sha string) (string, error)

	// CommitURL returns the browser URL of a commit.
	CommitURL(sha string) string
}

