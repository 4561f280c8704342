package service

import "errors"

// ErrComposerNotFound indicates a selected composer id matches no composer.
var ErrComposerNotFound = errors.New("composer not found")

// ErrNoCommit indicates a pull request without a commit to diff.
var ErrNoCommit = errors.New("pull request has no commit")

// ErrNotConfigured indicates a pipeline was invoked without the source it needs.
var ErrNotConfigured = errors.New("source not configured")
