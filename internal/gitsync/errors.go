// pattern: Functional Core

package gitsync

import (
	"errors"

	"gitclick/internal/branch"
)

var (
	// ErrRepositoryUnavailable means no branch or repository context could
	// be derived.
	ErrRepositoryUnavailable = branch.ErrRepositoryUnavailable

	// ErrTaskIDNotFound means the branch name carries no parseable task id.
	ErrTaskIDNotFound = errors.New("branch name carries no task id")

	// ErrTaskNotFound means ClickUp has no task with the extracted id.
	ErrTaskNotFound = errors.New("task not found in ClickUp")

	// ErrBaseBranchMissing means the remote lacks the configured base branch.
	ErrBaseBranchMissing = errors.New("base branch does not exist on the remote")

	// ErrNoOpIdentical means head and base have no diff. It is reported to
	// the user but is not a failure.
	ErrNoOpIdentical = errors.New("no commits between head and base")

	// ErrTransientAPI wraps any other ClickUp or GitHub failure.
	ErrTransientAPI = errors.New("api call failed")
)
