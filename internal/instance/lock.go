// pattern: Imperative Shell

// Package instance keeps two gitclick invocations from syncing the same
// repository at once.
package instance

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = "gitclick.lock"

// ErrLocked is returned when another gitclick process holds the repository lock.
var ErrLocked = errors.New("another gitclick sync is running in this repository")

// RepoLock is a held repository lock.
type RepoLock struct {
	fl *flock.Flock
}

// Lock takes an exclusive lock on <gitDir>/gitclick.lock without waiting.
// The caller must Release it.
func Lock(gitDir string) (*RepoLock, error) {
	fl := flock.New(filepath.Join(gitDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return &RepoLock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *RepoLock) Path() string {
	return l.fl.Path()
}

// Release unlocks. Safe to call on a nil lock and more than once.
func (l *RepoLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
