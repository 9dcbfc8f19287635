// pattern: Imperative Shell

// Package session holds the per-process memo shared by one gitclick run:
// current branch, owner/repo, ClickUp team id and the resolved pull request.
//
// Memoized values belong to a generation keyed by the working directory and
// the recognized environment variables. Every read re-checks that key and
// drops all values when it changed, so a memo never outlives the context it
// was computed in. Invalidate and Forget drop values explicitly.
package session

import (
	"context"
	"os"
	"strings"
	"sync"
)

// Key names a memoized value.
type Key string

const (
	KeyBranch      Key = "branch"
	KeyRepo        Key = "repo"
	KeyTeamID      Key = "team_id"
	KeyPullRequest Key = "pull_request"
)

// Session is the memo. The zero value is not usable; call New.
// A nil *Session is accepted by Remember and never caches.
type Session struct {
	mu      sync.Mutex
	getwd   func() (string, error)
	lookup  func(string) (string, bool)
	envKeys []string
	gen     string
	values  map[Key]any
}

// New creates a Session keyed by the real working directory and the given
// environment variables.
func New(envKeys []string) *Session {
	return NewWith(os.Getwd, os.LookupEnv, envKeys)
}

// NewWith creates a Session with injected working-directory and environment
// lookups (for testing).
func NewWith(getwd func() (string, error), lookup func(string) (string, bool), envKeys []string) *Session {
	return &Session{
		getwd:   getwd,
		lookup:  lookup,
		envKeys: append([]string(nil), envKeys...),
		values:  make(map[Key]any),
	}
}

func (s *Session) fingerprint() string {
	var sb strings.Builder
	wd, err := s.getwd()
	if err != nil {
		wd = "?"
	}
	sb.WriteString(wd)
	for _, k := range s.envKeys {
		v, _ := s.lookup(k)
		sb.WriteString("\x00")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(v)
	}
	return sb.String()
}

// refreshLocked drops every value when the generation key changed.
func (s *Session) refreshLocked() string {
	fp := s.fingerprint()
	if fp != s.gen {
		s.gen = fp
		s.values = make(map[Key]any)
	}
	return fp
}

// Remember returns the memoized value for key, calling load on a miss.
// Errors are not memoized.
func Remember[T any](ctx context.Context, s *Session, key Key, load func(context.Context) (T, error)) (T, error) {
	if s == nil {
		return load(ctx)
	}

	s.mu.Lock()
	gen := s.refreshLocked()
	if v, ok := s.values[key].(T); ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.values[key] = v
	}
	s.mu.Unlock()
	return v, nil
}

// Lookup returns the memoized value for key without loading.
func Lookup[T any](s *Session, key Key) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	v, ok := s.values[key].(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Store sets key in the current generation.
func (s *Session) Store(key Key, v any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	s.values[key] = v
}

// Forget drops one memoized value.
func (s *Session) Forget(key Key) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Invalidate drops every memoized value.
func (s *Session) Invalidate() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[Key]any)
}

// TeamID memoizes the ClickUp team id.
func (s *Session) TeamID(ctx context.Context, load func(context.Context) (string, error)) (string, error) {
	return Remember(ctx, s, KeyTeamID, load)
}

// BranchSource reports the checked-out branch.
type BranchSource interface {
	CurrentBranchName(ctx context.Context) (string, error)
}

// Branches wraps src so the current branch name is memoized. An empty name
// (detached HEAD) is returned but not remembered.
func (s *Session) Branches(src BranchSource) BranchSource {
	return memoBranches{s: s, src: src}
}

type memoBranches struct {
	s   *Session
	src BranchSource
}

func (m memoBranches) CurrentBranchName(ctx context.Context) (string, error) {
	if name, ok := Lookup[string](m.s, KeyBranch); ok {
		return name, nil
	}
	name, err := m.src.CurrentBranchName(ctx)
	if err != nil || name == "" {
		return name, err
	}
	m.s.Store(KeyBranch, name)
	return name, nil
}
