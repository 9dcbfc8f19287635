// pattern: Imperative Shell

package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"gitclick/internal/logging"
)

// CommandExecutor runs name with args in dir and returns stdout.
type CommandExecutor func(ctx context.Context, dir, name string, args ...string) (string, error)

// Runner wraps the git operations a sync needs.
type Runner struct {
	dir    string
	remote string
	exec   CommandExecutor
	logger *logging.ScopedLogger
}

// NewRunner creates a Runner for the repository containing dir ("" means
// the process working directory), pushing to remote.
func NewRunner(dir, remote string, logger *logging.ScopedLogger) *Runner {
	return NewRunnerWithExecutor(dir, remote, defaultExecutor, logger)
}

// NewRunnerWithExecutor creates a Runner with a custom executor for testing.
func NewRunnerWithExecutor(dir, remote string, exec CommandExecutor, logger *logging.ScopedLogger) *Runner {
	if remote == "" {
		remote = "origin"
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runner{dir: dir, remote: remote, exec: exec, logger: logger}
}

// defaultExecutor runs commands using os/exec.
func defaultExecutor(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", err
	}

	return stdout.String(), nil
}

func (r *Runner) git(ctx context.Context, args ...string) (string, error) {
	r.logger.Debug("git", "args", strings.Join(args, " "))
	out, err := r.exec(ctx, r.dir, "git", args...)
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(out), nil
}

// Remote returns the remote name used for pull and push.
func (r *Runner) Remote() string {
	return r.remote
}

// CurrentBranchName returns the checked-out branch, or "" when HEAD is detached.
func (r *Runner) CurrentBranchName(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if out == "HEAD" {
		return "", nil
	}
	return out, nil
}

// CheckoutNewBranch creates name from the current HEAD and switches to it.
func (r *Runner) CheckoutNewBranch(ctx context.Context, name string) error {
	_, err := r.git(ctx, "checkout", "-b", name)
	return err
}

// CheckoutExisting switches to name. When only the remote-tracking branch
// exists git creates the local branch from it.
func (r *Runner) CheckoutExisting(ctx context.Context, name string) error {
	_, err := r.git(ctx, "checkout", name)
	return err
}

// CheckoutAndPullBase switches to base and pulls it from the remote.
func (r *Runner) CheckoutAndPullBase(ctx context.Context, base string) error {
	if _, err := r.git(ctx, "checkout", base); err != nil {
		return err
	}
	_, err := r.git(ctx, "pull", r.remote, base)
	return err
}

// PushUpstream pushes name and sets its upstream.
func (r *Runner) PushUpstream(ctx context.Context, name string) error {
	_, err := r.git(ctx, "push", "--set-upstream", r.remote, name)
	return err
}

// LocalBranchExists reports whether name exists as a local branch or as a
// remote-tracking branch of the configured remote. Only local refs are read.
func (r *Runner) LocalBranchExists(ctx context.Context, name string) (bool, error) {
	local := "refs/heads/" + name
	tracking := "refs/remotes/" + r.remote + "/" + name
	out, err := r.git(ctx, "for-each-ref", "--format=%(refname)", local, tracking)
	if err != nil {
		return false, err
	}
	// for-each-ref patterns also match refs below the given path, so compare exactly.
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == local || line == tracking {
			return true, nil
		}
	}
	return false, nil
}

// GitDir returns the absolute path of the .git directory.
func (r *Runner) GitDir(ctx context.Context) (string, error) {
	return r.git(ctx, "rev-parse", "--absolute-git-dir")
}

// RepoRoot returns the absolute path of the working tree root.
func (r *Runner) RepoRoot(ctx context.Context) (string, error) {
	return r.git(ctx, "rev-parse", "--show-toplevel")
}

// RemoteURL returns the fetch URL of the configured remote.
func (r *Runner) RemoteURL(ctx context.Context) (string, error) {
	return r.git(ctx, "remote", "get-url", r.remote)
}
