// pattern: Imperative Shell
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gitclick/internal/branch"
	"gitclick/internal/clickup"
	"gitclick/internal/config"
	"gitclick/internal/github"
	"gitclick/internal/gitsync"
	"gitclick/internal/instance"
	"gitclick/internal/logging"
	"gitclick/internal/render"
	"gitclick/internal/session"
	"gitclick/internal/vcs"
)

// Options carries the global flags and the process-level dependencies a
// command needs. Zero values mean the real process environment.
type Options struct {
	ConfigDir string
	Verbose   bool
	WorkDir   string
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv config.LookupFunc
	Executor  vcs.CommandExecutor
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}

func (o Options) lookupEnv() config.LookupFunc {
	if o.LookupEnv == nil {
		return os.LookupEnv
	}
	return o.LookupEnv
}

func (o Options) getwd() (string, error) {
	if o.WorkDir != "" {
		return o.WorkDir, nil
	}
	return os.Getwd()
}

func (o Options) runner(remote string, logger *logging.ScopedLogger) *vcs.Runner {
	if o.Executor != nil {
		return vcs.NewRunnerWithExecutor(o.WorkDir, remote, o.Executor, logger)
	}
	return vcs.NewRunner(o.WorkDir, remote, logger)
}

// Env is everything a command builds from configuration.
type Env struct {
	Config    config.Config
	ConfigDir string
	Templates config.PRTemplates
	Logs      *logging.Manager
	Session   *session.Session
	Git       *vcs.Runner
	ClickUp   *clickup.Client
	GitHub    *github.Client
	Printer   *render.Printer
}

// NewEnv loads configuration in precedence order (defaults, config file,
// .env at the repository root, environment) and wires the collaborators.
func NewEnv(ctx context.Context, opts Options) (*Env, error) {
	dir := config.Dir(opts.ConfigDir)
	cfg, err := config.LoadFromDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	lookup, err := withDotEnv(ctx, opts, cfg.Remote)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(lookup)

	level := cfg.LogLevel
	var console io.Writer
	if opts.Verbose {
		level = "debug"
		console = opts.stderr()
	}
	logs, err := logging.NewManager(logging.Config{
		FilePath: config.LogPath(dir),
		Level:    level,
		Console:  console,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	tmpls, err := config.LoadPRTemplates(dir)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("loading pull request templates: %w", err)
	}

	gh, err := github.NewClient(github.Config{
		Token:   cfg.GitHubToken,
		BaseURL: cfg.GitHubURL,
		Timeout: cfg.Timeout,
	}, logs.For("github"))
	if err != nil {
		_ = logs.Close()
		return nil, err
	}

	sess := session.NewWith(opts.getwd, lookup, config.EnvKeys)
	env := &Env{
		Config:    cfg,
		ConfigDir: dir,
		Templates: tmpls,
		Logs:      logs,
		Session:   sess,
		Git:       opts.runner(cfg.Remote, logs.For("git")),
		ClickUp: clickup.NewClient(clickup.Config{
			BaseURL: cfg.ClickUpURL,
			Token:   cfg.ClickUpToken,
			Timeout: cfg.Timeout,
		}, sess, logs.For("clickup")),
		GitHub:  gh,
		Printer: render.NewPrinter(opts.stdout(), cfg.Theme),
	}

	logs.For("app").Debug("environment ready",
		"config_dir", dir,
		"base_branch", cfg.BaseBranch,
		"remote", cfg.Remote,
		"org", cfg.GitHubOrg,
	)
	return env, nil
}

// withDotEnv returns the environment lookup with the repository's .env file
// as a fallback. Outside a repository the working directory's .env is used.
func withDotEnv(ctx context.Context, opts Options, remote string) (config.LookupFunc, error) {
	root, err := opts.runner(remote, nil).RepoRoot(ctx)
	if err != nil || root == "" {
		if root, err = opts.getwd(); err != nil {
			return opts.lookupEnv(), nil
		}
	}
	values, err := config.LoadDotEnv(filepath.Join(root, ".env"))
	if err != nil {
		return nil, err
	}
	return config.WithFallback(opts.lookupEnv(), values), nil
}

// Assembler builds the data assembler over the memoized branch source.
func (e *Env) Assembler() gitsync.Assembler {
	return gitsync.Assembler{
		Interpolator: branch.Interpolator{Branches: e.Session.Branches(e.Git)},
		Tasks:        e.ClickUp,
	}
}

// Orchestrator builds the sync state machine.
func (e *Env) Orchestrator() *gitsync.Orchestrator {
	return &gitsync.Orchestrator{
		Assembler:  e.Assembler(),
		VCS:        e.Git,
		Host:       e.GitHub,
		Tracker:    e.ClickUp,
		Session:    e.Session,
		Org:        e.Config.GitHubOrg,
		BaseBranch: e.Config.BaseBranch,
		Templates:  e.Templates,
		Timeout:    e.Config.Timeout,
		Logger:     e.Logs.For("sync"),
	}
}

// GitDir returns the repository's .git directory.
func (e *Env) GitDir(ctx context.Context) (string, error) {
	dir, err := e.Git.GitDir(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", gitsync.ErrRepositoryUnavailable, err)
	}
	return dir, nil
}

// Lock takes the repository lock for one sync.
func (e *Env) Lock(ctx context.Context) (*instance.RepoLock, error) {
	dir, err := e.GitDir(ctx)
	if err != nil {
		return nil, err
	}
	return instance.Lock(dir)
}

// Close flushes and closes the log file.
func (e *Env) Close() {
	_ = e.Logs.Sync()
	_ = e.Logs.Close()
}
