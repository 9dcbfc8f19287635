// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"gitclick/internal/gitsync"
	"gitclick/internal/render"
)

// BuildApp creates and configures the CLI application with all commands.
func BuildApp(version string, opts Options) *App {
	app := NewApp(version, opts.stdout(), opts.stderr())

	app.AddCommand(&Command{
		Name:    "sync",
		Summary: "Create or update the branch, pull request and task link",
		Usage:   "Usage: gitclick sync [words...] [--base <branch>] [--undraft]",
		Run: func(args []string) int {
			return runSyncCommand(opts, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "info",
		Summary: "Show the branch and task a sync would use, without changing anything",
		Usage:   "Usage: gitclick info [words...] [--base <branch>]",
		Run: func(args []string) int {
			return runInfoCommand(opts, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "watch",
		Summary: "Sync the current branch again every time HEAD changes",
		Usage:   "Usage: gitclick watch [--base <branch>] [--undraft]",
		Run: func(args []string) int {
			return runWatchCommand(opts, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: gitclick version",
		Run: func(args []string) int {
			fmt.Fprintln(opts.stdout(), version)
			return 0
		},
	})

	return app
}

// syncFlags are the flags shared by sync, info and watch.
type syncFlags struct {
	base    string
	undraft bool
	words   []string
}

// errHelp means --help was printed and the command should exit 0.
var errHelp = errors.New("help requested")

func parseSyncFlags(name, usage string, args []string, withUndraft bool, stderr io.Writer) (syncFlags, error) {
	var f syncFlags
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "%s\n\nOptions:\n", usage)
		fs.PrintDefaults()
	}
	fs.StringVarP(&f.base, "base", "b", "", "base branch for the pull request (default: config base_branch)")
	if withUndraft {
		fs.BoolVar(&f.undraft, "undraft", false, "mark the pull request ready for review")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return f, errHelp
		}
		return f, err
	}
	f.words = fs.Args()
	return f, nil
}

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// setup parses flags and builds the environment. A non-negative code means
// the command is already finished with that exit code.
func setup(opts Options, name, usage string, args []string, withUndraft bool) (*Env, syncFlags, int) {
	f, err := parseSyncFlags(name, usage, args, withUndraft, opts.stderr())
	if errors.Is(err, errHelp) {
		return nil, f, 0
	}
	if err != nil {
		return nil, f, 1
	}

	env, err := NewEnv(context.Background(), opts)
	if err != nil {
		render.NewPrinter(opts.stderr(), "").Error(err.Error())
		return nil, f, 1
	}
	return env, f, -1
}

func runSyncCommand(opts Options, args []string) int {
	env, f, code := setup(opts, "sync", "Usage: gitclick sync [words...] [--base <branch>] [--undraft]", args, true)
	if code >= 0 {
		return code
	}
	defer env.Close()

	if err := env.Config.Validate(); err != nil {
		env.Printer.Error(err.Error())
		env.Printer.Guidance("Set the tokens in " + env.ConfigDir + "/config.yaml, a .env file or the environment.")
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	// A new branch can be provisioned from outside a checkout only if git
	// can find the repository, so the lock is required either way.
	lock, err := env.Lock(ctx)
	if err != nil {
		env.Printer.Failure(err)
		return 1
	}
	defer func() { _ = lock.Release() }()

	st := env.Orchestrator().Run(ctx, f.words, gitsync.Options{Base: f.base, Undraft: f.undraft})
	env.Printer.Status(st)
	return gitsync.ExitCode(st)
}

func runInfoCommand(opts Options, args []string) int {
	env, f, code := setup(opts, "info", "Usage: gitclick info [words...] [--base <branch>]", args, false)
	if code >= 0 {
		return code
	}
	defer env.Close()

	if env.Config.ClickUpToken == "" {
		env.Printer.Error("missing ClickUp token")
		env.Printer.Guidance("Set GITCLICK_CLICKUP_PERSONAL_TOKEN or clickup_token in " + env.ConfigDir + "/config.yaml.")
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, env.Config.Timeout)
	defer cancelTimeout()

	res, err := env.Assembler().Assemble(ctx, f.words)
	if err != nil {
		env.Printer.Failure(err)
		return 1
	}

	base := f.base
	if base == "" {
		base = env.Config.BaseBranch
	}
	env.Printer.Plan(res, base)

	switch {
	case errors.Is(res.Err, gitsync.ErrTaskIDNotFound):
		env.Printer.Status(gitsync.Status{State: gitsync.AbortedNoTaskID, Result: res})
		return 1
	case errors.Is(res.Err, gitsync.ErrTaskNotFound):
		env.Printer.Status(gitsync.Status{State: gitsync.AbortedTaskNotFound, Result: res})
		return 1
	}
	return 0
}

func runWatchCommand(opts Options, args []string) int {
	env, f, code := setup(opts, "watch", "Usage: gitclick watch [--base <branch>] [--undraft]", args, true)
	if code >= 0 {
		return code
	}
	defer env.Close()

	if len(f.words) > 0 {
		env.Printer.Error("watch syncs the checked-out branch and takes no branch words")
		return 1
	}
	if err := env.Config.Validate(); err != nil {
		env.Printer.Error(err.Error())
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	gitDir, err := env.GitDir(ctx)
	if err != nil {
		env.Printer.Failure(err)
		return 1
	}

	logger := env.Logs.For("watch")
	orch := env.Orchestrator()
	syncOnce := func() {
		lock, err := env.Lock(ctx)
		if err != nil {
			env.Printer.Failure(err)
			return
		}
		defer func() { _ = lock.Release() }()

		st := orch.Run(ctx, nil, gitsync.Options{Base: f.base, Undraft: f.undraft})
		if ctx.Err() != nil {
			return
		}
		env.Printer.Status(st)
		logger.Info("watch sync done", "state", st.State.String())
	}

	env.Printer.Info("Watching " + gitDir + " for branch changes, press Ctrl-C to stop.")
	syncOnce()
	if err := env.Session.WatchHead(ctx, gitDir, syncOnce); err != nil {
		env.Printer.Failure(err)
		return 1
	}
	return 0
}
