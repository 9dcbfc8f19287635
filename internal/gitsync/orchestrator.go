// pattern: Imperative Shell

package gitsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitclick/internal/clickup"
	"gitclick/internal/config"
	"gitclick/internal/github"
	"gitclick/internal/logging"
	"gitclick/internal/session"
	"gitclick/internal/vcs"
)

// Tracker is the ClickUp side of a sync.
type Tracker interface {
	TaskFetcher
	GetComments(ctx context.Context, taskID string) ([]clickup.Comment, error)
	AddBookmarkComment(ctx context.Context, taskID, link string) error
}

// Host is the GitHub side of a sync.
type Host interface {
	ListOpenPullRequests(ctx context.Context, owner, repo, base, head string) ([]github.PullRequest, error)
	CreatePullRequest(ctx context.Context, owner, repo string, spec github.NewPullRequest) (github.PullRequest, error)
	UpdatePullRequest(ctx context.Context, owner, repo string, number int, update github.PullRequestUpdate) (github.PullRequest, error)
	GetRef(ctx context.Context, owner, repo, ref string) (bool, error)
	MarkReadyForReview(ctx context.Context, nodeID string) error
}

// VCS is the local git side of a sync.
type VCS interface {
	CheckoutNewBranch(ctx context.Context, name string) error
	CheckoutExisting(ctx context.Context, name string) error
	CheckoutAndPullBase(ctx context.Context, base string) error
	PushUpstream(ctx context.Context, name string) error
	LocalBranchExists(ctx context.Context, name string) (bool, error)
	RemoteURL(ctx context.Context) (string, error)
}

// Options are the per-invocation flags.
type Options struct {
	Base    string // overrides Orchestrator.BaseBranch when set
	Undraft bool
}

// Status is the outcome of a run. Fields beyond State are filled as far as
// the run got.
type Status struct {
	State       State
	Result      Result
	Repo        vcs.Repository
	Base        string
	PullRequest github.PullRequest
	Created     bool // the pull request was opened by this run
	Linked      bool // the bookmark comment was added by this run
	Err         error
}

// ExitCode maps a finished run onto a process exit code.
func ExitCode(s Status) int {
	if s.State.Succeeded() {
		return 0
	}
	return 1
}

// Orchestrator runs the sync state machine. Each state has one step that
// performs its side effects and reports an Event; Transition decides what
// comes next.
type Orchestrator struct {
	Assembler  Assembler
	VCS        VCS
	Host       Host
	Tracker    Tracker
	Session    *session.Session
	Org        string // overrides the owner parsed from the remote URL
	BaseBranch string
	Templates  config.PRTemplates
	Timeout    time.Duration // per external call; zero disables
	Logger     *logging.ScopedLogger
}

type cachedPullRequest struct {
	Repo vcs.Repository
	Head string
	Base string
	PR   github.PullRequest
}

// Run drives one sync to a terminal state. It never panics on collaborator
// errors; they end the run in Failed with Status.Err set.
func (o *Orchestrator) Run(ctx context.Context, args []string, opts Options) Status {
	logger := o.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	st := &Status{State: Start, Base: o.BaseBranch}
	if opts.Base != "" {
		st.Base = opts.Base
	}
	if st.Base == "" {
		st.Base = config.DefaultBaseBranch
	}

	for !st.State.Terminal() {
		if err := ctx.Err(); err != nil {
			st.Err = err
			st.State = Failed
			break
		}

		ev, err := o.step(ctx, st, args, opts)
		next, ok := Transition(st.State, ev)
		if !ok {
			err = fmt.Errorf("no transition from %s on %s", st.State, ev)
			next = Failed
		}
		if err != nil {
			st.Err = err
		}
		logger.Debug("sync transition", "from", st.State.String(), "event", ev.String(), "to", next.String())
		st.State = next
	}

	if st.State.Succeeded() {
		logger.Info("sync finished", "state", st.State.String(), "branch", st.Result.BranchName)
	} else {
		logger.Warn("sync stopped", "state", st.State.String(), "branch", st.Result.BranchName, "error", st.Err)
	}
	return *st
}

func (o *Orchestrator) step(ctx context.Context, st *Status, args []string, opts Options) (Event, error) {
	switch st.State {
	case Start:
		return o.assemble(ctx, st, args)
	case Validating:
		return o.checkBase(ctx, st)
	case BaseBranchCheck:
		return o.prepareBranch(ctx, st)
	case BranchReady:
		return o.push(ctx, st)
	case Pushed:
		return o.resolvePullRequest(ctx, st, opts)
	case PRResolved:
		return o.link(ctx, st)
	case Linked:
		return EventFinished, nil
	default:
		return EventFailed, fmt.Errorf("no step for state %s", st.State)
	}
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.Timeout)
}

func (o *Orchestrator) templates() config.PRTemplates {
	if o.Templates.Title == "" || o.Templates.Body == "" {
		return config.DefaultPRTemplates()
	}
	return o.Templates
}

func (o *Orchestrator) assemble(ctx context.Context, st *Status, args []string) (Event, error) {
	cctx, cancel := o.withTimeout(ctx)
	defer cancel()
	res, err := o.Assembler.Assemble(cctx, args)
	if err != nil {
		return EventFailed, err
	}
	st.Result = res
	switch {
	case errors.Is(res.Err, ErrTaskIDNotFound):
		return EventNoTaskID, res.Err
	case errors.Is(res.Err, ErrTaskNotFound):
		return EventTaskNotFound, fmt.Errorf("%w: %s", ErrTaskNotFound, res.TaskID)
	}
	return EventAssembled, nil
}

// repository resolves owner/repo from the remote URL once per session.
func (o *Orchestrator) repository(ctx context.Context) (vcs.Repository, error) {
	repo, err := session.Remember(ctx, o.Session, session.KeyRepo, func(ctx context.Context) (vcs.Repository, error) {
		cctx, cancel := o.withTimeout(ctx)
		defer cancel()
		url, err := o.VCS.RemoteURL(cctx)
		if err != nil {
			return vcs.Repository{}, err
		}
		return vcs.ParseRemote(url)
	})
	if err != nil {
		return vcs.Repository{}, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}
	if o.Org != "" {
		repo.Owner = o.Org
	}
	return repo, nil
}

func (o *Orchestrator) checkBase(ctx context.Context, st *Status) (Event, error) {
	repo, err := o.repository(ctx)
	if err != nil {
		return EventFailed, err
	}
	st.Repo = repo

	cctx, cancel := o.withTimeout(ctx)
	defer cancel()
	found, err := o.Host.GetRef(cctx, repo.Owner, repo.Name, "heads/"+st.Base)
	if err != nil {
		return EventFailed, fmt.Errorf("%w: %w", ErrTransientAPI, err)
	}
	if !found {
		return EventBaseMissing, fmt.Errorf("%w: %s on %s", ErrBaseBranchMissing, st.Base, repo)
	}
	return EventBaseFound, nil
}

// prepareBranch checks out the target of a new branch run. Existing-branch
// runs pass straight through.
func (o *Orchestrator) prepareBranch(ctx context.Context, st *Status) (Event, error) {
	if !st.Result.IsNewBranch {
		return EventBranchReady, nil
	}
	name := st.Result.BranchName

	err := o.git(ctx, func(ctx context.Context) error { return o.VCS.CheckoutAndPullBase(ctx, st.Base) })
	if err != nil {
		return EventFailed, err
	}

	var exists bool
	err = o.git(ctx, func(ctx context.Context) (err error) {
		exists, err = o.VCS.LocalBranchExists(ctx, name)
		return err
	})
	if err != nil {
		return EventFailed, err
	}

	if exists {
		err = o.git(ctx, func(ctx context.Context) error { return o.VCS.CheckoutExisting(ctx, name) })
	} else {
		err = o.git(ctx, func(ctx context.Context) error { return o.VCS.CheckoutNewBranch(ctx, name) })
	}
	if err != nil {
		return EventFailed, err
	}
	o.Session.Forget(session.KeyBranch)
	return EventBranchReady, nil
}

func (o *Orchestrator) push(ctx context.Context, st *Status) (Event, error) {
	err := o.git(ctx, func(ctx context.Context) error { return o.VCS.PushUpstream(ctx, st.Result.BranchName) })
	if err != nil {
		return EventFailed, err
	}
	if st.Result.IsNewBranch {
		return EventProvisioned, nil
	}
	return EventPushed, nil
}

func (o *Orchestrator) git(ctx context.Context, fn func(context.Context) error) error {
	cctx, cancel := o.withTimeout(ctx)
	defer cancel()
	return fn(cctx)
}

func (o *Orchestrator) resolvePullRequest(ctx context.Context, st *Status, opts Options) (Event, error) {
	pr, created, err := o.upsertPullRequest(ctx, st, opts)
	switch {
	case errors.Is(err, github.ErrNoCommits):
		return EventNoCommits, nil
	case errors.Is(err, github.ErrInvalidBase):
		return EventInvalidBase, fmt.Errorf("%w: %s (%v)", ErrBaseBranchMissing, st.Base, err)
	case err != nil:
		return EventFailed, fmt.Errorf("%w: %w", ErrTransientAPI, err)
	}

	st.PullRequest = pr
	st.Created = created
	o.Session.Store(session.KeyPullRequest, cachedPullRequest{Repo: st.Repo, Head: st.Result.BranchName, Base: st.Base, PR: pr})
	return EventPRResolved, nil
}

func (o *Orchestrator) findPullRequest(ctx context.Context, st *Status) (github.PullRequest, bool, error) {
	head := st.Result.BranchName
	if c, ok := session.Lookup[cachedPullRequest](o.Session, session.KeyPullRequest); ok &&
		c.Repo == st.Repo && c.Head == head && c.Base == st.Base {
		return c.PR, true, nil
	}

	cctx, cancel := o.withTimeout(ctx)
	defer cancel()
	prs, err := o.Host.ListOpenPullRequests(cctx, st.Repo.Owner, st.Repo.Name, st.Base, head)
	if err != nil || len(prs) == 0 {
		return github.PullRequest{}, false, err
	}
	return prs[0], true, nil
}

// upsertPullRequest updates the open pull request for head/base or opens a
// new one. A new pull request is a draft unless opts.Undraft is set.
// With opts.Undraft, an existing draft is marked ready for review before the
// update; a pull request that is already ready is left alone, since the
// mutation would change nothing.
func (o *Orchestrator) upsertPullRequest(ctx context.Context, st *Status, opts Options) (github.PullRequest, bool, error) {
	task := st.Result.Task

	existing, found, err := o.findPullRequest(ctx, st)
	if err != nil {
		return github.PullRequest{}, false, err
	}

	if found {
		if opts.Undraft && existing.Draft {
			cctx, cancel := o.withTimeout(ctx)
			err := o.Host.MarkReadyForReview(cctx, existing.NodeID)
			cancel()
			if err != nil {
				return github.PullRequest{}, false, err
			}
			existing.Draft = false
		}
		pr, err := o.updatePullRequest(ctx, st.Repo, existing.Number, task, existing.Private)
		return pr, false, err
	}

	// Repository visibility is only known from the created pull request, so
	// the first body never includes the task description.
	title, body, err := RenderPullRequest(o.templates(), task, false)
	if err != nil {
		return github.PullRequest{}, false, err
	}
	cctx, cancel := o.withTimeout(ctx)
	pr, err := o.Host.CreatePullRequest(cctx, st.Repo.Owner, st.Repo.Name, github.NewPullRequest{
		Title: title,
		Body:  body,
		Head:  st.Result.BranchName,
		Base:  st.Base,
		Draft: !opts.Undraft,
	})
	cancel()
	if err != nil {
		return github.PullRequest{}, false, err
	}

	if pr.Private {
		pr, err = o.updatePullRequest(ctx, st.Repo, pr.Number, task, true)
		if err != nil {
			return github.PullRequest{}, true, err
		}
	}
	return pr, true, nil
}

func (o *Orchestrator) updatePullRequest(ctx context.Context, repo vcs.Repository, number int, task clickup.Task, private bool) (github.PullRequest, error) {
	title, body, err := RenderPullRequest(o.templates(), task, private)
	if err != nil {
		return github.PullRequest{}, err
	}
	cctx, cancel := o.withTimeout(ctx)
	defer cancel()
	return o.Host.UpdatePullRequest(cctx, repo.Owner, repo.Name, number, github.PullRequestUpdate{Title: title, Body: body})
}

// link adds a bookmark comment for the pull request unless the task
// already carries one with the exact URL.
func (o *Orchestrator) link(ctx context.Context, st *Status) (Event, error) {
	taskID := st.Result.Task.ID
	url := st.PullRequest.HTMLURL

	cctx, cancel := o.withTimeout(ctx)
	comments, err := o.Tracker.GetComments(cctx, taskID)
	cancel()
	if err != nil {
		return EventFailed, fmt.Errorf("%w: reading comments of %s: %w", ErrTransientAPI, taskID, err)
	}
	if clickup.HasBookmark(comments, url) {
		return EventLinked, nil
	}

	cctx, cancel = o.withTimeout(ctx)
	defer cancel()
	if err := o.Tracker.AddBookmarkComment(cctx, taskID, url); err != nil {
		return EventFailed, fmt.Errorf("%w: linking %s: %w", ErrTransientAPI, taskID, err)
	}
	st.Linked = true
	return EventLinked, nil
}
