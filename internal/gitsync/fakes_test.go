package gitsync

import (
	"context"
	"fmt"

	"gitclick/internal/branch"
	"gitclick/internal/clickup"
	"gitclick/internal/github"
)

// fakeTracker is an in-memory ClickUp. Added bookmark comments become
// visible to later GetComments calls.
type fakeTracker struct {
	tasks    map[string]clickup.Task
	comments map[string][]clickup.Comment
	fail     error

	getTaskCalls     int
	getCommentsCalls int
	addCalls         int
}

func newFakeTracker(tasks ...clickup.Task) *fakeTracker {
	f := &fakeTracker{tasks: map[string]clickup.Task{}, comments: map[string][]clickup.Comment{}}
	for _, t := range tasks {
		f.tasks[t.CustomID] = t
	}
	return f
}

func (f *fakeTracker) GetTask(_ context.Context, customID string) clickup.LookupResult {
	f.getTaskCalls++
	if f.fail != nil {
		return clickup.LookupResult{Status: clickup.Failed, Err: f.fail}
	}
	t, ok := f.tasks[customID]
	if !ok {
		return clickup.LookupResult{Status: clickup.NotFound}
	}
	return clickup.LookupResult{Status: clickup.Found, Task: t}
}

func (f *fakeTracker) GetComments(_ context.Context, taskID string) ([]clickup.Comment, error) {
	f.getCommentsCalls++
	return f.comments[taskID], nil
}

func (f *fakeTracker) AddBookmarkComment(_ context.Context, taskID, link string) error {
	f.addCalls++
	f.comments[taskID] = append(f.comments[taskID], clickup.Comment{
		ID:     fmt.Sprintf("c%d", f.addCalls),
		Blocks: []clickup.Block{{Type: "bookmark", Bookmark: &clickup.Bookmark{Service: "url", URL: link}}},
	})
	return nil
}

type hostPR struct {
	head, base string
	pr         github.PullRequest
}

// fakeHost is an in-memory GitHub repository.
type fakeHost struct {
	refs      map[string]bool
	prs       []*hostPR
	private   bool
	createErr error
	updateErr error

	calls  []string
	owners []string
}

func newFakeHost(refs ...string) *fakeHost {
	h := &fakeHost{refs: map[string]bool{}}
	for _, r := range refs {
		h.refs[r] = true
	}
	return h
}

func (h *fakeHost) record(call, owner string) {
	h.calls = append(h.calls, call)
	if owner != "" {
		h.owners = append(h.owners, owner)
	}
}

func (h *fakeHost) count(call string) int {
	n := 0
	for _, c := range h.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (h *fakeHost) seed(head, base string, pr github.PullRequest) {
	h.prs = append(h.prs, &hostPR{head: head, base: base, pr: pr})
}

func (h *fakeHost) ListOpenPullRequests(_ context.Context, owner, _, base, head string) ([]github.PullRequest, error) {
	h.record("list", owner)
	var out []github.PullRequest
	for _, p := range h.prs {
		if p.head == head && p.base == base {
			out = append(out, p.pr)
		}
	}
	return out, nil
}

func (h *fakeHost) CreatePullRequest(_ context.Context, owner, _ string, spec github.NewPullRequest) (github.PullRequest, error) {
	h.record("create", owner)
	if h.createErr != nil {
		return github.PullRequest{}, h.createErr
	}
	n := len(h.prs) + 1
	pr := github.PullRequest{
		Number:  n,
		HTMLURL: fmt.Sprintf("https://github.com/acme/app/pull/%d", n),
		NodeID:  fmt.Sprintf("PR_%d", n),
		Title:   spec.Title,
		Draft:   spec.Draft,
		Private: h.private,
	}
	h.seed(spec.Head, spec.Base, pr)
	return pr, nil
}

func (h *fakeHost) UpdatePullRequest(_ context.Context, owner, _ string, number int, update github.PullRequestUpdate) (github.PullRequest, error) {
	h.record("update", owner)
	if h.updateErr != nil {
		return github.PullRequest{}, h.updateErr
	}
	for _, p := range h.prs {
		if p.pr.Number == number {
			p.pr.Title = update.Title
			return p.pr, nil
		}
	}
	return github.PullRequest{}, fmt.Errorf("pull request #%d not found", number)
}

func (h *fakeHost) GetRef(_ context.Context, owner, _, ref string) (bool, error) {
	h.record("get_ref:"+ref, owner)
	return h.refs[ref], nil
}

func (h *fakeHost) MarkReadyForReview(_ context.Context, nodeID string) error {
	h.record("mark_ready", "")
	for _, p := range h.prs {
		if p.pr.NodeID == nodeID {
			p.pr.Draft = false
			return nil
		}
	}
	return fmt.Errorf("node %s not found", nodeID)
}

// fakeVCS is a local repository with a checked-out branch.
type fakeVCS struct {
	branch    string
	local     map[string]bool
	remoteURL string
	pushErr   error

	calls []string
}

func newFakeVCS(current string) *fakeVCS {
	return &fakeVCS{
		branch:    current,
		local:     map[string]bool{"main": true, current: current != ""},
		remoteURL: "git@github.com:acme/app.git",
	}
}

func (v *fakeVCS) CurrentBranchName(context.Context) (string, error) {
	v.calls = append(v.calls, "current")
	return v.branch, nil
}

func (v *fakeVCS) CheckoutNewBranch(_ context.Context, name string) error {
	v.calls = append(v.calls, "checkout_new:"+name)
	v.local[name] = true
	v.branch = name
	return nil
}

func (v *fakeVCS) CheckoutExisting(_ context.Context, name string) error {
	v.calls = append(v.calls, "checkout:"+name)
	v.branch = name
	return nil
}

func (v *fakeVCS) CheckoutAndPullBase(_ context.Context, base string) error {
	v.calls = append(v.calls, "checkout_pull:"+base)
	v.branch = base
	return nil
}

func (v *fakeVCS) PushUpstream(_ context.Context, name string) error {
	v.calls = append(v.calls, "push:"+name)
	return v.pushErr
}

func (v *fakeVCS) LocalBranchExists(_ context.Context, name string) (bool, error) {
	v.calls = append(v.calls, "exists:"+name)
	return v.local[name], nil
}

func (v *fakeVCS) RemoteURL(context.Context) (string, error) {
	return v.remoteURL, nil
}

var _ branch.CurrentBrancher = (*fakeVCS)(nil)
