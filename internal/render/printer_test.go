package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"gitclick/internal/clickup"
	"gitclick/internal/github"
	"gitclick/internal/gitsync"
	"gitclick/internal/vcs"
)

func newTestPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewPrinter(&buf, "mocha"), &buf
}

var (
	testPR = github.PullRequest{
		Number:  7,
		HTMLURL: "https://github.com/acme/app/pull/7",
		Title:   "[ANDA-1] Login form",
		Draft:   true,
	}
	testTask = clickup.Task{
		ID:       "86abc",
		CustomID: "ANDA-1",
		Name:     "Login form",
		URL:      "https://app.clickup.com/t/86abc",
	}
)

func TestSummary_PullRequestThenTask(t *testing.T) {
	p, buf := newTestPrinter()
	p.Summary(testPR, testTask)

	out := ansi.Strip(buf.String())
	for _, want := range []string{"Pull request #7", "(draft)", testPR.HTMLURL, "Task ANDA-1", testTask.URL} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Pull request #7") > strings.Index(out, "Task ANDA-1") {
		t.Error("pull request block should come before the task block")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 100)
	got := Truncate(long)
	if w := ansi.StringWidth(got); w != MaxTitleWidth {
		t.Errorf("width: got %d, want %d", w, MaxTitleWidth)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("got %q, want ellipsis", got)
	}
	if Truncate("short") != "short" {
		t.Error("short titles must pass through")
	}
}

func TestStatus_Messages(t *testing.T) {
	tests := []struct {
		name string
		st   gitsync.Status
		want []string
	}{
		{
			name: "done created",
			st: gitsync.Status{State: gitsync.Done, Created: true, Linked: true, PullRequest: testPR,
				Result: gitsync.Result{Task: testTask}},
			want: []string{"Opened pull request #7", "Linked pull request on task ANDA-1", "Task ANDA-1"},
		},
		{
			name: "done updated",
			st:   gitsync.Status{State: gitsync.Done, PullRequest: testPR, Result: gitsync.Result{Task: testTask}},
			want: []string{"Updated pull request #7"},
		},
		{
			name: "provisioned",
			st:   gitsync.Status{State: gitsync.Provisioned, Result: gitsync.Result{BranchName: "bugfix/anda-1-x"}},
			want: []string{"bugfix/anda-1-x", "run gitclick sync again"},
		},
		{
			name: "noop",
			st:   gitsync.Status{State: gitsync.NoOpIdentical, Base: "main", Result: gitsync.Result{BranchName: "b"}},
			want: []string{"No commits between main and b"},
		},
		{
			name: "no task id",
			st:   gitsync.Status{State: gitsync.AbortedNoTaskID, Result: gitsync.Result{BranchName: "random"}},
			want: []string{"✗", `"random"`},
		},
		{
			name: "task not found",
			st:   gitsync.Status{State: gitsync.AbortedTaskNotFound, Result: gitsync.Result{TaskID: "ANDA-9"}},
			want: []string{"ANDA-9 was not found"},
		},
		{
			name: "bad base",
			st:   gitsync.Status{State: gitsync.AbortedBadBase, Base: "develop", Repo: vcs.Repository{Owner: "acme", Name: "app"}},
			want: []string{`"develop" does not exist on acme/app`, "--base"},
		},
		{
			name: "transient failure",
			st:   gitsync.Status{State: gitsync.Failed, Err: fmt.Errorf("%w: boom", gitsync.ErrTransientAPI)},
			want: []string{"boom", "run the same command again"},
		},
		{
			name: "no repository",
			st:   gitsync.Status{State: gitsync.Failed, Err: gitsync.ErrRepositoryUnavailable},
			want: []string{"Run inside a git repository"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newTestPrinter()
			p.Status(tt.st)
			out := ansi.Strip(buf.String())
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestFailure_NilError(t *testing.T) {
	p, buf := newTestPrinter()
	p.Failure(nil)
	if !strings.Contains(buf.String(), "sync failed") {
		t.Errorf("got %q", buf.String())
	}
}

func TestPlan(t *testing.T) {
	p, buf := newTestPrinter()
	p.Plan(gitsync.Result{BranchName: "bugfix/anda-1-x", BranchType: "bugfix", IsNewBranch: true, Task: testTask}, "main")

	out := ansi.Strip(buf.String())
	for _, want := range []string{"bugfix/anda-1-x", "(new)", "type: bugfix", "base: main", "Task ANDA-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("plan missing %q:\n%s", want, out)
		}
	}
}

func TestPlan_WithoutTask(t *testing.T) {
	p, buf := newTestPrinter()
	p.Plan(gitsync.Result{BranchName: "random", Err: errors.New("x")}, "main")

	out := ansi.Strip(buf.String())
	if strings.Contains(out, "Task") {
		t.Errorf("plan without a task should not print a task line:\n%s", out)
	}
	if !strings.Contains(out, "type: none") {
		t.Errorf("missing type line:\n%s", out)
	}
}

func TestFlavorFromName(t *testing.T) {
	for _, name := range []string{"latte", "frappe", "macchiato", "mocha", "unknown"} {
		if flavorFromName(name) == nil {
			t.Errorf("flavorFromName(%q) returned nil", name)
		}
	}
}
