package vcs

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"
)

type call struct {
	dir  string
	args []string
}

// recorder returns canned output keyed by the joined git arguments.
type recorder struct {
	calls   []call
	outputs map[string]string
	errs    map[string]error
}

func (r *recorder) exec(_ context.Context, dir, name string, args ...string) (string, error) {
	if name != "git" {
		return "", errors.New("unexpected binary " + name)
	}
	r.calls = append(r.calls, call{dir: dir, args: args})
	key := strings.Join(args, " ")
	if err := r.errs[key]; err != nil {
		return "", err
	}
	return r.outputs[key], nil
}

func newRecorder() *recorder {
	return &recorder{outputs: map[string]string{}, errs: map[string]error{}}
}

func TestCurrentBranchName(t *testing.T) {
	rec := newRecorder()
	rec.outputs["rev-parse --abbrev-ref HEAD"] = "feature/ANDA-1-login\n"
	r := NewRunnerWithExecutor("/repo", "", rec.exec, nil)

	got, err := r.CurrentBranchName(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranchName failed: %v", err)
	}
	if got != "feature/ANDA-1-login" {
		t.Errorf("got %q, want feature/ANDA-1-login", got)
	}
	if rec.calls[0].dir != "/repo" {
		t.Errorf("dir: got %q, want /repo", rec.calls[0].dir)
	}
}

func TestCurrentBranchName_DetachedHead(t *testing.T) {
	rec := newRecorder()
	rec.outputs["rev-parse --abbrev-ref HEAD"] = "HEAD\n"
	r := NewRunnerWithExecutor("", "", rec.exec, nil)

	got, err := r.CurrentBranchName(context.Background())
	if err != nil || got != "" {
		t.Errorf("got (%q, %v), want empty name", got, err)
	}
}

func TestCurrentBranchName_Error(t *testing.T) {
	rec := newRecorder()
	rec.errs["rev-parse --abbrev-ref HEAD"] = errors.New("fatal: not a git repository")
	r := NewRunnerWithExecutor("", "", rec.exec, nil)

	_, err := r.CurrentBranchName(context.Background())
	if err == nil || !strings.Contains(err.Error(), "not a git repository") {
		t.Errorf("got %v, want wrapped git error", err)
	}
}

func TestCheckoutAndPushCommands(t *testing.T) {
	rec := newRecorder()
	r := NewRunnerWithExecutor("", "upstream", rec.exec, nil)
	ctx := context.Background()

	if err := r.CheckoutAndPullBase(ctx, "main"); err != nil {
		t.Fatal(err)
	}
	if err := r.CheckoutNewBranch(ctx, "feature/x"); err != nil {
		t.Fatal(err)
	}
	if err := r.CheckoutExisting(ctx, "feature/y"); err != nil {
		t.Fatal(err)
	}
	if err := r.PushUpstream(ctx, "feature/x"); err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"checkout", "main"},
		{"pull", "upstream", "main"},
		{"checkout", "-b", "feature/x"},
		{"checkout", "feature/y"},
		{"push", "--set-upstream", "upstream", "feature/x"},
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(rec.calls), len(want))
	}
	for i, w := range want {
		if !reflect.DeepEqual(rec.calls[i].args, w) {
			t.Errorf("call %d: got %v, want %v", i, rec.calls[i].args, w)
		}
	}
}

func TestCheckoutAndPullBase_StopsOnCheckoutError(t *testing.T) {
	rec := newRecorder()
	rec.errs["checkout main"] = errors.New("local changes would be overwritten")
	r := NewRunnerWithExecutor("", "", rec.exec, nil)

	if err := r.CheckoutAndPullBase(context.Background(), "main"); err == nil {
		t.Fatal("expected error")
	}
	if len(rec.calls) != 1 {
		t.Errorf("pull should not run after failed checkout, got %d calls", len(rec.calls))
	}
}

func TestLocalBranchExists(t *testing.T) {
	key := "for-each-ref --format=%(refname) refs/heads/feature/x refs/remotes/origin/feature/x"
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"local", "refs/heads/feature/x\n", true},
		{"remote tracking only", "refs/remotes/origin/feature/x\n", true},
		{"nested ref only", "refs/heads/feature/x/sub\n", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder()
			rec.outputs[key] = tt.output
			r := NewRunnerWithExecutor("", "", rec.exec, nil)

			got, err := r.LocalBranchExists(context.Background(), "feature/x")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoteURL(t *testing.T) {
	rec := newRecorder()
	rec.outputs["remote get-url origin"] = "git@github.com:acme/app.git\n"
	r := NewRunnerWithExecutor("", "", rec.exec, nil)

	got, err := r.RemoteURL(context.Background())
	if err != nil || got != "git@github.com:acme/app.git" {
		t.Errorf("got (%q, %v)", got, err)
	}
	if r.Remote() != "origin" {
		t.Errorf("Remote(): got %q, want origin", r.Remote())
	}
}

func TestRunner_RealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	ctx := context.Background()

	setup := [][]string{
		{"init", "-q", "-b", "main"},
		{"-c", "user.email=test@example.com", "-c", "user.name=test", "commit", "-q", "--allow-empty", "-m", "init"},
	}
	for _, args := range setup {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Skipf("git %v failed: %v: %s", args, err, out)
		}
	}

	r := NewRunner(dir, "origin", nil)

	name, err := r.CurrentBranchName(ctx)
	if err != nil || name != "main" {
		t.Fatalf("CurrentBranchName: got (%q, %v), want main", name, err)
	}

	exists, err := r.LocalBranchExists(ctx, "feature/ANDA-1")
	if err != nil || exists {
		t.Fatalf("LocalBranchExists before create: got (%v, %v)", exists, err)
	}

	if err := r.CheckoutNewBranch(ctx, "feature/ANDA-1"); err != nil {
		t.Fatalf("CheckoutNewBranch: %v", err)
	}
	exists, err = r.LocalBranchExists(ctx, "feature/ANDA-1")
	if err != nil || !exists {
		t.Fatalf("LocalBranchExists after create: got (%v, %v)", exists, err)
	}

	gitDir, err := r.GitDir(ctx)
	if err != nil || !strings.HasSuffix(gitDir, ".git") {
		t.Errorf("GitDir: got (%q, %v)", gitDir, err)
	}
}
