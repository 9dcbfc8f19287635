// pattern: Imperative Shell

// Package render prints sync outcomes for humans. Nothing in here decides
// what happens next; it only describes a finished gitsync.Status.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitclick/internal/clickup"
	"gitclick/internal/github"
	"gitclick/internal/gitsync"
)

// MaxTitleWidth is the number of terminal cells a title may take in the summary.
const MaxTitleWidth = 72

// Printer writes styled lines to a terminal.
type Printer struct {
	out    io.Writer
	styles *Styles
}

// NewPrinter creates a Printer writing to out with the given catppuccin theme.
func NewPrinter(out io.Writer, theme string) *Printer {
	return &Printer{out: out, styles: NewStyles(out, theme)}
}

// Error prints a highlighted error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.out, p.styles.ErrorStyle().Render("✗ "+msg))
}

// Info prints a plain status line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.out, p.styles.InfoStyle().Render(msg))
}

// Success prints a status line marking a completed action.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.styles.SuccessStyle().Render("✓ "+msg))
}

// Guidance prints a dimmed hint telling the user what to do next.
func (p *Printer) Guidance(msg string) {
	fmt.Fprintln(p.out, p.styles.HelpStyle().Render("→ "+msg))
}

// Summary prints the pull request block followed by the task block.
func (p *Printer) Summary(pr github.PullRequest, task clickup.Task) {
	prLines := []string{
		p.styles.TitleStyle().Render(fmt.Sprintf("Pull request #%d", pr.Number)) + p.draftBadge(pr),
		Truncate(pr.Title),
		p.styles.AccentStyle().Render(pr.HTMLURL),
	}
	taskLines := []string{
		p.styles.TitleStyle().Render("Task " + task.DisplayID()),
		Truncate(task.Name),
		p.styles.AccentStyle().Render(task.URL),
	}

	box := p.styles.BoxStyle()
	fmt.Fprintln(p.out, lipgloss.JoinVertical(lipgloss.Left,
		box.Render(strings.Join(prLines, "\n")),
		box.Render(strings.Join(taskLines, "\n")),
	))
}

func (p *Printer) draftBadge(pr github.PullRequest) string {
	if !pr.Draft {
		return ""
	}
	return " " + p.styles.DraftStyle().Render("(draft)")
}

// Plan prints what a sync would act on, without doing anything.
func (p *Printer) Plan(res gitsync.Result, base string) {
	kind := "existing"
	if res.IsNewBranch {
		kind = "new"
	}
	typ := string(res.BranchType)
	if typ == "" {
		typ = "none"
	}

	lines := []string{
		p.styles.TitleStyle().Render("Branch") + " " + res.BranchName + " " + p.styles.DraftStyle().Render("("+kind+")"),
		"type: " + typ,
		"base: " + base,
	}
	if res.Err == nil {
		lines = append(lines,
			p.styles.TitleStyle().Render("Task")+" "+res.Task.DisplayID(),
			Truncate(res.Task.Name),
			p.styles.AccentStyle().Render(res.Task.URL),
		)
	}
	fmt.Fprintln(p.out, p.styles.BoxStyle().Render(strings.Join(lines, "\n")))
}

// Status describes a finished sync.
func (p *Printer) Status(st gitsync.Status) {
	switch st.State {
	case gitsync.Done:
		verb := "Updated"
		if st.Created {
			verb = "Opened"
		}
		p.Success(fmt.Sprintf("%s pull request #%d", verb, st.PullRequest.Number))
		if st.Linked {
			p.Success("Linked pull request on task " + st.Result.Task.DisplayID())
		}
		p.Summary(st.PullRequest, st.Result.Task)

	case gitsync.Provisioned:
		p.Success(fmt.Sprintf("Branch %s is ready and pushed to the remote", st.Result.BranchName))
		p.Guidance("Commit your work and run gitclick sync again to open the pull request.")

	case gitsync.NoOpIdentical:
		p.Info(fmt.Sprintf("No commits between %s and %s, nothing to open yet.", st.Base, st.Result.BranchName))
		p.Guidance("Commit your work and run gitclick sync again.")

	case gitsync.AbortedNoTaskID:
		p.Error(fmt.Sprintf("No task id found in branch name %q", st.Result.BranchName))
		p.Guidance("Name the branch like feature/ABC-123-description, or pass the task id as the first word.")

	case gitsync.AbortedTaskNotFound:
		p.Error(fmt.Sprintf("Task %s was not found in ClickUp", st.Result.TaskID))
		p.Guidance("Check the task id and that your ClickUp token can see the task.")

	case gitsync.AbortedBadBase:
		p.Error(fmt.Sprintf("Base branch %q does not exist on %s", st.Base, st.Repo))
		p.Guidance("Pass --base, or set GITCLICK_BASE_BRANCH or base_branch in the config file.")

	default:
		p.Failure(st.Err)
	}
}

// Failure prints an error that ended a run, with a hint for the known causes.
func (p *Printer) Failure(err error) {
	if err == nil {
		err = errors.New("sync failed")
	}
	p.Error(err.Error())
	switch {
	case errors.Is(err, gitsync.ErrRepositoryUnavailable):
		p.Guidance("Run inside a git repository with a branch checked out, or pass branch words.")
	case errors.Is(err, gitsync.ErrTransientAPI):
		p.Guidance("Nothing was rolled back; fix the problem and run the same command again.")
	}
}

// Truncate shortens s to MaxTitleWidth cells, ending with an ellipsis.
func Truncate(s string) string {
	return ansi.Truncate(s, MaxTitleWidth, "…")
}
