// pattern: Functional Core

package gitsync

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"gitclick/internal/clickup"
	"gitclick/internal/config"
)

// PullRequestData is the template context for pull request titles and bodies.
type PullRequestData struct {
	CustomID    string
	Name        string
	URL         string
	Description string
	Private     bool // task descriptions are only copied into private repositories
}

func newPullRequestData(task clickup.Task, private bool) PullRequestData {
	return PullRequestData{
		CustomID:    task.DisplayID(),
		Name:        task.Name,
		URL:         task.URL,
		Description: task.Body(),
		Private:     private,
	}
}

// RenderPullRequest renders the title and body for task. The title is
// collapsed onto one line.
func RenderPullRequest(tmpls config.PRTemplates, task clickup.Task, private bool) (title, body string, err error) {
	data := newPullRequestData(task, private)

	title, err = execute("pr_title", tmpls.Title, data)
	if err != nil {
		return "", "", err
	}
	body, err = execute("pr_body", tmpls.Body, data)
	if err != nil {
		return "", "", err
	}
	return strings.Join(strings.Fields(title), " "), body, nil
}

func execute(name, src string, data PullRequestData) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", name, err)
	}
	return buf.String(), nil
}
