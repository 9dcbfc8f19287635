// pattern: Imperative Shell

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

const (
	titleTemplateFile = "pr_title.tmpl"
	bodyTemplateFile  = "pr_body.tmpl"
)

// DefaultTitleTemplate renders "[ANDA-1726] Login form".
const DefaultTitleTemplate = `[{{.CustomID}}] {{.Name}}`

// DefaultBodyTemplate links the task and, for private repositories only,
// copies the task description into the pull request.
const DefaultBodyTemplate = `ClickUp task: [{{.CustomID}} {{.Name}}]({{.URL}})
{{- if and .Private .Description}}

{{.Description}}
{{- end}}
`

// PRTemplates holds the text/template sources used to render pull requests.
type PRTemplates struct {
	Title string
	Body  string
}

// DefaultPRTemplates returns the built-in templates.
func DefaultPRTemplates() PRTemplates {
	return PRTemplates{Title: DefaultTitleTemplate, Body: DefaultBodyTemplate}
}

// LoadPRTemplates reads pr_title.tmpl and pr_body.tmpl from
// <configDir>/templates. Missing files keep the defaults. Templates are
// parsed once here so syntax errors surface before any sync step runs.
func LoadPRTemplates(configDir string) (PRTemplates, error) {
	tmpls := DefaultPRTemplates()
	dir := filepath.Join(configDir, "templates")

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{titleTemplateFile, &tmpls.Title},
		{bodyTemplateFile, &tmpls.Body},
	} {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return DefaultPRTemplates(), err
		}
		if _, err := template.New(f.name).Parse(string(data)); err != nil {
			return DefaultPRTemplates(), fmt.Errorf("parsing %s: %w", f.name, err)
		}
		*f.dst = string(data)
	}

	return tmpls, nil
}
