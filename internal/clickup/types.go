// pattern: Functional Core

package clickup

import "fmt"

// Task is the subset of a ClickUp task that gitclick consumes.
type Task struct {
	ID                  string `json:"id"`
	CustomID            string `json:"custom_id"`
	Name                string `json:"name"`
	URL                 string `json:"url"`
	Description         string `json:"description"`
	MarkdownDescription string `json:"markdown_description"`
	Tags                []Tag  `json:"tags"`
}

// Tag is a task tag.
type Tag struct {
	Name string `json:"name"`
}

// TagNames returns the tag names in order.
func (t Task) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// DisplayID returns the custom id when set, else the internal id.
func (t Task) DisplayID() string {
	if t.CustomID != "" {
		return t.CustomID
	}
	return t.ID
}

// Body returns the markdown description, falling back to the plain one.
func (t Task) Body() string {
	if t.MarkdownDescription != "" {
		return t.MarkdownDescription
	}
	return t.Description
}

// Comment is one task comment: a list of rich content blocks.
type Comment struct {
	ID     string  `json:"id"`
	Blocks []Block `json:"comment"`
}

// Block is one rich content block of a comment.
type Block struct {
	Type     string    `json:"type,omitempty"`
	Text     string    `json:"text,omitempty"`
	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// Bookmark is the payload of a "bookmark" block.
type Bookmark struct {
	Service string `json:"service,omitempty"`
	URL     string `json:"url"`
}

// HasBookmark reports whether any comment carries a bookmark block whose
// URL is exactly url.
func HasBookmark(comments []Comment, url string) bool {
	for _, c := range comments {
		for _, b := range c.Blocks {
			if b.Bookmark != nil && b.Bookmark.URL == url {
				return true
			}
		}
	}
	return false
}

// LookupStatus tells a missing task apart from a failed lookup.
type LookupStatus int

const (
	Found LookupStatus = iota + 1
	NotFound
	Failed
)

func (s LookupStatus) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("LookupStatus(%d)", int(s))
	}
}

// LookupResult is the outcome of GetTask. Task is set only when Status is
// Found; Err only when Status is Failed.
type LookupResult struct {
	Status LookupStatus
	Task   Task
	Err    error
}

func found(t Task) LookupResult {
	return LookupResult{Status: Found, Task: t}
}

func notFound() LookupResult {
	return LookupResult{Status: NotFound}
}

func failed(err error) LookupResult {
	return LookupResult{Status: Failed, Err: err}
}
