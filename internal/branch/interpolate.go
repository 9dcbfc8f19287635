// pattern: Functional Core

package branch

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRepositoryUnavailable is returned when no branch name can be derived,
// either because no words were given and HEAD could not be read, or because
// the words normalize to nothing.
var ErrRepositoryUnavailable = errors.New("no branch name could be determined; run inside a git repository or pass branch words")

// CurrentBrancher reports the checked-out branch. An empty name means HEAD
// is detached or unreadable.
type CurrentBrancher interface {
	CurrentBranchName(ctx context.Context) (string, error)
}

// Spec describes the branch a sync invocation works on. It is built once by
// Interpolate and treated as a value afterwards.
type Spec struct {
	RawArgs               []string
	IsNewBranch           bool
	BranchName            string
	BranchNameWithoutType string
	BranchType            Type   // empty when no type prefix was detected
	Separator             string // only meaningful when BranchType is set; may be empty
	TaskID                string // empty when the name carries no id
}

// HasType reports whether a type prefix was detected.
func (s Spec) HasType() bool {
	return s.BranchType != ""
}

// HasTaskID reports whether a task id was extracted.
func (s Spec) HasTaskID() bool {
	return s.TaskID != ""
}

// Interpolator turns CLI words into a Spec.
type Interpolator struct {
	Branches CurrentBrancher
}

// Interpolate decides whether args describe a new branch or the current one
// and derives its canonical name, type and task id.
func (i Interpolator) Interpolate(ctx context.Context, args []string) (Spec, error) {
	spec := Spec{
		RawArgs:     append([]string(nil), args...),
		IsNewBranch: len(args) > 0,
	}

	if spec.IsNewBranch {
		spec.BranchName = Normalize(strings.Join(args, "-"))
	} else {
		if i.Branches == nil {
			return Spec{}, ErrRepositoryUnavailable
		}
		name, err := i.Branches.CurrentBranchName(ctx)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
		}
		spec.BranchName = name
	}

	if spec.BranchName == "" {
		return Spec{}, ErrRepositoryUnavailable
	}

	spec.BranchNameWithoutType = spec.BranchName
	if c := Classify(spec.BranchName); c.Found {
		spec.BranchType = c.Type
		spec.Separator = c.Separator
		spec.BranchNameWithoutType = StripTypePrefix(spec.BranchName, c.Type, c.Separator)
	}

	source := spec.BranchName
	if spec.HasType() {
		source = spec.BranchNameWithoutType
	}
	if id, ok := ExtractTaskID(source); ok {
		spec.TaskID = id
	}

	return spec, nil
}

// StripTypePrefix removes the first occurrence of t+sep from name. The
// removal is a literal, unanchored replace of one occurrence; callers only
// pass a prefix that Classify found at the start of name.
func StripTypePrefix(name string, t Type, sep string) string {
	return strings.Replace(name, string(t)+sep, "", 1)
}
