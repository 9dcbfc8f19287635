// pattern: Imperative Shell

package gitsync

import (
	"context"
	"fmt"

	"gitclick/internal/branch"
	"gitclick/internal/clickup"
)

// TaskFetcher looks a task up by custom id.
type TaskFetcher interface {
	GetTask(ctx context.Context, customID string) clickup.LookupResult
}

// Result is everything a sync needs to know about the branch and its task.
//
// Err is set, and the other task fields are not, when the run must stop
// before any side effect: ErrTaskIDNotFound or ErrTaskNotFound.
type Result struct {
	Spec        branch.Spec
	BranchName  string
	BranchType  branch.Type
	Task        clickup.Task
	TaskID      string
	IsNewBranch bool
	Err         error
}

// Assembler combines interpolation with the task lookup.
type Assembler struct {
	Interpolator branch.Interpolator
	Tasks        TaskFetcher
}

// Assemble interpolates args and fetches the matching task. A branch with
// no task id returns before any network call.
func (a Assembler) Assemble(ctx context.Context, args []string) (Result, error) {
	spec, err := a.Interpolator.Interpolate(ctx, args)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Spec:        spec,
		BranchName:  spec.BranchName,
		BranchType:  spec.BranchType,
		IsNewBranch: spec.IsNewBranch,
	}
	if !spec.HasTaskID() {
		res.Err = ErrTaskIDNotFound
		return res, nil
	}
	res.TaskID = spec.TaskID

	lookup := a.Tasks.GetTask(ctx, spec.TaskID)
	switch lookup.Status {
	case clickup.Found:
	case clickup.NotFound:
		res.Err = ErrTaskNotFound
		return res, nil
	default:
		return Result{}, fmt.Errorf("%w: fetching task %s: %w", ErrTransientAPI, spec.TaskID, lookup.Err)
	}

	res.Task = lookup.Task
	res.BranchName, res.BranchType = ResolveBranch(spec, lookup.Task.TagNames())
	return res, nil
}

// ResolveBranch picks the final branch type and name. An explicit type from
// the branch words wins over one inferred from tags; either way aliases are
// folded onto the vocabulary. A new branch whose type was inferred gets a
// "type/" prefix; every other name is kept as it is.
func ResolveBranch(spec branch.Spec, tags []string) (string, branch.Type) {
	explicit := spec.HasType()
	t := spec.BranchType
	if !explicit {
		t, _ = branch.FromTags(tags)
	}
	t = branch.OverrideAlias(t)

	name := spec.BranchName
	if spec.IsNewBranch && !explicit && t != "" {
		name = string(t) + "/" + spec.BranchNameWithoutType
	}
	return name, t
}
