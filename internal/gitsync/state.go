// pattern: Functional Core

package gitsync

import "fmt"

// State is a step of the sync state machine.
type State int

const (
	Start State = iota
	Validating
	BaseBranchCheck
	BranchReady
	Pushed
	PRResolved
	Linked
	Done

	// Terminal states other than Done.
	AbortedNoTaskID
	AbortedTaskNotFound
	AbortedBadBase
	NoOpIdentical
	Provisioned
	Failed
)

var stateNames = map[State]string{
	Start:               "start",
	Validating:          "validating",
	BaseBranchCheck:     "base_branch_check",
	BranchReady:         "branch_ready",
	Pushed:              "pushed",
	PRResolved:          "pr_resolved",
	Linked:              "linked",
	Done:                "done",
	AbortedNoTaskID:     "aborted_no_task_id",
	AbortedTaskNotFound: "aborted_task_not_found",
	AbortedBadBase:      "aborted_bad_base",
	NoOpIdentical:       "noop_identical",
	Provisioned:         "provisioned",
	Failed:              "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether the machine stops in s.
func (s State) Terminal() bool {
	return s >= Done
}

// Succeeded reports whether s ends a run with a zero exit code.
func (s State) Succeeded() bool {
	return s == Done || s == Provisioned || s == NoOpIdentical
}

// Event is the outcome of one step.
type Event int

const (
	EventAssembled Event = iota
	EventNoTaskID
	EventTaskNotFound
	EventBaseFound
	EventBaseMissing
	EventBranchReady
	EventPushed
	EventProvisioned
	EventPRResolved
	EventNoCommits
	EventInvalidBase
	EventLinked
	EventFinished
	EventFailed
)

var eventNames = map[Event]string{
	EventAssembled:    "assembled",
	EventNoTaskID:     "no_task_id",
	EventTaskNotFound: "task_not_found",
	EventBaseFound:    "base_found",
	EventBaseMissing:  "base_missing",
	EventBranchReady:  "branch_ready",
	EventPushed:       "pushed",
	EventProvisioned:  "provisioned",
	EventPRResolved:   "pr_resolved",
	EventNoCommits:    "no_commits",
	EventInvalidBase:  "invalid_base",
	EventLinked:       "linked",
	EventFinished:     "finished",
	EventFailed:       "failed",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

type edge struct {
	from State
	ev   Event
}

var transitions = map[edge]State{
	{Start, EventAssembled}:    Validating,
	{Start, EventNoTaskID}:     AbortedNoTaskID,
	{Start, EventTaskNotFound}: AbortedTaskNotFound,

	{Validating, EventBaseFound}:   BaseBranchCheck,
	{Validating, EventBaseMissing}: AbortedBadBase,

	{BaseBranchCheck, EventBranchReady}: BranchReady,

	{BranchReady, EventPushed}:      Pushed,
	{BranchReady, EventProvisioned}: Provisioned,

	{Pushed, EventPRResolved}:  PRResolved,
	{Pushed, EventNoCommits}:   NoOpIdentical,
	{Pushed, EventInvalidBase}: AbortedBadBase,

	{PRResolved, EventLinked}: Linked,

	{Linked, EventFinished}: Done,
}

// Transition returns the state reached from s on ev. EventFailed leads to
// Failed from any non-terminal state. ok is false for a pair the machine
// does not define, including anything out of a terminal state.
func Transition(s State, ev Event) (next State, ok bool) {
	if s.Terminal() {
		return s, false
	}
	if ev == EventFailed {
		return Failed, true
	}
	next, ok = transitions[edge{s, ev}]
	return next, ok
}
