// pattern: Functional Core

package branch

import (
	"strings"
	"unicode/utf8"
)

// Type is a semantic branch category such as "feature" or "bugfix".
// Types parsed from an explicit "type/" prefix are kept verbatim, so a Type
// is not guaranteed to be part of Vocabulary.
type Type string

const (
	Feature     Type = "feature"
	Bugfix      Type = "bugfix"
	Hotfix      Type = "hotfix"
	Release     Type = "release"
	Docs        Type = "docs"
	Refactor    Type = "refactor"
	Chore       Type = "chore"
	Build       Type = "build"
	CI          Type = "ci"
	Performance Type = "performance"
	Style       Type = "style"
	Naming      Type = "naming"
	Test        Type = "test"
	Temporary   Type = "temporary"
)

// Vocabulary lists the recognized branch types. Order is significant:
// prefix detection and tag matching both take the first match.
var Vocabulary = []Type{
	Feature, Bugfix, Hotfix, Release, Docs, Refactor, Chore,
	Build, CI, Performance, Style, Naming, Test, Temporary,
}

type alias struct {
	short     string
	canonical Type
}

// aliases is checked in order with substring containment.
var aliases = []alias{
	{"bug", Bugfix},
	{"fix", Bugfix},
	{"feat", Feature},
	{"perf", Performance},
	{"temp", Temporary},
}

// Known reports whether t is part of Vocabulary.
func (t Type) Known() bool {
	for _, v := range Vocabulary {
		if v == t {
			return true
		}
	}
	return false
}

// Classification is the result of Classify.
type Classification struct {
	Type      Type
	Separator string
	Found     bool
}

// Classify detects the branch type prefix of name.
//
// A name containing "/" is split at the first "/" and the head is trusted as
// the type even when it is not in Vocabulary. Otherwise the first Vocabulary
// entry that name starts with wins, and the separator is whatever single
// character follows it. There is no word-boundary check, so "choreupdate"
// classifies as chore with separator "u".
func Classify(name string) Classification {
	if head, _, ok := strings.Cut(name, "/"); ok {
		if head == "" {
			return Classification{}
		}
		return Classification{Type: Type(head), Separator: "/", Found: true}
	}

	for _, t := range Vocabulary {
		if !strings.HasPrefix(name, string(t)) {
			continue
		}
		rest := name[len(t):]
		sep := ""
		if rest != "" {
			_, size := utf8.DecodeRuneInString(rest)
			sep = rest[:size]
		}
		return Classification{Type: t, Separator: sep, Found: true}
	}

	return Classification{}
}

// OverrideAlias maps short forms to their canonical type using substring
// containment, first alias wins. Inputs containing no alias pass through.
// Note that containment is literal: "hotfix" contains "fix" and becomes bugfix.
func OverrideAlias(t Type) Type {
	if t == "" {
		return t
	}
	for _, a := range aliases {
		if strings.Contains(string(t), a.short) {
			return a.canonical
		}
	}
	return t
}

// FromTags infers a branch type from task tag names. For each Vocabulary
// entry in order, a tag matches when either string contains the other
// (case-insensitive). Empty tags never match.
func FromTags(tags []string) (Type, bool) {
	lowered := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			lowered = append(lowered, tag)
		}
	}

	for _, t := range Vocabulary {
		for _, tag := range lowered {
			if strings.Contains(tag, string(t)) || strings.Contains(string(t), tag) {
				return t, true
			}
		}
	}
	return "", false
}
