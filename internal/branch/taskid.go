// pattern: Functional Core

package branch

import (
	"regexp"
	"strings"
)

// taskIDRe is anchored at the start only; anything after the number is ignored.
var taskIDRe = regexp.MustCompile(`^[A-Za-z]+-[0-9]+`)

// standaloneTaskIDRe is the shape of an extracted id.
var standaloneTaskIDRe = regexp.MustCompile(`^[A-Z]+-[0-9]+$`)

// ExtractTaskID pulls a PREFIX-number identifier from the start of a branch
// name. When the name contains "/", only the part after the first "/" is
// examined. The result is upper-cased.
//
//	ExtractTaskID("feature/anda-1726-login") // "ANDA-1726", true
//	ExtractTaskID("random-branch")           // "", false
func ExtractTaskID(name string) (string, bool) {
	if _, rest, ok := strings.Cut(name, "/"); ok {
		name = rest
	}
	m := taskIDRe.FindString(name)
	if m == "" {
		return "", false
	}
	return strings.ToUpper(m), true
}

// IsTaskID reports whether s is exactly one task id, e.g. "ANDA-1726".
func IsTaskID(s string) bool {
	return standaloneTaskIDRe.MatchString(s)
}
