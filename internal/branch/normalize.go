// pattern: Functional Core

package branch

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}]+`)
	disallowedRe = regexp.MustCompile(`[^a-z0-9\-/]`)
	dashRunRe    = regexp.MustCompile(`-+`)
)

// Normalize turns free-form words into a branch slug.
// Output is either empty or matches
// ^[a-z0-9]+(-[a-z0-9]+)*(/[a-z0-9]+(-[a-z0-9]+)*)*$, and Normalize is
// idempotent on its own output.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = disallowedRe.ReplaceAllString(s, "")
	s = dashRunRe.ReplaceAllString(s, "-")

	// Dashes at a segment edge and empty segments ("a//b", "a/-b") are dropped.
	segments := strings.Split(s, "/")
	kept := segments[:0]
	for _, seg := range segments {
		seg = strings.Trim(seg, "-")
		if seg != "" {
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, "/")
}
