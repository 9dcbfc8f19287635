// pattern: Functional Core

package vcs

import (
	"fmt"
	"net/url"
	"strings"
)

// Repository identifies a hosted repository.
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRemote extracts owner and repository name from a git remote URL.
// Supported forms:
//
//	git@github.com:owner/repo.git
//	ssh://git@github.com/owner/repo.git
//	https://github.com/owner/repo(.git)
func ParseRemote(remote string) (Repository, error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return Repository{}, fmt.Errorf("empty remote URL")
	}

	var path string
	if strings.Contains(remote, "://") {
		u, err := url.Parse(remote)
		if err != nil {
			return Repository{}, fmt.Errorf("invalid remote URL %q: %w", remote, err)
		}
		path = u.Path
	} else {
		// scp-like syntax: [user@]host:path
		_, after, ok := strings.Cut(remote, ":")
		if !ok {
			return Repository{}, fmt.Errorf("unrecognized remote URL %q", remote)
		}
		path = after
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return Repository{}, fmt.Errorf("remote URL %q has no owner/repo path", remote)
	}

	return Repository{Owner: parts[len(parts)-2], Name: parts[len(parts)-1]}, nil
}
