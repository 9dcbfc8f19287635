// pattern: Functional Core

package github

import (
	"errors"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v66/github"
)

var (
	// ErrNoCommits means head and base point at the same history, so there
	// is nothing for a pull request to show.
	ErrNoCommits = errors.New("no commits between head and base")

	// ErrInvalidBase means the requested base ref is not valid on the remote.
	ErrInvalidBase = errors.New("base branch is invalid on the remote")
)

// classify maps a go-github error onto the sentinels above. Errors that
// match neither are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var errResp *gh.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return err
	}
	if errResp.Response.StatusCode != http.StatusUnprocessableEntity {
		return err
	}

	if strings.Contains(errResp.Message, "No commits between") {
		return errors.Join(ErrNoCommits, err)
	}
	for _, e := range errResp.Errors {
		if strings.Contains(e.Message, "No commits between") {
			return errors.Join(ErrNoCommits, err)
		}
		if e.Field == "base" && e.Code == "invalid" {
			return errors.Join(ErrInvalidBase, err)
		}
	}
	return err
}

func isNotFound(err error) bool {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == http.StatusNotFound
	}
	return false
}
