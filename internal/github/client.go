// pattern: Imperative Shell

package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v66/github"

	"gitclick/internal/logging"
)

// PullRequest is the subset of a GitHub pull request gitclick consumes.
type PullRequest struct {
	Number  int
	HTMLURL string
	NodeID  string
	Title   string
	Draft   bool
	Private bool // head repository visibility
}

// NewPullRequest describes a pull request to open.
type NewPullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
	Draft bool
}

// PullRequestUpdate holds the fields rewritten on an existing pull request.
type PullRequestUpdate struct {
	Title string
	Body  string
}

// Config configures a Client.
type Config struct {
	Token   string
	BaseURL string // GitHub Enterprise root; empty means api.github.com
	Timeout time.Duration
}

// Client wraps the go-github REST client plus the one GraphQL mutation
// gitclick needs.
type Client struct {
	client *gh.Client
	logger *logging.ScopedLogger
}

// NewClient creates a token-authenticated client.
func NewClient(cfg Config, logger *logging.ScopedLogger) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NopLogger()
	}

	client := gh.NewClient(&http.Client{Timeout: cfg.Timeout}).WithAuthToken(cfg.Token)
	if cfg.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github url %q: %w", cfg.BaseURL, err)
		}
	}
	return &Client{client: client, logger: logger}, nil
}

// ListOpenPullRequests returns open pull requests from head into base.
func (c *Client) ListOpenPullRequests(ctx context.Context, owner, repo, base, head string) ([]PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State: "open",
		Head:  owner + ":" + head,
		Base:  base,
	}
	prs, _, err := c.client.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("listing pull requests for %s/%s: %w", owner, repo, err)
	}

	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, fromGitHub(pr))
	}
	c.logger.Debug("listed pull requests", "repo", owner+"/"+repo, "head", head, "base", base, "count", len(out))
	return out, nil
}

// CreatePullRequest opens a pull request. Failures caused by an empty diff
// or a bad base are reported as ErrNoCommits and ErrInvalidBase.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, spec NewPullRequest) (PullRequest, error) {
	pr, _, err := c.client.PullRequests.Create(ctx, owner, repo, &gh.NewPullRequest{
		Title: gh.String(spec.Title),
		Body:  gh.String(spec.Body),
		Head:  gh.String(spec.Head),
		Base:  gh.String(spec.Base),
		Draft: gh.Bool(spec.Draft),
	})
	if err != nil {
		return PullRequest{}, fmt.Errorf("creating pull request %s -> %s: %w", spec.Head, spec.Base, classify(err))
	}
	out := fromGitHub(pr)
	c.logger.Info("pull request created", "repo", owner+"/"+repo, "number", out.Number, "draft", out.Draft)
	return out, nil
}

// UpdatePullRequest rewrites the title and body of an existing pull request.
func (c *Client) UpdatePullRequest(ctx context.Context, owner, repo string, number int, update PullRequestUpdate) (PullRequest, error) {
	pr, _, err := c.client.PullRequests.Edit(ctx, owner, repo, number, &gh.PullRequest{
		Title: gh.String(update.Title),
		Body:  gh.String(update.Body),
	})
	if err != nil {
		return PullRequest{}, fmt.Errorf("updating pull request #%d: %w", number, classify(err))
	}
	c.logger.Info("pull request updated", "repo", owner+"/"+repo, "number", number)
	return fromGitHub(pr), nil
}

// GetRef reports whether ref (e.g. "heads/main") exists.
func (c *Client) GetRef(ctx context.Context, owner, repo, ref string) (bool, error) {
	_, _, err := c.client.Git.GetRef(ctx, owner, repo, ref)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("looking up ref %s: %w", ref, err)
}

func fromGitHub(pr *gh.PullRequest) PullRequest {
	return PullRequest{
		Number:  pr.GetNumber(),
		HTMLURL: pr.GetHTMLURL(),
		NodeID:  pr.GetNodeID(),
		Title:   pr.GetTitle(),
		Draft:   pr.GetDraft(),
		Private: pr.GetHead().GetRepo().GetPrivate(),
	}
}
