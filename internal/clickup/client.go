// pattern: Imperative Shell

package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitclick/internal/logging"
)

// DefaultBaseURL is the ClickUp REST v2 endpoint.
const DefaultBaseURL = "https://api.clickup.com/api/v2"

// taskNotFoundCode is the ClickUp error code for a missing or inaccessible task.
const taskNotFoundCode = "ITEM_013"

// ErrNoTeam is returned when the token has access to no workspace.
var ErrNoTeam = errors.New("clickup token has no accessible team")

// TeamIDMemo caches the team id across calls.
type TeamIDMemo interface {
	TeamID(ctx context.Context, load func(context.Context) (string, error)) (string, error)
}

// APIError is a non-2xx response from ClickUp.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("clickup returned status %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("clickup returned status %d: %s", e.Status, e.Message)
}

// Config configures a Client.
type Config struct {
	BaseURL string        // defaults to DefaultBaseURL
	Token   string        // personal API token
	Timeout time.Duration // per-request timeout, defaults to 30s
}

// Client is a thin ClickUp REST client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	teamIDs    TeamIDMemo
	logger     *logging.ScopedLogger
}

// NewClient creates a Client. memo may be nil, in which case every
// custom-id lookup fetches the team id again.
func NewClient(cfg Config, memo TeamIDMemo, logger *logging.ScopedLogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		teamIDs:    memo,
		logger:     logger,
	}
}

// GetTeamID returns the id of the first team (workspace) the token can see.
func (c *Client) GetTeamID(ctx context.Context) (string, error) {
	if c.teamIDs != nil {
		return c.teamIDs.TeamID(ctx, c.fetchTeamID)
	}
	return c.fetchTeamID(ctx)
}

func (c *Client) fetchTeamID(ctx context.Context) (string, error) {
	var resp struct {
		Teams []struct {
			ID json.Number `json:"id"`
		} `json:"teams"`
	}
	if err := c.do(ctx, http.MethodGet, "/team", nil, &resp); err != nil {
		return "", err
	}
	if len(resp.Teams) == 0 {
		return "", ErrNoTeam
	}
	return resp.Teams[0].ID.String(), nil
}

// GetTask looks a task up by its custom id (e.g. "ANDA-1726").
// A missing task is reported as NotFound, never as Failed.
func (c *Client) GetTask(ctx context.Context, customID string) LookupResult {
	teamID, err := c.GetTeamID(ctx)
	if err != nil {
		return failed(fmt.Errorf("resolving team: %w", err))
	}

	q := url.Values{}
	q.Set("custom_task_ids", "true")
	q.Set("team_id", teamID)
	q.Set("include_markdown_description", "true")
	path := "/task/" + url.PathEscape(customID) + "?" + q.Encode()

	var task Task
	err = c.do(ctx, http.MethodGet, path, nil, &task)
	var apiErr *APIError
	switch {
	case err == nil:
		c.logger.Debug("task found", "custom_id", customID, "task_id", task.ID)
		return found(task)
	case errors.As(err, &apiErr) && (apiErr.Status == http.StatusNotFound || apiErr.Code == taskNotFoundCode):
		c.logger.Info("task not found", "custom_id", customID)
		return notFound()
	default:
		c.logger.Warn("task lookup failed", "custom_id", customID, "error", err)
		return failed(err)
	}
}

// GetComments returns the comments of a task, addressed by internal id.
func (c *Client) GetComments(ctx context.Context, taskID string) ([]Comment, error) {
	var resp struct {
		Comments []Comment `json:"comments"`
	}
	if err := c.do(ctx, http.MethodGet, "/task/"+url.PathEscape(taskID)+"/comment", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// AddBookmarkComment adds a comment holding one bookmark block for link.
func (c *Client) AddBookmarkComment(ctx context.Context, taskID, link string) error {
	body := map[string]any{
		"comment": []Block{{
			Type:     "bookmark",
			Bookmark: &Bookmark{Service: "url", URL: link},
		}},
		"notify_all": false,
	}
	if err := c.do(ctx, http.MethodPost, "/task/"+url.PathEscape(taskID)+"/comment", body, nil); err != nil {
		return err
	}
	c.logger.Info("bookmark comment added", "task_id", taskID, "url", link)
	return nil
}

// do sends a request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to clickup: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode clickup response: %w", err)
	}
	return nil
}

// newAPIError extracts ClickUp's {"err": ..., "ECODE": ...} body when present.
func newAPIError(status int, body []byte) *APIError {
	var errResp struct {
		Err   string `json:"err"`
		ECode string `json:"ECODE"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && (errResp.Err != "" || errResp.ECode != "") {
		return &APIError{Status: status, Code: errResp.ECode, Message: errResp.Err}
	}
	return &APIError{Status: status, Message: strings.TrimSpace(string(body))}
}
