// pattern: Imperative Shell

package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const markReadyMutation = `mutation($id: ID!) {
  markPullRequestReadyForReview(input: {pullRequestId: $id}) {
    pullRequest { isDraft }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// MarkReadyForReview takes a draft pull request out of draft state.
// The REST API cannot do this, so the mutation goes through GraphQL using
// the same authenticated transport.
func (c *Client) MarkReadyForReview(ctx context.Context, nodeID string) error {
	req, err := c.client.NewRequest(http.MethodPost, c.graphQLPath(), graphQLRequest{
		Query:     markReadyMutation,
		Variables: map[string]any{"id": nodeID},
	})
	if err != nil {
		return fmt.Errorf("building graphql request: %w", err)
	}

	var resp struct {
		Errors []graphQLError `json:"errors"`
	}
	if _, err := c.client.Do(ctx, req, &resp); err != nil {
		return fmt.Errorf("marking pull request ready: %w", err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("marking pull request ready: %s", strings.Join(msgs, "; "))
	}

	c.logger.Info("pull request marked ready for review", "node_id", nodeID)
	return nil
}

// graphQLPath resolves the endpoint relative to the REST base URL.
// Enterprise serves REST under /api/v3/ and GraphQL under /api/graphql.
func (c *Client) graphQLPath() string {
	if strings.HasSuffix(c.client.BaseURL.Path, "/api/v3/") {
		return "../graphql"
	}
	return "graphql"
}
