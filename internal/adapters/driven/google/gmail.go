package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dealdesk-labs/dealdesk-core/internal/core/ports/driven"
)

// Ensure GmailClient implements the interface.
var _ driven.GmailClient = (*GmailClient)(nil)

// GmailClient is a read-only wrapper over the Gmail REST API. It never
// fetches or parses message bodies.
type GmailClient struct {
	httpClient *http.Client

	// baseURL is overridable for tests.
	baseURL string
}

// NewGmailClient creates a new Gmail API client.
func NewGmailClient() *GmailClient {
	return &GmailClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://gmail.googleapis.com/gmail/v1",
	}
}

// ListLabels lists all labels in the mailbox.
func (c *GmailClient) ListLabels(ctx context.Context, accessToken string) ([]driven.GmailLabel, error) {
	var resp struct {
		Labels []driven.GmailLabel `json:"labels"`
	}
	if err := c.get(ctx, accessToken, "/users/me/labels", &resp); err != nil {
		return nil, err
	}
	return resp.Labels, nil
}

// ListThreads lists thread summaries carrying the given label.
func (c *GmailClient) ListThreads(ctx context.Context, accessToken, labelID string, maxResults int) ([]driven.GmailThread, error) {
	params := url.Values{
		"maxResults": {strconv.Itoa(maxResults)},
	}
	if labelID != "" {
		params.Set("labelIds", labelID)
	}

	var resp struct {
		Threads []driven.GmailThread `json:"threads"`
	}
	if err := c.get(ctx, accessToken, "/users/me/threads?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Threads, nil
}

func (c *GmailClient) get(ctx context.Context, accessToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gmail api: status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
