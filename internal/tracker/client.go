// Package tracker provides the HTTP client for the work-item tracker's
// REST API.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sujal-debug/Policy-IQ/internal/claims/ports"
	"github.com/sujal-debug/Policy-IQ/platform/apperr"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
)

const issueTypeName = "Task"

// Client is the HTTP client for the tracker REST API. Transport errors
// and server-side failures surface as transient; payload rejections as
// structural. The lifecycle controller decides what to retry based on
// those kinds.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	token      string
	projectKey string
	log        *logger.Logger
}

// New creates a tracker client. baseURL is the tracker root, for example
// https://example.atlassian.net.
func New(baseURL, username, token, projectKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		token:      token,
		projectKey: projectKey,
		log:        log,
	}
}

var _ ports.Tracker = (*Client)(nil)

type projectRef struct {
	Key string `json:"key"`
}

type issueTypeRef struct {
	Name string `json:"name"`
}

type issueFields struct {
	Project     projectRef   `json:"project"`
	Summary     string       `json:"summary"`
	Description string       `json:"description"`
	IssueType   issueTypeRef `json:"issuetype"`
}

type createIssueRequest struct {
	Fields issueFields `json:"fields"`
}

type createIssueResponse struct {
	Key string `json:"key"`
}

type getIssueResponse struct {
	Fields struct {
		Status struct {
			Name string `json:"name"`
		} `json:"status"`
	} `json:"fields"`
}

// CreateIssue files a new work item and returns its key.
func (c *Client) CreateIssue(ctx context.Context, req ports.IssueRequest) (string, error) {
	payload := createIssueRequest{}
	payload.Fields.Project.Key = c.projectKey
	payload.Fields.Summary = req.Summary
	payload.Fields.Description = req.Description
	payload.Fields.IssueType.Name = issueTypeName

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal issue payload: %w", err)
	}

	reqURL := c.baseURL + "/rest/api/2/issue"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.username, c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("tracker create request failed", "error", err)
		return "", apperr.Transient("tracker unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// Success - continue to decode
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		detail := readErrorBody(resp.Body)
		c.log.Error("tracker rejected issue payload", "status", resp.StatusCode, "detail", detail)
		return "", apperr.Structural("tracker rejected issue payload", fmt.Errorf("status %d: %s", resp.StatusCode, detail))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", apperr.Structural("tracker credentials rejected", fmt.Errorf("status %d", resp.StatusCode))
	default:
		c.log.Error("tracker upstream error", "status", resp.StatusCode)
		return "", apperr.Transient("tracker upstream error", fmt.Errorf("status %d", resp.StatusCode))
	}

	var created createIssueResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", apperr.Transient("decode tracker response", err)
	}
	if created.Key == "" {
		return "", apperr.Transient("tracker response without issue key", nil)
	}
	return created.Key, nil
}

// GetIssue returns the tracker-native status name for the issue.
func (c *Client) GetIssue(ctx context.Context, reference string) (string, error) {
	reqURL := fmt.Sprintf("%s/rest/api/2/issue/%s?fields=status", c.baseURL, url.PathEscape(reference))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.username, c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("tracker get request failed", "error", err, "issue", reference)
		return "", apperr.Transient("tracker unreachable", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Success - continue to decode
	case http.StatusNotFound:
		return "", apperr.NotFound(fmt.Sprintf("issue %s not found", reference))
	default:
		c.log.Error("tracker upstream error", "status", resp.StatusCode, "issue", reference)
		return "", apperr.Transient("tracker upstream error", fmt.Errorf("status %d", resp.StatusCode))
	}

	var issue getIssueResponse
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return "", apperr.Transient("decode tracker response", err)
	}
	return issue.Fields.Status.Name, nil
}

func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 2048))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
