// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultStoryPointsField is used when no custom field id is configured.
const DefaultStoryPointsField = "story_points"

var ErrNotConfigured = errors.New("jira is not configured")

// Config holds Jira Cloud credentials.
type Config struct {
	BaseURL           string  `yaml:"base_url"`
	Email             string  `yaml:"email"`
	APIToken          string  `yaml:"api_token"`
	StoryPointsField  string  `yaml:"story_points_field"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// APIError is a non-2xx answer from Jira.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Issue is the subset of a Jira issue the server reads.
type Issue struct {
	Key         string
	Summary     string
	StoryPoints *float64
}

// Client talks to the Jira Cloud REST API v3.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a client. A nil httpClient gets a 10 second timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.StoryPointsField == "" {
		cfg.StoryPointsField = DefaultStoryPointsField
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// IsConfigured reports whether base url, email and token are all set.
func (c *Client) IsConfigured() bool {
	return c.cfg.BaseURL != "" && c.cfg.Email != "" && c.cfg.APIToken != ""
}

// ResolveIssueKey extracts the issue key from a ticket url.
func (c *Client) ResolveIssueKey(ticketURL string) (string, bool) {
	return ExtractIssueKey(ticketURL)
}

// ApplyEstimate writes points into the story points field of the issue.
func (c *Client) ApplyEstimate(ctx context.Context, issueKey string, points float64) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"fields": map[string]any{c.cfg.StoryPointsField: points},
	})
	if err != nil {
		return fmt.Errorf("encode estimate: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, c.issueURL(issueKey, nil), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("jira estimate applied", "issue_key", issueKey, "points", points)
		return nil
	}
	return readAPIError(resp)
}

// GetIssue fetches the summary and current story points of an issue.
func (c *Client) GetIssue(ctx context.Context, issueKey string) (Issue, error) {
	if !c.IsConfigured() {
		return Issue{}, ErrNotConfigured
	}

	query := url.Values{"fields": {"summary," + c.cfg.StoryPointsField}}
	resp, err := c.do(ctx, http.MethodGet, c.issueURL(issueKey, query), nil)
	if err != nil {
		return Issue{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Issue{}, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("Jira API %d", resp.StatusCode)}
	}

	var payload struct {
		Key    string                     `json:"key"`
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Issue{}, fmt.Errorf("decode issue: %w", err)
	}

	issue := Issue{Key: issueKey}
	if raw, ok := payload.Fields["summary"]; ok {
		if err := json.Unmarshal(raw, &issue.Summary); err != nil {
			c.logger.Debug("jira summary not a string", "issue_key", issueKey, "error", err)
		}
	}
	if raw, ok := payload.Fields[c.cfg.StoryPointsField]; ok {
		var points *float64
		if err := json.Unmarshal(raw, &points); err != nil {
			c.logger.Debug("jira story points not a number", "issue_key", issueKey, "field", c.cfg.StoryPointsField, "error", err)
		} else {
			issue.StoryPoints = points
		}
	}
	return issue, nil
}

func (c *Client) issueURL(issueKey string, query url.Values) string {
	u := c.cfg.BaseURL + "/rest/api/3/issue/" + url.PathEscape(issueKey)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("jira rate limit: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build jira request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira request: %w", err)
	}
	return resp, nil
}

// readAPIError turns a Jira error body into a readable message.
func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("Jira API %d", resp.StatusCode),
	}

	var payload struct {
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		if text := strings.TrimSpace(string(raw)); text != "" {
			if len(text) > 200 {
				text = text[:200]
			}
			apiErr.Message = text
		}
		return apiErr
	}

	switch {
	case len(payload.ErrorMessages) > 0:
		apiErr.Message = strings.Join(payload.ErrorMessages, ", ")
	case len(payload.Errors) > 0:
		fields := make([]string, 0, len(payload.Errors))
		for field := range payload.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		msgs := make([]string, 0, len(fields))
		for _, field := range fields {
			msgs = append(msgs, payload.Errors[field])
		}
		apiErr.Message = strings.Join(msgs, ", ")
	}
	return apiErr
}
