// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	return newTestClientWith(t, handler, 0, nil)
}

func newTestClientWith(t *testing.T, handler http.HandlerFunc, rps float64, logger *slog.Logger) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:           server.URL + "/",
		Email:             "bot@example.com",
		APIToken:          "secret",
		StoryPointsField:  "customfield_10016",
		RequestsPerSecond: rps,
	}, server.Client(), logger)
}

func TestClient_IsConfigured(t *testing.T) {
	assert.False(t, NewClient(Config{}, nil, nil).IsConfigured())
	assert.False(t, NewClient(Config{BaseURL: "https://x", Email: "a@b"}, nil, nil).IsConfigured())
	assert.True(t, NewClient(Config{BaseURL: "https://x", Email: "a@b", APIToken: "t"}, nil, nil).IsConfigured())
}

func TestClient_ApplyEstimate(t *testing.T) {
	var gotBody map[string]map[string]float64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/rest/api/3/issue/PROJ-1", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "bot@example.com", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.ApplyEstimate(context.Background(), "PROJ-1", 8)
	require.NoError(t, err)
	assert.Equal(t, 8.0, gotBody["fields"]["customfield_10016"])
}

func TestClient_ApplyEstimate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"error messages", http.StatusBadRequest, `{"errorMessages":["Issue does not exist","or no permission"]}`, "Issue does not exist, or no permission"},
		{"field errors", http.StatusBadRequest, `{"errors":{"b":"second","a":"first"}}`, "first, second"},
		{"plain text", http.StatusBadGateway, "upstream down", "upstream down"},
		{"empty body", http.StatusUnauthorized, "", "Jira API 401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := client.ApplyEstimate(context.Background(), "PROJ-1", 3)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestClient_ApplyEstimate_NotConfigured(t *testing.T) {
	err := NewClient(Config{}, nil, nil).ApplyEstimate(context.Background(), "PROJ-1", 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_GetIssue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "summary,customfield_10016", r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key":"PROJ-5","fields":{"summary":"Login page","customfield_10016":5}}`))
	})

	issue, err := client.GetIssue(context.Background(), "PROJ-5")
	require.NoError(t, err)
	assert.Equal(t, "Login page", issue.Summary)
	require.NotNil(t, issue.StoryPoints)
	assert.Equal(t, 5.0, *issue.StoryPoints)
}

func TestClient_GetIssue_NoPoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"key":"PROJ-6","fields":{"summary":"Unsized","customfield_10016":null}}`))
	})

	issue, err := client.GetIssue(context.Background(), "PROJ-6")
	require.NoError(t, err)
	assert.Equal(t, "Unsized", issue.Summary)
	assert.Nil(t, issue.StoryPoints)
}

func TestClient_GetIssue_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetIssue(context.Background(), "PROJ-404")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClient_GetIssue_MalformedFields(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := newTestClientWith(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"key":"PROJ-9","fields":{"summary":{"text":"odd"},"customfield_10016":"five"}}`))
	}, 0, logger)

	issue, err := client.GetIssue(context.Background(), "PROJ-9")
	require.NoError(t, err)
	assert.Empty(t, issue.Summary)
	assert.Nil(t, issue.StoryPoints)
	assert.Contains(t, logs.String(), "jira summary not a string")
	assert.Contains(t, logs.String(), "jira story points not a number")
}

func TestClient_RateLimit(t *testing.T) {
	var hits atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}

	t.Run("second call waits for a token", func(t *testing.T) {
		hits.Store(0)
		client := newTestClientWith(t, handler, 10, nil)

		require.NoError(t, client.ApplyEstimate(context.Background(), "PROJ-1", 1))
		start := time.Now()
		require.NoError(t, client.ApplyEstimate(context.Background(), "PROJ-1", 2))

		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("expiring context fails before the request", func(t *testing.T) {
		hits.Store(0)
		client := newTestClientWith(t, handler, 1, nil)

		require.NoError(t, client.ApplyEstimate(context.Background(), "PROJ-1", 1))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		err := client.ApplyEstimate(ctx, "PROJ-1", 2)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "jira rate limit")
		assert.Equal(t, int32(1), hits.Load())
	})
}
