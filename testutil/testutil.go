// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-poker/cliparse"
	"github.com/danielhkuo/quickly-poker/db"
	"github.com/danielhkuo/quickly-poker/room"
	"github.com/danielhkuo/quickly-poker/tracker"
)

// Epoch is the default start time of test clocks
var Epoch = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// Clock is a manually advanced clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SequenceCodes returns a code generator that yields codes in order and
// then repeats the last one
func SequenceCodes(codes ...string) func() string {
	var (
		mu sync.Mutex
		i  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		code := codes[min(i, len(codes)-1)]
		i++
		return code
	}
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDirectory creates a room directory driven by clock
func NewTestDirectory(t *testing.T, clock *Clock, opts ...room.Option) *room.Directory {
	t.Helper()
	base := []room.Option{
		room.WithClock(clock.Now),
		room.WithLogger(DiscardLogger()),
	}
	return room.NewDirectory(append(base, opts...)...)
}

// EstimateCall is one ApplyEstimate call seen by FakeTracker
type EstimateCall struct {
	IssueKey string
	Points   float64
}

// FakeTracker records estimates instead of calling Jira
type FakeTracker struct {
	Configured bool
	// Err is returned by ApplyEstimate and GetIssue when set
	Err error
	// Issues backs GetIssue, keyed by issue key
	Issues map[string]tracker.Issue
	// Block, when set, holds ApplyEstimate until closed
	Block chan struct{}
	// Entered receives one value per ApplyEstimate call, if set
	Entered chan struct{}

	mu         sync.Mutex
	calls      []EstimateCall
	issueCalls int
}

func (f *FakeTracker) IsConfigured() bool {
	return f.Configured
}

func (f *FakeTracker) ResolveIssueKey(ticketURL string) (string, bool) {
	return tracker.ExtractIssueKey(ticketURL)
}

func (f *FakeTracker) ApplyEstimate(ctx context.Context, issueKey string, points float64) error {
	f.mu.Lock()
	f.calls = append(f.calls, EstimateCall{IssueKey: issueKey, Points: points})
	f.mu.Unlock()

	if f.Entered != nil {
		f.Entered <- struct{}{}
	}
	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.Err
}

func (f *FakeTracker) GetIssue(ctx context.Context, issueKey string) (tracker.Issue, error) {
	f.mu.Lock()
	f.issueCalls++
	f.mu.Unlock()

	if f.Err != nil {
		return tracker.Issue{}, f.Err
	}
	issue, ok := f.Issues[issueKey]
	if !ok {
		return tracker.Issue{}, &tracker.APIError{StatusCode: http.StatusNotFound, Message: "Issue does not exist"}
	}
	return issue, nil
}

// EstimateCalls returns a copy of the recorded calls
func (f *FakeTracker) EstimateCalls() []EstimateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]EstimateCall(nil), f.calls...)
}

// IssueCalls returns how many times GetIssue was called
func (f *FakeTracker) IssueCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueCalls
}

// SetupTestDB creates an in-memory sqlite journal with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a test configuration
func GetTestConfig() cliparse.Config {
	cfg := cliparse.Defaults()
	cfg.DatabaseURL = ":memory:"
	cfg.LogLevel = "error"
	cfg.IPHashSalt = "test-ip-salt"
	return cfg
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
