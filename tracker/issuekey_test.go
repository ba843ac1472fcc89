// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIssueKey(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"browse link", "https://acme.atlassian.net/browse/PROJ-123", "PROJ-123", true},
		{"board link", "https://acme.atlassian.net/jira/software/projects/PROJ/boards/1?selectedIssue=PROJ-42", "PROJ-42", true},
		{"selected issue wins", "https://acme.atlassian.net/browse/OLD-1?selectedIssue=NEW_2-7", "NEW_2-7", true},
		{"plain key", "PROJ-9", "PROJ-9", true},
		{"key in text", "estimate AB2-77 please", "AB2-77", true},
		{"lowercase is not a key", "https://acme.atlassian.net/browse/proj-1", "", false},
		{"no key", "https://example.com/tickets/12", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractIssueKey(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
