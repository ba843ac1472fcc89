// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tracker

import "regexp"

var (
	selectedIssuePattern = regexp.MustCompile(`selectedIssue=([A-Z][A-Z0-9_]+-\d+)`)
	browsePattern        = regexp.MustCompile(`/browse/([A-Z][A-Z0-9_]+-\d+)`)
	plainKeyPattern      = regexp.MustCompile(`[A-Z][A-Z0-9_]+-\d+`)
)

// ExtractIssueKey finds a Jira issue key such as "PROJ-123" in a ticket reference.
// Board links with a selectedIssue parameter win over /browse/ links, which win
// over the first key-shaped token anywhere in the input.
func ExtractIssueKey(input string) (string, bool) {
	if m := selectedIssuePattern.FindStringSubmatch(input); m != nil {
		return m[1], true
	}
	if m := browsePattern.FindStringSubmatch(input); m != nil {
		return m[1], true
	}
	if key := plainKeyPattern.FindString(input); key != "" {
		return key, true
	}
	return "", false
}
