// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tracker is the Jira Cloud client used to push consensus estimates.
//
// Credentials come from JIRA_BASE_URL, JIRA_EMAIL and JIRA_API_TOKEN. The
// story points field defaults to "story_points"; most Jira Cloud sites use a
// custom field such as "customfield_10016". Requests are rate limited per
// client.
package tracker
