// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		// ...
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Precedence

Later sources win:

 1. Defaults()
 2. YAML file named by -c/--config or POKER_CONFIG
 3. Environment variables (.env never overrides variables already set)
 4. CLI flags the user actually passed

# CLI Flags

	-c, --config            YAML config file
	-p, --port              Server port (3318)
	-t, --database-type     sqlite or postgres (sqlite)
	-d, --database-url      Journal DSN (file:quickly-poker.db)
	    --log-level         debug, info, warn, error (info)
	    --cors-origin       Allowed origin (echo request origin)
	    --ip-salt           Salt for hashed client IPs in the journal
	    --jira-base-url     Jira Cloud site
	    --jira-email        Jira account email
	    --jira-points-field Story points field id (story_points)
	    --jira-rps          Jira requests per second (5)

# Environment Variables

	PORT, DATABASE_TYPE, DATABASE_URL, LOG_LEVEL, CORS_ORIGIN, IP_HASH_SALT,
	JIRA_BASE_URL, JIRA_EMAIL, JIRA_API_TOKEN, JIRA_STORY_POINTS_FIELD, JIRA_RPS

JIRA_API_TOKEN has no flag so it stays out of process listings.

# Validation

ParseFlags returns an error when:

  - the port is outside 1..65535
  - the database type is not sqlite or postgres
  - the database URL is empty
  - the log level is unknown
*/
package cliparse
