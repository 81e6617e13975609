// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded before anything else, so
local development can keep secrets out of the shell history.

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type (postgres or sqlite)
	-tz              Time zone that defines "today"
	-redis           Redis address for the role cache
	-session-secret  Session token secret

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p (default 3318)
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t (inferred from the URL when unset)
	TIMEZONE       → -tz (default Local)
	REDIS_ADDR     → -redis
	SESSION_SECRET → -session-secret

Environment only:

	SESSION_TTL     bearer token lifetime (default 24h)
	ROLE_CACHE_TTL  admin role cache lifetime (default 5m)
	RATE_LIMIT_RPM  login/register requests per minute per IP (default 60, 0 disables)
	ADMIN_EMAIL     bootstrap admin account at startup (with ADMIN_PASSWORD)
	ADMIN_PASSWORD

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - SESSION_SECRET is missing or shorter than 16 characters
  - the database type or time zone is not recognised
  - only one of ADMIN_EMAIL / ADMIN_PASSWORD is set
*/
package cliparse
