// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Daily Poll API server.

Daily Poll runs one question per day for a closed group. Administrators
maintain a directory of approved emails and phone numbers, schedule a poll
with a voting window for each date, and read the results broken down by
gender and hostel. Voters sign in with their email and phone number and
cast at most one vote while the window is open.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=daily.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -d "postgres://..." -tz Asia/Kolkata

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL URL or SQLite file path
  - SESSION_SECRET (--session-secret): HMAC key for session tokens, 16+ chars

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: inferred from the URL)
  - TIMEZONE (-tz): IANA zone that defines "today" (default: Local)
  - REDIS_ADDR (-redis): Shared role cache; in-process cache otherwise
  - SESSION_TTL, ROLE_CACHE_TTL: Durations (defaults: 24h, 5m)
  - RATE_LIMIT_RPM: Sign-in requests per minute per IP (default: 60, 0 disables)
  - ADMIN_EMAIL, ADMIN_PASSWORD: Create the admin at startup if none exists

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, polls, voting, results, directory)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, sessions, rate limiting, validation
  - registration, voting, results: Domain services
  - store: SQL persistence shared by PostgreSQL and SQLite
  - rolecache: Admin-role cache (memory or Redis)
  - spreadsheet: xlsx directory import and result exports
  - models: Request/response and row types
  - auth: IDs, password hashing and session tokens
  - db: Connection setup and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
