// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON, carrying validator tags:

  - RegisterRequest: email, phone
  - LoginRequest: email, password
  - SetupAdminRequest: email, password
  - CreatePollRequest: question, poll_date, start_time, end_time, options
  - CastVoteRequest: option_id
  - AddDirectoryEntryRequest: email, phone, full_name, gender, hostel
  - SetVisibilityRequest: is_visible

# Response Types

  - SuccessResponse: success
  - SessionResponse: token, user_id, email, is_admin, redirect
  - CreatePollResponse: poll_id
  - VoteResponse: state, message
  - ImportResponse: processed, skipped, message
  - ErrorResponse: error, already_registered, fields

# Domain Types

Rows as stored, tagged for sqlx:

  - AuthorizedIdentity: directory entry
  - Account: login identity (password hash never serialised)
  - UserProfile: demographics copied at registration
  - Poll, PollOption: daily poll and its ordered options
  - Vote: one ledger row per (poll, user)

Dates are kept as "YYYY-MM-DD" and window bounds as "HH:MM" strings so the
same columns work on PostgreSQL and SQLite.
*/
package models
