// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Daily Poll API.

# Handler Types

Each handler is a struct holding the service or store it drives plus the
shared request validator:

  - AuthHandler: Registration, login, admin bootstrap and session lookup
  - PollHandler: Admin poll CRUD and the active toggle
  - VotingHandler: Today's poll for the signed-in voter and vote casting
  - ResultsHandler: Aggregated results and spreadsheet exports
  - DirectoryHandler: The authorized-identity directory and bulk import

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(st, validate)

Authentication is not checked here. The router wraps handlers with
middleware.Authenticator, and handlers read the caller from
middleware.SessionFromContext.

# Sign-in Flow

	POST /auth/register    → Register (directory email + phone)
	POST /auth/login       → Login (registers on first use)
	POST /auth/setup-admin → SetupAdmin (once per deployment)
	GET  /auth/me          → Me

Voters sign in with their directory phone number as the password.

# Voting Flow

	GET  /polls/today      → Today (state, message and options)
	POST /polls/today/vote → Vote

A vote is accepted only while today's active poll is inside its window.
Repeat votes answer 200 with a notice and leave the ledger unchanged.

# Admin

	GET/POST        /admin/polls
	GET/PUT/DELETE  /admin/polls/{id}
	POST            /admin/polls/{id}/toggle
	GET             /admin/polls/{id}/results?visible_only=false
	GET             /admin/polls/{id}/export/voted
	GET             /admin/polls/{id}/export/not-voted
	GET/POST        /admin/directory
	POST            /admin/directory/import
	DELETE          /admin/directory/{id}
	POST            /admin/directory/{id}/visibility

Results and exports leave hidden identities out of per-voter listings
unless visible_only=false. Exports are xlsx workbooks sent as attachments.
*/
package handlers
