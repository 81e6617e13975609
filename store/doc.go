// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the SQL persistence layer shared by PostgreSQL and SQLite.

# Construction

	st := store.New(conn, db.DriverSQLite)

Queries use $N placeholders, which both drivers accept, and scan into the
models types through sqlx.

# Tables Covered

  - Directory: authorized_emails (add, upsert, delete, visibility, claim)
  - Identity: accounts, profiles and user_roles
  - Polls: polls and poll_options
  - Votes: the one-vote-per-user ledger

Multi-row writes (account provisioning, poll create/update, bulk import)
run in one transaction.

# Errors

Driver errors are mapped onto package sentinels:

  - ErrNotFound: no row matched
  - ErrDuplicate: a UNIQUE or PRIMARY KEY constraint fired
  - ErrPollHasVotes: options cannot be replaced once votes exist

Callers match them with errors.Is.
*/
package store
