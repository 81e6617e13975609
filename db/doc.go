// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and driver error
classification.

# Connecting

Open picks the driver from the configured database type and pings it:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

PostgreSQL goes through lib/pq, SQLite through modernc.org/sqlite. SQLite
connections get foreign keys and a busy timeout enabled and are limited to a
single open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - authorized_emails: pre-approved voters (email, phone, demographics)
  - accounts: login identities with bcrypt password hashes
  - profiles: demographic copy made at registration
  - user_roles: role grants; at most one admin
  - polls: daily polls with a same-day time window
  - poll_options: ordered options per poll
  - votes: one vote per (poll, user)

# Relationships

	accounts 1──1 profiles
	accounts 1──* user_roles
	polls 1──* poll_options
	polls 1──* votes
	poll_options 1──* votes

All foreign keys use ON DELETE CASCADE.

# Constraint Errors

IsUniqueViolation recognises unique-key failures from both drivers, which is
how duplicate votes, duplicate directory emails and a second admin are
detected:

	if db.IsUniqueViolation(err) {
		// already voted
	}
*/
package db
