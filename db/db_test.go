// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	conn := openTestDB(t)

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("Second CreateSchema failed: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	conn := openTestDB(t)

	_, err := conn.Exec(`INSERT INTO authorized_emails (id, email, phone) VALUES ('a', 'alice@x.com', '555')`)
	if err != nil {
		t.Fatalf("Failed to insert directory row: %v", err)
	}

	_, err = conn.Exec(`INSERT INTO authorized_emails (id, email, phone) VALUES ('b', 'alice@x.com', '556')`)
	if err == nil {
		t.Fatal("Expected duplicate email insert to fail")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("Expected unique violation, got %v", err)
	}
	if !IsUniqueViolation(fmt.Errorf("wrapped: %w", err)) {
		t.Error("Expected wrapped unique violation to be recognised")
	}

	if IsUniqueViolation(nil) {
		t.Error("nil is not a unique violation")
	}
	if IsUniqueViolation(errors.New("UNIQUE constraint failed: fake")) {
		t.Error("plain errors are not driver errors")
	}
}

func TestSingleAdminIndex(t *testing.T) {
	conn := openTestDB(t)

	for _, id := range []string{"u1", "u2"} {
		_, err := conn.Exec(`INSERT INTO accounts (id, email, password_hash) VALUES ($1, $2, 'x')`, id, id+"@x.com")
		if err != nil {
			t.Fatalf("Failed to insert account: %v", err)
		}
	}

	if _, err := conn.Exec(`INSERT INTO user_roles (user_id, role) VALUES ('u1', 'admin')`); err != nil {
		t.Fatalf("Failed to grant first admin: %v", err)
	}

	_, err := conn.Exec(`INSERT INTO user_roles (user_id, role) VALUES ('u2', 'admin')`)
	if !IsUniqueViolation(err) {
		t.Errorf("Expected second admin to violate the unique index, got %v", err)
	}
}

func TestDriverName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"postgres", DriverPostgres, false},
		{"postgresql", DriverPostgres, false},
		{"sqlite", DriverSQLite, false},
		{"sqlite3", DriverSQLite, false},
		{"mysql", "", true},
	}

	for _, tt := range tests {
		got, err := DriverName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("DriverName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("DriverName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN(":memory:"); got != ":memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite" {
		t.Errorf("unexpected DSN %q", got)
	}
	if got := sqliteDSN("file:x.db?mode=rwc"); got != "file:x.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite" {
		t.Errorf("unexpected DSN %q", got)
	}
	if got := sqliteDSN("x.db?_pragma=foreign_keys(0)"); got != "x.db?_pragma=foreign_keys(0)" {
		t.Errorf("explicit pragma should be kept, got %q", got)
	}
}
