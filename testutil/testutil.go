// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/daily-poll/auth"
	"github.com/danielhkuo/daily-poll/cliparse"
	"github.com/danielhkuo/daily-poll/db"
	"github.com/danielhkuo/daily-poll/models"
)

// TestDBURL is an in-memory SQLite database, private to each connection pool
const TestDBURL = ":memory:"

// SetupTestDB opens a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(cliparse.DatabaseSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   TestDBURL,
		DatabaseType:  cliparse.DatabaseSQLite,
		SessionSecret: "test-session-secret-0123456789",
		SessionTTL:    time.Hour,
		Timezone:      "UTC",
		Location:      time.UTC,
		RoleCacheTTL:  time.Minute,
		RateLimitRPM:  0,
	}
}

// AddTestIdentity adds a pre-approved voter to the directory and returns its ID
func AddTestIdentity(t *testing.T, conn *sql.DB, email, phone, gender, hostel string) string {
	t.Helper()

	id := auth.GenerateID()
	name := "Test " + email
	_, err := conn.Exec(`
		INSERT INTO authorized_emails (id, email, phone, full_name, gender, hostel, is_registered, is_visible, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, TRUE, $7)
	`, id, email, phone, name, gender, hostel, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test identity: %v", err)
	}

	return id
}

// CreateTestAccount provisions an account with a bcrypt password and role.
// Voters also get a profile copied from the directory row if one exists.
func CreateTestAccount(t *testing.T, conn *sql.DB, email, password, role string) string {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	userID := auth.GenerateID()
	_, err = conn.Exec(`
		INSERT INTO accounts (id, email, password_hash, email_verified, created_at)
		VALUES ($1, $2, $3, TRUE, $4)
	`, userID, email, hash, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	if _, err := conn.Exec(`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, userID, role); err != nil {
		t.Fatalf("Failed to create test role: %v", err)
	}

	if role == models.RoleUser {
		_, err = conn.Exec(`
			INSERT INTO profiles (user_id, email, phone, full_name, gender, hostel, is_visible)
			SELECT $1, email, phone, full_name, gender, hostel, is_visible
			FROM authorized_emails WHERE email = $2
		`, userID, email)
		if err != nil {
			t.Fatalf("Failed to create test profile: %v", err)
		}
		if _, err := conn.Exec(`UPDATE authorized_emails SET is_registered = TRUE WHERE email = $1`, email); err != nil {
			t.Fatalf("Failed to mark identity registered: %v", err)
		}
	}

	return userID
}

// CreateTestPoll creates an active poll with the given window and returns its ID
func CreateTestPoll(t *testing.T, conn *sql.DB, date, start, end string) string {
	t.Helper()

	pollID := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO polls (id, question, poll_date, start_time, end_time, is_active, created_at)
		VALUES ($1, 'Lunch?', $2, $3, $4, TRUE, $5)
	`, pollID, date, start, end, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, text string, sortOrder int) string {
	t.Helper()

	optionID := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO poll_options (id, poll_id, option_text, sort_order)
		VALUES ($1, $2, $3, $4)
	`, optionID, pollID, text, sortOrder)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// CastTestVote records a vote directly in the ledger
func CastTestVote(t *testing.T, conn *sql.DB, pollID, optionID, userID string) string {
	t.Helper()

	voteID := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO votes (id, poll_id, option_id, user_id, voted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, pollID, optionID, userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// BearerHeader issues a session token for userID and returns the header map
func BearerHeader(t *testing.T, cfg cliparse.Config, userID, email string) map[string]string {
	t.Helper()

	token, err := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL).Issue(userID, email)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
