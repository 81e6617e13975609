// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/daily-poll/auth"
	"github.com/danielhkuo/daily-poll/cliparse"
	"github.com/danielhkuo/daily-poll/db"
	"github.com/danielhkuo/daily-poll/middleware"
	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/registration"
	"github.com/danielhkuo/daily-poll/results"
	"github.com/danielhkuo/daily-poll/rolecache"
	"github.com/danielhkuo/daily-poll/store"
	"github.com/danielhkuo/daily-poll/testutil"
	"github.com/danielhkuo/daily-poll/voting"
)

func init() {
	auth.PasswordCost = bcrypt.MinCost
}

// testDate is the poll date every handler test runs on
const testDate = "2025-03-01"

// testEnv wires the handlers over an in-memory database
type testEnv struct {
	conn  *sql.DB
	cfg   cliparse.Config
	store *store.Store

	auth      *AuthHandler
	polls     *PollHandler
	voting    *VotingHandler
	results   *ResultsHandler
	directory *DirectoryHandler

	votingSvc *voting.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	st := store.New(conn, db.DriverSQLite)
	validate := middleware.NewValidator()

	tokens := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)
	reg := registration.NewService(st, tokens, rolecache.NewMemory(cfg.RoleCacheTTL))
	votingSvc := voting.NewService(st, cfg.Location)
	votingSvc.SetClock(func() time.Time { return clock(17, 0) })

	return &testEnv{
		conn:      conn,
		cfg:       cfg,
		store:     st,
		auth:      NewAuthHandler(reg, validate),
		polls:     NewPollHandler(st, validate),
		voting:    NewVotingHandler(votingSvc, validate),
		results:   NewResultsHandler(results.NewService(st)),
		directory: NewDirectoryHandler(st, validate),
		votingSvc: votingSvc,
	}
}

// clock returns testDate at hh:mm UTC
func clock(hh, mm int) time.Time {
	return time.Date(2025, time.March, 1, hh, mm, 0, 0, time.UTC)
}

// asUser attaches a session for userID to req, as RequireUser would
func asUser(req *http.Request, userID, email string) *http.Request {
	ctx := middleware.WithSession(req.Context(), auth.Session{UserID: userID, Email: email})
	return req.WithContext(ctx)
}

// seedVoter adds a directory entry and a registered account for email
func (e *testEnv) seedVoter(t *testing.T, email, gender, hostel string) string {
	t.Helper()
	testutil.AddTestIdentity(t, e.conn, email, "555-0100", gender, hostel)
	return testutil.CreateTestAccount(t, e.conn, email, "555-0100", models.RoleUser)
}

// countRows is a small helper for asserting table sizes
func (e *testEnv) countRows(t *testing.T, query string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := e.conn.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}
