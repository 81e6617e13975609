// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/daily-poll/db"
	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/store"
	"github.com/danielhkuo/daily-poll/testutil"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 1, hour, minute, 0, 0, time.UTC)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"16:00", 960, false},
		{"23:59", 1439, false},
		{"9:30", 570, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
		{"12:00:00", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValidWindow(t *testing.T) {
	if !ValidWindow("16:00", "19:00") {
		t.Error("Expected 16:00-19:00 to be valid")
	}
	if ValidWindow("19:00", "16:00") {
		t.Error("Expected reversed window to be invalid")
	}
	if ValidWindow("16:00", "16:00") {
		t.Error("Expected empty window to be invalid")
	}
	if ValidWindow("16:00", "late") {
		t.Error("Expected bad clock to be invalid")
	}
}

func TestEvaluate(t *testing.T) {
	poll := &models.Poll{ID: "p1", StartTime: "16:00", EndTime: "19:00"}

	tests := []struct {
		name      string
		poll      *models.Poll
		now       time.Time
		hasVoted  bool
		wantState State
		wantMsg   string
		wantUntil int
	}{
		{"no poll", nil, at(12, 0), false, StateNoPollToday, MessageNoPoll, 0},
		{"one hour before", poll, at(15, 0), false, StateBeforeWindow, "The poll opens in 1h 0m. Come back at 16:00.", 60},
		{"minutes before", poll, at(15, 15), false, StateBeforeWindow, "The poll opens in 45m. Come back at 16:00.", 45},
		{"long before", poll, at(8, 30), false, StateBeforeWindow, "The poll opens in 7h 30m. Come back at 16:00.", 450},
		{"at start", poll, at(16, 0), false, StateOpenUnvoted, MessageOpen, 0},
		{"inside", poll, at(18, 59), false, StateOpenUnvoted, MessageOpen, 0},
		{"inside voted", poll, at(17, 0), true, StateAlreadyVoted, MessageVoted, 0},
		{"at end", poll, at(19, 0), false, StateAfterWindow, MessageClosed, 0},
		{"after end voted", poll, at(20, 0), true, StateAfterWindow, MessageClosed, 0},
		{"before voted", poll, at(15, 0), true, StateBeforeWindow, "The poll opens in 1h 0m. Come back at 16:00.", 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Evaluate(tt.poll, tt.now, tt.hasVoted)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if ev.State != tt.wantState {
				t.Errorf("Expected state %s, got %s", tt.wantState, ev.State)
			}
			if ev.Message != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, ev.Message)
			}
			if ev.MinutesUntilOpen != tt.wantUntil {
				t.Errorf("Expected %d minutes until open, got %d", tt.wantUntil, ev.MinutesUntilOpen)
			}
		})
	}
}

func TestEvaluateBadClock(t *testing.T) {
	_, err := Evaluate(&models.Poll{StartTime: "x", EndTime: "19:00"}, at(12, 0), false)
	if err == nil {
		t.Error("Expected error for unparsable start time")
	}
}

func TestEvaluateUsesWallClockOfLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	poll := &models.Poll{StartTime: "16:00", EndTime: "19:00"}

	// 11:30 UTC is 16:30 in UTC+5
	ev, err := Evaluate(poll, at(11, 30).In(loc), false)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if ev.State != StateOpenUnvoted {
		t.Errorf("Expected open in local wall clock, got %s", ev.State)
	}
}

// fakeStore is an in-memory Store
type fakeStore struct {
	mu        sync.Mutex
	poll      *models.Poll
	options   []models.PollOption
	votes     map[string]string
	insertErr error
}

func (f *fakeStore) ActivePollForDate(_ context.Context, date string) (models.Poll, error) {
	if f.poll == nil || f.poll.PollDate != date {
		return models.Poll{}, store.ErrNotFound
	}
	return *f.poll, nil
}

func (f *fakeStore) ListOptions(_ context.Context, _ string) ([]models.PollOption, error) {
	return f.options, nil
}

func (f *fakeStore) HasVoted(_ context.Context, _, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.votes[userID]
	return ok, nil
}

func (f *fakeStore) InsertVote(_ context.Context, vote models.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, ok := f.votes[vote.UserID]; ok {
		return store.ErrDuplicate
	}
	f.votes[vote.UserID] = vote.OptionID
	return nil
}

func newFakeService(now time.Time) (*Service, *fakeStore) {
	fs := &fakeStore{
		poll: &models.Poll{ID: "p1", Question: "Lunch?", PollDate: "2025-03-01", StartTime: "16:00", EndTime: "19:00", IsActive: true},
		options: []models.PollOption{
			{ID: "o1", PollID: "p1", OptionText: "Yes", SortOrder: 0},
			{ID: "o2", PollID: "p1", OptionText: "No", SortOrder: 1},
		},
		votes: make(map[string]string),
	}
	svc := NewService(fs, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, fs
}

func TestTodayStates(t *testing.T) {
	svc, fs := newFakeService(at(15, 0))
	ctx := context.Background()

	view, err := svc.Today(ctx, "u1")
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if view.State != StateBeforeWindow || view.Message != "The poll opens in 1h 0m. Come back at 16:00." {
		t.Errorf("Unexpected view %+v", view)
	}
	if len(view.Options) != 2 {
		t.Errorf("Expected 2 options, got %d", len(view.Options))
	}

	svc.now = func() time.Time { return at(19, 0) }
	view, _ = svc.Today(ctx, "u1")
	if view.State != StateAfterWindow || view.Message != MessageClosed {
		t.Errorf("Expected closed at 19:00, got %+v", view)
	}

	fs.poll = nil
	view, _ = svc.Today(ctx, "u1")
	if view.State != StateNoPollToday || view.Message != MessageNoPoll {
		t.Errorf("Expected no poll, got %+v", view)
	}
}

func TestSubmit(t *testing.T) {
	svc, fs := newFakeService(at(17, 0))
	ctx := context.Background()

	view, err := svc.Submit(ctx, "u1", "o1")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if view.State != StateAlreadyVoted || view.Message != MessageVoted {
		t.Errorf("Expected already_voted after submit, got %+v", view)
	}
	if fs.votes["u1"] != "o1" {
		t.Errorf("Expected vote for o1 recorded, got %q", fs.votes["u1"])
	}

	view, err = svc.Submit(ctx, "u1", "o2")
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("Expected ErrAlreadyVoted, got %v", err)
	}
	if view.Message != MessageDuplicate {
		t.Errorf("Expected duplicate notice, got %q", view.Message)
	}
	if fs.votes["u1"] != "o1" {
		t.Error("Second submit must not change the recorded vote")
	}
}

func TestSubmitRejections(t *testing.T) {
	ctx := context.Background()

	svc, _ := newFakeService(at(15, 0))
	view, err := svc.Submit(ctx, "u1", "o1")
	if !errors.Is(err, ErrNotOpen) || view.State != StateBeforeWindow {
		t.Errorf("Expected ErrNotOpen before window, got %v (%s)", err, view.State)
	}

	svc, _ = newFakeService(at(19, 0))
	if _, err := svc.Submit(ctx, "u1", "o1"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Expected ErrNotOpen after window, got %v", err)
	}

	svc, _ = newFakeService(at(17, 0))
	if _, err := svc.Submit(ctx, "u1", "other-poll-option"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("Expected ErrUnknownOption, got %v", err)
	}
}

func TestSubmitStoreFailureStaysOpen(t *testing.T) {
	svc, fs := newFakeService(at(17, 0))
	fs.insertErr = errors.New("connection reset")

	view, err := svc.Submit(context.Background(), "u1", "o1")
	if err == nil || errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("Expected generic failure, got %v", err)
	}
	if view.State != StateOpenUnvoted {
		t.Errorf("Expected state to stay open_unvoted, got %s", view.State)
	}
}

func TestConcurrentSubmitSQL(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn, db.DriverSQLite)

	pollID := testutil.CreateTestPoll(t, conn, "2025-03-01", "16:00", "19:00")
	optA := testutil.AddTestOption(t, conn, pollID, "A", 0)
	testutil.AddTestIdentity(t, conn, "alice@x.com", "555", models.GenderFemale, "H1")
	userID := testutil.CreateTestAccount(t, conn, "alice@x.com", "555", models.RoleUser)

	svc := NewService(st, time.UTC)
	svc.now = func() time.Time { return at(17, 0) }

	var successes, duplicates atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), userID, optA)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrAlreadyVoted):
				duplicates.Add(1)
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Errorf("Expected exactly 1 successful vote, got %d", successes.Load())
	}
	if duplicates.Load() != 9 {
		t.Errorf("Expected 9 duplicates, got %d", duplicates.Load())
	}

	votes, err := st.ListVotes(context.Background(), pollID)
	if err != nil {
		t.Fatalf("ListVotes failed: %v", err)
	}
	if len(votes) != 1 {
		t.Errorf("Expected 1 vote in ledger, got %d", len(votes))
	}
}
