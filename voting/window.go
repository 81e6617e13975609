// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"fmt"
	"time"

	"github.com/danielhkuo/daily-poll/models"
)

// State is where a user stands with respect to today's poll.
type State string

const (
	StateLoading      State = "loading"
	StateNoPollToday  State = "no_poll_today"
	StateBeforeWindow State = "before_window"
	StateAfterWindow  State = "after_window"
	StateOpenUnvoted  State = "open_unvoted"
	StateAlreadyVoted State = "already_voted"
)

// User-facing messages
const (
	MessageNoPoll     = "No poll available today. Check back later!"
	MessageClosed     = "Today's poll has closed. See you tomorrow!"
	MessageOpen       = "Voting is open."
	MessageVoted      = "Your vote has been recorded successfully."
	MessageDuplicate  = "You've already cast your vote today."
	MessageVoteFailed = "Failed to submit vote. Please try again."
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	minutesPerDay = 24 * 60
)

// Evaluation is the outcome of checking a poll's window at a point in time.
type Evaluation struct {
	State            State
	Message          string
	MinutesUntilOpen int
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes since midnight back to "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinutesOfDay returns the wall-clock minutes since midnight of t in its own location.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ValidWindow reports whether start and end parse and start < end.
func ValidWindow(start, end string) bool {
	s, err := ParseClock(start)
	if err != nil {
		return false
	}
	e, err := ParseClock(end)
	if err != nil {
		return false
	}
	return s < e
}

// BeforeWindowMessage tells a user how long until the poll opens.
func BeforeWindowMessage(minutesUntil, startMinutes int) string {
	h, m := minutesUntil/60, minutesUntil%60
	if h == 0 {
		return fmt.Sprintf("The poll opens in %dm. Come back at %s.", m, FormatClock(startMinutes))
	}
	return fmt.Sprintf("The poll opens in %dh %dm. Come back at %s.", h, m, FormatClock(startMinutes))
}

// Evaluate classifies now against the poll's window. The window is
// half-open: the start minute is open, the end minute is closed. now must
// already be in the service time zone.
func Evaluate(poll *models.Poll, now time.Time, hasVoted bool) (Evaluation, error) {
	if poll == nil {
		return Evaluation{State: StateNoPollToday, Message: MessageNoPoll}, nil
	}

	start, err := ParseClock(poll.StartTime)
	if err != nil {
		return Evaluation{}, err
	}
	end, err := ParseClock(poll.EndTime)
	if err != nil {
		return Evaluation{}, err
	}

	current := MinutesOfDay(now)
	switch {
	case current < start:
		until := start - current
		return Evaluation{
			State:            StateBeforeWindow,
			Message:          BeforeWindowMessage(until, start),
			MinutesUntilOpen: until,
		}, nil
	case current >= end:
		return Evaluation{State: StateAfterWindow, Message: MessageClosed}, nil
	case hasVoted:
		return Evaluation{State: StateAlreadyVoted, Message: MessageVoted}, nil
	}
	return Evaluation{State: StateOpenUnvoted, Message: MessageOpen}, nil
}
