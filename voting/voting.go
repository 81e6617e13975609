// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/daily-poll/auth"
	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/store"
)

var (
	ErrAlreadyVoted  = errors.New("already voted")
	ErrNotOpen       = errors.New("poll is not open")
	ErrUnknownOption = errors.New("option does not belong to today's poll")
)

// Store is the slice of the relational store that voting needs.
type Store interface {
	ActivePollForDate(ctx context.Context, date string) (models.Poll, error)
	ListOptions(ctx context.Context, pollID string) ([]models.PollOption, error)
	HasVoted(ctx context.Context, pollID, userID string) (bool, error)
	InsertVote(ctx context.Context, vote models.Vote) error
}

// View is everything a voter's dashboard shows about today.
type View struct {
	State            State               `json:"state"`
	Message          string              `json:"message"`
	Poll             *models.Poll        `json:"poll,omitempty"`
	Options          []models.PollOption `json:"options,omitempty"`
	MinutesUntilOpen int                 `json:"minutes_until_open,omitempty"`
}

type Service struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// NewService evaluates "today" in loc. A nil loc means time.Local.
func NewService(st Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: st, loc: loc, now: time.Now}
}

// SetClock replaces the wall clock, for tests and replays.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Today derives the user's view of today's poll. Nothing is cached; every
// call re-reads the poll and the ledger.
func (s *Service) Today(ctx context.Context, userID string) (View, error) {
	now := s.now().In(s.loc)

	poll, err := s.store.ActivePollForDate(ctx, now.Format(DateLayout))
	if errors.Is(err, store.ErrNotFound) {
		return View{State: StateNoPollToday, Message: MessageNoPoll}, nil
	}
	if err != nil {
		return View{State: StateLoading}, fmt.Errorf("load today's poll: %w", err)
	}

	options, err := s.store.ListOptions(ctx, poll.ID)
	if err != nil {
		return View{State: StateLoading}, fmt.Errorf("load options: %w", err)
	}

	hasVoted, err := s.store.HasVoted(ctx, poll.ID, userID)
	if err != nil {
		return View{State: StateLoading}, fmt.Errorf("check prior vote: %w", err)
	}

	ev, err := Evaluate(&poll, now, hasVoted)
	if err != nil {
		return View{State: StateLoading}, fmt.Errorf("evaluate window: %w", err)
	}

	return View{
		State:            ev.State,
		Message:          ev.Message,
		Poll:             &poll,
		Options:          options,
		MinutesUntilOpen: ev.MinutesUntilOpen,
	}, nil
}

// Submit records the user's choice for today's poll. The returned view is
// the state after the attempt, also on error.
func (s *Service) Submit(ctx context.Context, userID, optionID string) (View, error) {
	view, err := s.Today(ctx, userID)
	if err != nil {
		return view, err
	}

	switch view.State {
	case StateOpenUnvoted:
	case StateAlreadyVoted:
		view.Message = MessageDuplicate
		return view, ErrAlreadyVoted
	default:
		return view, fmt.Errorf("%w: %s", ErrNotOpen, view.State)
	}

	if !hasOption(view.Options, optionID) {
		return view, ErrUnknownOption
	}

	err = s.store.InsertVote(ctx, models.Vote{
		ID:       auth.GenerateID(),
		PollID:   view.Poll.ID,
		OptionID: optionID,
		UserID:   userID,
		VotedAt:  s.now().UTC(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		view.State = StateAlreadyVoted
		view.Message = MessageDuplicate
		return view, ErrAlreadyVoted
	}
	if err != nil {
		view.Message = MessageVoteFailed
		return view, fmt.Errorf("record vote: %w", err)
	}

	slog.Info("vote recorded", "poll_id", view.Poll.ID, "user_id", userID)

	view.State = StateAlreadyVoted
	view.Message = MessageVoted
	return view, nil
}

func hasOption(options []models.PollOption, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}
