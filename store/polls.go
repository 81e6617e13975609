// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/daily-poll/models"
)

const pollColumns = `id, question, poll_date, start_time, end_time, is_active, created_at`

// ListPolls returns all polls, most recent date first.
func (s *Store) ListPolls(ctx context.Context) ([]models.Poll, error) {
	polls := []models.Poll{}
	err := s.db.SelectContext(ctx, &polls, `
		SELECT `+pollColumns+`
		FROM polls
		ORDER BY poll_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, classify(err, "list polls")
	}
	return polls, nil
}

// GetPoll fetches a poll by id.
func (s *Store) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	var poll models.Poll
	err := s.db.GetContext(ctx, &poll, `SELECT `+pollColumns+` FROM polls WHERE id = $1`, id)
	if err != nil {
		return models.Poll{}, classify(err, "get poll")
	}
	return poll, nil
}

// ActivePollForDate returns the newest active poll scheduled on date (YYYY-MM-DD).
func (s *Store) ActivePollForDate(ctx context.Context, date string) (models.Poll, error) {
	var poll models.Poll
	err := s.db.GetContext(ctx, &poll, `
		SELECT `+pollColumns+`
		FROM polls
		WHERE poll_date = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`, date)
	if err != nil {
		return models.Poll{}, classify(err, "get active poll")
	}
	return poll, nil
}

// ListOptions returns a poll's options in display order.
func (s *Store) ListOptions(ctx context.Context, pollID string) ([]models.PollOption, error) {
	options := []models.PollOption{}
	err := s.db.SelectContext(ctx, &options, `
		SELECT id, poll_id, option_text, sort_order
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY sort_order, id
	`, pollID)
	if err != nil {
		return nil, classify(err, "list options")
	}
	return options, nil
}

// CreatePoll inserts a poll and its options atomically. Option order follows texts.
func (s *Store) CreatePoll(ctx context.Context, poll models.Poll, texts []string) (models.Poll, error) {
	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = s.now()
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO polls (id, question, poll_date, start_time, end_time, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, poll.ID, poll.Question, poll.PollDate, poll.StartTime, poll.EndTime, poll.IsActive, poll.CreatedAt)
		if err != nil {
			return classify(err, "insert poll")
		}
		return insertOptions(ctx, tx, poll.ID, texts)
	})
	if err != nil {
		return models.Poll{}, err
	}
	return poll, nil
}

// UpdatePoll rewrites a poll's fields. Options are replaced only when the
// texts differ, and never once a vote has been recorded.
func (s *Store) UpdatePoll(ctx context.Context, poll models.Poll, texts []string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE polls
			SET question = $1, poll_date = $2, start_time = $3, end_time = $4
			WHERE id = $5
		`, poll.Question, poll.PollDate, poll.StartTime, poll.EndTime, poll.ID)
		if err != nil {
			return classify(err, "update poll")
		}
		if err := rowsAffected(res, "update poll"); err != nil {
			return err
		}

		var current []string
		err = tx.SelectContext(ctx, &current, `
			SELECT option_text FROM poll_options WHERE poll_id = $1 ORDER BY sort_order, id
		`, poll.ID)
		if err != nil {
			return classify(err, "list options")
		}
		if slices.Equal(current, texts) {
			return nil
		}

		var votes int
		if err := tx.GetContext(ctx, &votes, `SELECT COUNT(*) FROM votes WHERE poll_id = $1`, poll.ID); err != nil {
			return classify(err, "count votes")
		}
		if votes > 0 {
			return ErrPollHasVotes
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id = $1`, poll.ID); err != nil {
			return classify(err, "delete options")
		}
		return insertOptions(ctx, tx, poll.ID, texts)
	})
}

func insertOptions(ctx context.Context, tx *sqlx.Tx, pollID string, texts []string) error {
	for i, text := range texts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO poll_options (id, poll_id, option_text, sort_order)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), pollID, text, i)
		if err != nil {
			return classify(err, "insert option")
		}
	}
	return nil
}

// DeletePoll removes a poll; options and votes cascade.
func (s *Store) DeletePoll(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete poll")
	}
	return rowsAffected(res, "delete poll")
}

// TogglePollActive flips is_active and returns the new value.
func (s *Store) TogglePollActive(ctx context.Context, id string) (bool, error) {
	var active bool
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE polls SET is_active = NOT is_active WHERE id = $1`, id)
		if err != nil {
			return classify(err, "toggle poll")
		}
		if err := rowsAffected(res, "toggle poll"); err != nil {
			return err
		}
		return classify(tx.GetContext(ctx, &active, `SELECT is_active FROM polls WHERE id = $1`, id), "toggle poll")
	})
	return active, err
}
