// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/danielhkuo/daily-poll/models"
)

// InsertVote appends to the ledger. A second vote by the same user on the
// same poll yields ErrDuplicate.
func (s *Store) InsertVote(ctx context.Context, vote models.Vote) error {
	if vote.VotedAt.IsZero() {
		vote.VotedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO votes (id, poll_id, option_id, user_id, voted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.ID, vote.PollID, vote.OptionID, vote.UserID, vote.VotedAt)
	return classify(err, "insert vote")
}

// HasVoted reports whether the user already has a ledger entry for the poll.
func (s *Store) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM votes WHERE poll_id = $1 AND user_id = $2`, pollID, userID)
	if err != nil {
		return false, classify(err, "check vote")
	}
	return n > 0, nil
}

// ListVotes returns the ledger for a poll in cast order.
func (s *Store) ListVotes(ctx context.Context, pollID string) ([]models.Vote, error) {
	votes := []models.Vote{}
	err := s.db.SelectContext(ctx, &votes, `
		SELECT id, poll_id, option_id, user_id, voted_at
		FROM votes
		WHERE poll_id = $1
		ORDER BY voted_at, id
	`, pollID)
	if err != nil {
		return nil, classify(err, "list votes")
	}
	return votes, nil
}
