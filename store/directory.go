// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/daily-poll/models"
)

const directoryColumns = `id, email, phone, full_name, gender, hostel, is_registered, is_visible, created_at`

// GetDirectoryEntry looks up an authorized identity by normalized email.
func (s *Store) GetDirectoryEntry(ctx context.Context, email string) (models.AuthorizedIdentity, error) {
	var entry models.AuthorizedIdentity
	err := s.db.GetContext(ctx, &entry, `
		SELECT `+directoryColumns+`
		FROM authorized_emails
		WHERE email = $1
	`, email)
	if err != nil {
		return models.AuthorizedIdentity{}, classify(err, "get directory entry")
	}
	return entry, nil
}

// ListDirectory returns every authorized identity, newest first.
func (s *Store) ListDirectory(ctx context.Context) ([]models.AuthorizedIdentity, error) {
	entries := []models.AuthorizedIdentity{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT `+directoryColumns+`
		FROM authorized_emails
		ORDER BY created_at DESC, email
	`)
	if err != nil {
		return nil, classify(err, "list directory")
	}
	return entries, nil
}

// AddDirectoryEntry inserts a single identity. An existing email yields ErrDuplicate.
func (s *Store) AddDirectoryEntry(ctx context.Context, entry models.AuthorizedIdentity) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO authorized_emails (id, email, phone, full_name, gender, hostel, is_registered, is_visible, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, entry.ID, entry.Email, entry.Phone, entry.FullName, entry.Gender, entry.Hostel,
		entry.IsRegistered, entry.IsVisible, entry.CreatedAt)
	return classify(err, "add directory entry")
}

// UpsertDirectory inserts or overwrites identities keyed by email in one
// transaction. Registration and visibility flags of existing rows are kept.
func (s *Store) UpsertDirectory(ctx context.Context, entries []models.AuthorizedIdentity) (int, error) {
	now := s.now()
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, entry := range entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO authorized_emails (id, email, phone, full_name, gender, hostel, is_registered, is_visible, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, FALSE, TRUE, $7)
				ON CONFLICT (email) DO UPDATE SET
					phone = excluded.phone,
					full_name = excluded.full_name,
					gender = excluded.gender,
					hostel = excluded.hostel
			`, entry.ID, entry.Email, entry.Phone, entry.FullName, entry.Gender, entry.Hostel, now)
			if err != nil {
				return classify(err, "upsert directory entry "+entry.Email)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// DeleteDirectoryEntry removes an identity by id.
func (s *Store) DeleteDirectoryEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM authorized_emails WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete directory entry")
	}
	return rowsAffected(res, "delete directory entry")
}

// SetDirectoryVisibility toggles whether an identity shows up in reports.
// The matching profile, if registered, follows.
func (s *Store) SetDirectoryVisibility(ctx context.Context, id string, visible bool) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE authorized_emails SET is_visible = $1 WHERE id = $2`, visible, id)
		if err != nil {
			return classify(err, "set directory visibility")
		}
		if err := rowsAffected(res, "set directory visibility"); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE profiles SET is_visible = $1
			WHERE email = (SELECT email FROM authorized_emails WHERE id = $2)
		`, visible, id)
		return classify(err, "set profile visibility")
	})
}

// ClaimRegistration flips is_registered from false to true. It reports false
// when the row was already claimed, which makes concurrent first logins for
// the same email resolve to a single winner.
func (s *Store) ClaimRegistration(ctx context.Context, email string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE authorized_emails SET is_registered = TRUE
		WHERE email = $1 AND is_registered = FALSE
	`, email)
	if err != nil {
		return false, classify(err, "claim registration")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify(err, "claim registration")
	}
	return n == 1, nil
}

// ReleaseRegistration undoes a claim after provisioning failed.
func (s *Store) ReleaseRegistration(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE authorized_emails SET is_registered = FALSE WHERE email = $1`, email)
	return classify(err, "release registration")
}
