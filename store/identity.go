// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/daily-poll/models"
)

// GetAccountByEmail looks up a provisioned account.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	err := s.db.GetContext(ctx, &account, `
		SELECT id, email, password_hash, email_verified, created_at
		FROM accounts
		WHERE email = $1
	`, email)
	if err != nil {
		return models.Account{}, classify(err, "get account")
	}
	return account, nil
}

// CreateAccount inserts an account together with its optional profile and
// role in a single transaction. A second admin or a taken email yields
// ErrDuplicate.
func (s *Store) CreateAccount(ctx context.Context, account models.Account, profile *models.UserProfile, role string) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = s.now()
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (id, email, password_hash, email_verified, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, account.ID, account.Email, account.PasswordHash, account.EmailVerified, account.CreatedAt)
		if err != nil {
			return classify(err, "insert account")
		}

		if profile != nil {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO profiles (user_id, email, phone, full_name, gender, hostel, is_visible)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, account.ID, profile.Email, profile.Phone, profile.FullName, profile.Gender, profile.Hostel, profile.IsVisible)
			if err != nil {
				return classify(err, "insert profile")
			}
		}

		if role != "" {
			_, err = tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, account.ID, role)
			if err != nil {
				return classify(err, "insert role")
			}
		}
		return nil
	})
}

// HasRole reports whether the user holds role.
func (s *Store) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM user_roles WHERE user_id = $1 AND role = $2`, userID, role)
	if err != nil {
		return false, classify(err, "check role")
	}
	return n > 0, nil
}

// AdminExists reports whether the single admin slot is taken.
func (s *Store) AdminExists(ctx context.Context) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM user_roles WHERE role = 'admin'`)
	if err != nil {
		return false, classify(err, "check admin")
	}
	return n > 0, nil
}

// ListProfiles returns every voter profile.
func (s *Store) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	profiles := []models.UserProfile{}
	err := s.db.SelectContext(ctx, &profiles, `
		SELECT user_id, email, phone, full_name, gender, hostel, is_visible
		FROM profiles
		ORDER BY email
	`)
	if err != nil {
		return nil, classify(err, "list profiles")
	}
	return profiles, nil
}
