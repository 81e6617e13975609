// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/daily-poll/auth"
)

type contextKey struct{}

// RoleChecker answers whether a user holds the admin role
type RoleChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Authenticator guards handlers with bearer session tokens
type Authenticator struct {
	tokens *auth.TokenIssuer
	roles  RoleChecker
}

func NewAuthenticator(tokens *auth.TokenIssuer, roles RoleChecker) *Authenticator {
	return &Authenticator{tokens: tokens, roles: roles}
}

// SessionFromContext returns the session stored by RequireUser
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(contextKey{}).(auth.Session)
	return s, ok
}

// WithSession stores a session in ctx
func WithSession(ctx context.Context, s auth.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// RequireUser rejects requests without a valid bearer token
func (a *Authenticator) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		session, err := a.tokens.Validate(token)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired session")
			return
		}

		next(w, r.WithContext(WithSession(r.Context(), session)))
	}
}

// RequireAdmin is RequireUser plus the admin role
func (a *Authenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFromContext(r.Context())

		isAdmin, err := a.roles.IsAdmin(r.Context(), session.UserID)
		if err != nil {
			slog.Error("failed to check admin role", "user_id", session.UserID, "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Failed to check permissions")
			return
		}
		if !isAdmin {
			ErrorResponse(w, http.StatusForbidden, "Admin access required")
			return
		}

		next(w, r)
	})
}
