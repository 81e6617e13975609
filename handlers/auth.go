// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/daily-poll/middleware"
	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/registration"
)

type AuthHandler struct {
	reg      *registration.Service
	validate *middleware.Validator
}

func NewAuthHandler(reg *registration.Service, validate *middleware.Validator) *AuthHandler {
	return &AuthHandler{reg: reg, validate: validate}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.validate.DecodeAndValidate(w, r, &req) {
		return
	}

	err := h.reg.Register(r.Context(), req.Email, req.Phone)
	switch {
	case err == nil:
		middleware.Success(w)
	case errors.Is(err, registration.ErrNotAuthorized):
		middleware.ErrorResponse(w, http.StatusForbidden, "Email not authorized")
	case errors.Is(err, registration.ErrAlreadyRegistered):
		middleware.ErrorBody(w, http.StatusBadRequest, models.ErrorResponse{
			Error:             "Already registered",
			AlreadyRegistered: true,
		})
	default:
		slog.Error("registration failed", "email", req.Email, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
	}
}

// SetupAdmin handles POST /auth/setup-admin
func (h *AuthHandler) SetupAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.SetupAdminRequest
	if !h.validate.DecodeAndValidate(w, r, &req) {
		return
	}

	err := h.reg.SetupAdmin(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		middleware.Success(w)
	case errors.Is(err, registration.ErrAdminExists):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Admin already exists")
	case errors.Is(err, registration.ErrEmailTaken):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email already has an account")
	default:
		slog.Error("admin setup failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Admin setup failed")
	}
}

// Login handles POST /auth/login. The first login of a directory email
// registers it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.validate.DecodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.reg.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		slog.Info("user signed in", "user_id", session.UserID, "is_admin", session.IsAdmin)
		middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
			Token:    session.Token,
			UserID:   session.UserID,
			Email:    session.Email,
			IsAdmin:  session.IsAdmin,
			Redirect: session.Redirect(),
		})
	case errors.Is(err, registration.ErrWrongPassword):
		middleware.ErrorBody(w, http.StatusUnauthorized, models.ErrorResponse{
			Error:             "Please enter your registered phone number as password",
			AlreadyRegistered: true,
		})
	case errors.Is(err, registration.ErrNotAuthorized):
		middleware.ErrorResponse(w, http.StatusForbidden, "Email not authorized")
	case errors.Is(err, registration.ErrInvalidCredentials):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		slog.Error("login failed", "email", req.Email, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Login failed")
	}
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	isAdmin, err := h.reg.IsAdmin(r.Context(), session.UserID)
	if err != nil {
		slog.Error("failed to check admin role", "user_id", session.UserID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to check permissions")
		return
	}

	me := registration.Session{UserID: session.UserID, Email: session.Email, IsAdmin: isAdmin}
	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		UserID:   me.UserID,
		Email:    me.Email,
		IsAdmin:  me.IsAdmin,
		Redirect: me.Redirect(),
	})
}
