// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/daily-poll/middleware"
	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/voting"
)

type VotingHandler struct {
	svc      *voting.Service
	validate *middleware.Validator
}

func NewVotingHandler(svc *voting.Service, validate *middleware.Validator) *VotingHandler {
	return &VotingHandler{svc: svc, validate: validate}
}

// Today handles GET /polls/today
func (h *VotingHandler) Today(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	view, err := h.svc.Today(r.Context(), session.UserID)
	if err != nil {
		slog.Error("failed to load today's poll", "user_id", session.UserID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load today's poll")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// Vote handles POST /polls/today/vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	var req models.CastVoteRequest
	if !h.validate.DecodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.svc.Submit(r.Context(), session.UserID, req.OptionID)
	resp := models.VoteResponse{State: string(view.State), Message: view.Message}

	switch {
	case err == nil:
		middleware.JSONResponse(w, http.StatusCreated, resp)
	case errors.Is(err, voting.ErrAlreadyVoted):
		middleware.JSONResponse(w, http.StatusOK, resp)
	case errors.Is(err, voting.ErrNotOpen):
		middleware.ErrorResponse(w, http.StatusConflict, view.Message)
	case errors.Is(err, voting.ErrUnknownOption):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown option")
	default:
		slog.Error("failed to submit vote", "user_id", session.UserID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, voting.MessageVoteFailed)
	}
}
