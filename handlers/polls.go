// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/daily-poll/auth"
	"github.com/danielhkuo/daily-poll/middleware"
	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/store"
	"github.com/danielhkuo/daily-poll/voting"
)

type PollHandler struct {
	store    *store.Store
	validate *middleware.Validator
}

func NewPollHandler(st *store.Store, validate *middleware.Validator) *PollHandler {
	return &PollHandler{store: st, validate: validate}
}

// decodePoll validates a create/update body and returns the cleaned option texts
func (h *PollHandler) decodePoll(w http.ResponseWriter, r *http.Request) (models.CreatePollRequest, []string, bool) {
	var req models.CreatePollRequest
	if !h.validate.DecodeAndValidate(w, r, &req) {
		return req, nil, false
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is a required field")
		return req, nil, false
	}

	if !voting.ValidWindow(req.StartTime, req.EndTime) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "start_time must be before end_time")
		return req, nil, false
	}

	options := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	if len(options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "At least 2 options are required")
		return req, nil, false
	}

	return req, options, true
}

// ListPolls handles GET /admin/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.store.ListPolls(r.Context())
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// CreatePoll handles POST /admin/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	req, options, ok := h.decodePoll(w, r)
	if !ok {
		return
	}

	poll, err := h.store.CreatePoll(r.Context(), models.Poll{
		ID:        auth.GenerateID(),
		Question:  req.Question,
		PollDate:  req.PollDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
	}, options)
	if err != nil {
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "poll_date", poll.PollDate, "options", len(options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{PollID: poll.ID})
}

// GetPoll handles GET /admin/polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to get poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	options, err := h.store.ListOptions(r.Context(), pollID)
	if err != nil {
		slog.Error("failed to list options", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollWithOptions{Poll: poll, Options: options})
}

// UpdatePoll handles PUT /admin/polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	req, options, ok := h.decodePoll(w, r)
	if !ok {
		return
	}

	err := h.store.UpdatePoll(r.Context(), models.Poll{
		ID:        pollID,
		Question:  req.Question,
		PollDate:  req.PollDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}, options)
	switch {
	case err == nil:
		slog.Info("poll updated", "poll_id", pollID)
		middleware.Success(w)
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	case errors.Is(err, store.ErrPollHasVotes):
		middleware.ErrorResponse(w, http.StatusConflict, "Options cannot be changed after votes have been cast")
	default:
		slog.Error("failed to update poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update poll")
	}
}

// DeletePoll handles DELETE /admin/polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	err := h.store.DeletePoll(r.Context(), pollID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete poll")
		return
	}

	slog.Info("poll deleted", "poll_id", pollID)
	middleware.Success(w)
}

// TogglePoll handles POST /admin/polls/{id}/toggle
func (h *PollHandler) TogglePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	active, err := h.store.TogglePollActive(r.Context(), pollID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to toggle poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle poll")
		return
	}

	slog.Info("poll toggled", "poll_id", pollID, "is_active", active)
	middleware.JSONResponse(w, http.StatusOK, models.ToggleResponse{IsActive: active})
}
