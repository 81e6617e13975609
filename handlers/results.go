// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/daily-poll/middleware"
	"github.com/danielhkuo/daily-poll/results"
	"github.com/danielhkuo/daily-poll/spreadsheet"
)

type ResultsHandler struct {
	svc *results.Service
}

func NewResultsHandler(svc *results.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// load fetches results for the {id} path value, writing the error response on failure
func (h *ResultsHandler) load(w http.ResponseWriter, r *http.Request) (results.Result, bool) {
	pollID := r.PathValue("id")

	opts := results.Options{VisibleOnly: true}
	if v := r.URL.Query().Get("visible_only"); v != "" {
		visible, err := strconv.ParseBool(v)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "visible_only must be true or false")
			return results.Result{}, false
		}
		opts.VisibleOnly = visible
	}

	res, err := h.svc.Load(r.Context(), pollID, opts)
	if errors.Is(err, results.ErrPollNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return results.Result{}, false
	}
	if err != nil {
		slog.Error("failed to load results", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load results")
		return results.Result{}, false
	}

	return res, true
}

// GetResults handles GET /admin/polls/{id}/results. Hidden identities are
// left out of per-voter listings unless visible_only=false.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, res)
}

// ExportVoted handles GET /admin/polls/{id}/export/voted
func (h *ResultsHandler) ExportVoted(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteVoted(&buf, res.Details); err != nil {
		slog.Error("failed to write voted export", "poll_id", r.PathValue("id"), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build spreadsheet")
		return
	}

	writeSpreadsheet(w, spreadsheet.VotedFilename, &buf)
}

// ExportNotVoted handles GET /admin/polls/{id}/export/not-voted
func (h *ResultsHandler) ExportNotVoted(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteNotVoted(&buf, res.NotVoted); err != nil {
		slog.Error("failed to write not-voted export", "poll_id", r.PathValue("id"), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build spreadsheet")
		return
	}

	writeSpreadsheet(w, spreadsheet.NotVotedFilename, &buf)
}

func writeSpreadsheet(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to send spreadsheet", "filename", filename, "error", err)
	}
}
