// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/daily-poll/auth"
	"github.com/danielhkuo/daily-poll/middleware"
	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/spreadsheet"
	"github.com/danielhkuo/daily-poll/store"
)

// MaxImportBytes caps directory uploads
const MaxImportBytes = 10 << 20

type DirectoryHandler struct {
	store    *store.Store
	validate *middleware.Validator
}

func NewDirectoryHandler(st *store.Store, validate *middleware.Validator) *DirectoryHandler {
	return &DirectoryHandler{store: st, validate: validate}
}

// ListDirectory handles GET /admin/directory
func (h *DirectoryHandler) ListDirectory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListDirectory(r.Context())
	if err != nil {
		slog.Error("failed to list directory", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}

// AddEntry handles POST /admin/directory
func (h *DirectoryHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req models.AddDirectoryEntryRequest
	if !h.validate.DecodeAndValidate(w, r, &req) {
		return
	}

	entry := models.AuthorizedIdentity{
		ID:        auth.GenerateID(),
		Email:     auth.NormalizeEmail(req.Email),
		Phone:     req.Phone,
		FullName:  optionalString(req.FullName),
		Gender:    req.Gender,
		IsVisible: true,
	}
	if entry.Gender == "" {
		entry.Gender = models.GenderMale
	}
	if entry.Gender == models.GenderFemale {
		entry.Hostel = optionalString(req.Hostel)
	}

	err := h.store.AddDirectoryEntry(r.Context(), entry)
	if errors.Is(err, store.ErrDuplicate) {
		middleware.ErrorResponse(w, http.StatusConflict, "Email already exists")
		return
	}
	if err != nil {
		slog.Error("failed to add directory entry", "email", entry.Email, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add user")
		return
	}

	slog.Info("directory entry added", "email", entry.Email)
	middleware.JSONResponse(w, http.StatusCreated, entry)
}

// DeleteEntry handles DELETE /admin/directory/{id}
func (h *DirectoryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.store.DeleteDirectoryEntry(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete directory entry", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove user")
		return
	}

	slog.Info("directory entry removed", "id", id)
	middleware.Success(w)
}

// SetVisibility handles POST /admin/directory/{id}/visibility
func (h *DirectoryHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.SetVisibilityRequest
	if !h.validate.DecodeAndValidate(w, r, &req) {
		return
	}

	err := h.store.SetDirectoryVisibility(r.Context(), id, *req.IsVisible)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to set visibility", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update visibility")
		return
	}

	middleware.Success(w)
}

// Import handles POST /admin/directory/import (multipart field "file")
func (h *DirectoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImportBytes)
	if err := r.ParseMultipartForm(MaxImportBytes); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Expected a multipart upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	entries, skipped, err := spreadsheet.ParseDirectory(file)
	if errors.Is(err, spreadsheet.ErrEmptySheet) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "File is empty")
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Error reading file: %v", err))
		return
	}

	for i := range entries {
		entries[i].ID = auth.GenerateID()
	}

	processed, err := h.store.UpsertDirectory(r.Context(), entries)
	if err != nil {
		slog.Error("directory import failed", "rows", len(entries), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	slog.Info("directory imported", "processed", processed, "skipped", skipped)
	middleware.JSONResponse(w, http.StatusOK, models.ImportResponse{
		Processed: processed,
		Skipped:   skipped,
		Message:   humanize.Comma(int64(processed)) + " users processed.",
	})
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
