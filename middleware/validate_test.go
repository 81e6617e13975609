// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/daily-poll/models"
)

func TestValidatorCreatePoll(t *testing.T) {
	v := NewValidator()

	valid := models.CreatePollRequest{
		Question:  "Lunch?",
		PollDate:  "2025-03-01",
		StartTime: "16:00",
		EndTime:   "19:00",
		Options:   []string{"Yes", "No"},
	}
	if err := v.Struct(valid); err != nil {
		t.Fatalf("Expected valid request, got %v", err)
	}

	testCases := []struct {
		name   string
		mutate func(*models.CreatePollRequest)
		field  string
		msg    string
	}{
		{"missing question", func(r *models.CreatePollRequest) { r.Question = "" }, "question", "question is a required field"},
		{"bad date", func(r *models.CreatePollRequest) { r.PollDate = "01/03/2025" }, "poll_date", "poll_date must be a date in YYYY-MM-DD format"},
		{"bad clock", func(r *models.CreatePollRequest) { r.StartTime = "4pm" }, "start_time", "start_time must be a time in HH:MM format"},
		{"one option", func(r *models.CreatePollRequest) { r.Options = []string{"Only"} }, "options", "options must contain at least 2 items"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			req.Options = append([]string(nil), valid.Options...)
			tc.mutate(&req)

			err := v.Struct(req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if len(verr.Fields) != 1 || verr.Fields[0] != tc.field {
				t.Errorf("Expected field %q, got %v", tc.field, verr.Fields)
			}
			if verr.Messages[0] != tc.msg {
				t.Errorf("Expected message %q, got %q", tc.msg, verr.Messages[0])
			}
		})
	}
}

func TestDecodeAndValidate(t *testing.T) {
	v := NewValidator()

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{"email":"a@x.com","phone":"555"}`))
		w := httptest.NewRecorder()

		var body models.RegisterRequest
		if !v.DecodeAndValidate(w, req, &body) {
			t.Fatalf("Expected success, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{"email":"nope","phone":"555"}`))
		w := httptest.NewRecorder()

		var body models.RegisterRequest
		if v.DecodeAndValidate(w, req, &body) {
			t.Fatal("Expected validation failure")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}

		var resp models.ErrorResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Error != "email must be a valid email address" {
			t.Errorf("Unexpected error %q", resp.Error)
		}
		if len(resp.Fields) != 1 || resp.Fields[0] != "email" {
			t.Errorf("Expected fields [email], got %v", resp.Fields)
		}
	})

	t.Run("bad JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{`))
		w := httptest.NewRecorder()

		var body models.RegisterRequest
		if v.DecodeAndValidate(w, req, &body) {
			t.Fatal("Expected failure")
		}
		if !strings.Contains(w.Body.String(), "Invalid JSON") {
			t.Errorf("Unexpected body %s", w.Body.String())
		}
	})
}

func TestDecodeAndValidateTrimsInput(t *testing.T) {
	v := NewValidator()

	t.Run("padded fields pass", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":"  a@x.com ","password":" 555 "}`))
		w := httptest.NewRecorder()

		var body models.LoginRequest
		if !v.DecodeAndValidate(w, req, &body) {
			t.Fatalf("Expected success, got %d %s", w.Code, w.Body.String())
		}
		if body.Email != "a@x.com" || body.Password != "555" {
			t.Errorf("Expected trimmed fields, got %q %q", body.Email, body.Password)
		}
	})

	tests := []struct {
		name  string
		body  string
		dst   interface{}
		field string
	}{
		{"blank password", `{"email":"a@x.com","password":"   "}`, &models.LoginRequest{}, "password"},
		{"blank phone", `{"email":"a@x.com","phone":"\t "}`, &models.RegisterRequest{}, "phone"},
		{"blank admin password", `{"email":"a@x.com","password":"      "}`, &models.SetupAdminRequest{}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/auth", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			if v.DecodeAndValidate(w, req, tt.dst) {
				t.Fatal("Expected validation failure")
			}
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}

			var resp models.ErrorResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if len(resp.Fields) != 1 || resp.Fields[0] != tt.field {
				t.Errorf("Expected fields [%s], got %v", tt.field, resp.Fields)
			}
		})
	}
}

func TestSetupAdminPasswordLimit(t *testing.T) {
	v := NewValidator()

	long := strings.Repeat("p", 80)
	req := httptest.NewRequest("POST", "/auth/setup-admin", strings.NewReader(`{"email":"admin@x.com","password":"`+long+`"}`))
	w := httptest.NewRecorder()

	var body models.SetupAdminRequest
	if v.DecodeAndValidate(w, req, &body) {
		t.Fatal("Expected an 80-byte password to be rejected")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}
