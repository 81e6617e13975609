// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms).

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Any origin is allowed. OPTIONS preflights get an empty 200 without reaching
the mux.

# Sessions

Authenticator checks bearer tokens and, for admin routes, the admin role:

	authn := middleware.NewAuthenticator(tokens, registrationService)
	mux.HandleFunc("GET /polls/today", middleware.WithLogging(authn.RequireUser(h.Today)))
	mux.HandleFunc("GET /admin/polls", middleware.WithLogging(authn.RequireAdmin(h.List)))

Handlers read the caller with SessionFromContext.

# Rate Limiting

RateLimiter keeps a token bucket per client IP (golang.org/x/time/rate):

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPM)
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(limiter.Limit(h.Login)))

A nil limiter (RATE_LIMIT_RPM <= 0) passes every request through.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message") // {"error": "message"}
	middleware.Success(w)                                        // {"success": true}

# Validation

Validator wraps go-playground/validator with English messages and the
polldate (YYYY-MM-DD) and clock (HH:MM) tags:

	var req models.CreatePollRequest
	if !h.validate.DecodeAndValidate(w, r, &req) {
		return // 400 already written
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, then X-Real-IP, then RemoteAddr. Used as the rate
limiting key.
*/
package middleware
