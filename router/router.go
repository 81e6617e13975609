// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/daily-poll/auth"
	"github.com/danielhkuo/daily-poll/cliparse"
	"github.com/danielhkuo/daily-poll/handlers"
	"github.com/danielhkuo/daily-poll/middleware"
	"github.com/danielhkuo/daily-poll/registration"
	"github.com/danielhkuo/daily-poll/results"
	"github.com/danielhkuo/daily-poll/rolecache"
	"github.com/danielhkuo/daily-poll/store"
	"github.com/danielhkuo/daily-poll/voting"
)

func NewRouter(st *store.Store, cfg cliparse.Config, roles rolecache.Cache) http.Handler {
	mux := http.NewServeMux()

	// Services
	tokens := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)
	reg := registration.NewService(st, tokens, roles)
	validate := middleware.NewValidator()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(reg, validate)
	pollHandler := handlers.NewPollHandler(st, validate)
	votingHandler := handlers.NewVotingHandler(voting.NewService(st, cfg.Location), validate)
	resultsHandler := handlers.NewResultsHandler(results.NewService(st))
	directoryHandler := handlers.NewDirectoryHandler(st, validate)

	authn := middleware.NewAuthenticator(tokens, reg)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPM)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := st.DB().PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Sign-in (public, rate limited)
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(limiter.Limit(authHandler.Register)))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(limiter.Limit(authHandler.Login)))
	mux.HandleFunc("POST /auth/setup-admin", middleware.WithLogging(limiter.Limit(authHandler.SetupAdmin)))
	mux.HandleFunc("GET /auth/me", middleware.WithLogging(authn.RequireUser(authHandler.Me)))

	// Voting (signed-in users)
	mux.HandleFunc("GET /polls/today", middleware.WithLogging(authn.RequireUser(votingHandler.Today)))
	mux.HandleFunc("POST /polls/today/vote", middleware.WithLogging(authn.RequireUser(votingHandler.Vote)))

	// Poll management (admin)
	mux.HandleFunc("GET /admin/polls", middleware.WithLogging(authn.RequireAdmin(pollHandler.ListPolls)))
	mux.HandleFunc("POST /admin/polls", middleware.WithLogging(authn.RequireAdmin(pollHandler.CreatePoll)))
	mux.HandleFunc("GET /admin/polls/{id}", middleware.WithLogging(authn.RequireAdmin(pollHandler.GetPoll)))
	mux.HandleFunc("PUT /admin/polls/{id}", middleware.WithLogging(authn.RequireAdmin(pollHandler.UpdatePoll)))
	mux.HandleFunc("DELETE /admin/polls/{id}", middleware.WithLogging(authn.RequireAdmin(pollHandler.DeletePoll)))
	mux.HandleFunc("POST /admin/polls/{id}/toggle", middleware.WithLogging(authn.RequireAdmin(pollHandler.TogglePoll)))

	// Results and exports (admin)
	mux.HandleFunc("GET /admin/polls/{id}/results", middleware.WithLogging(authn.RequireAdmin(resultsHandler.GetResults)))
	mux.HandleFunc("GET /admin/polls/{id}/export/voted", middleware.WithLogging(authn.RequireAdmin(resultsHandler.ExportVoted)))
	mux.HandleFunc("GET /admin/polls/{id}/export/not-voted", middleware.WithLogging(authn.RequireAdmin(resultsHandler.ExportNotVoted)))

	// Directory (admin)
	mux.HandleFunc("GET /admin/directory", middleware.WithLogging(authn.RequireAdmin(directoryHandler.ListDirectory)))
	mux.HandleFunc("POST /admin/directory", middleware.WithLogging(authn.RequireAdmin(directoryHandler.AddEntry)))
	mux.HandleFunc("POST /admin/directory/import", middleware.WithLogging(authn.RequireAdmin(directoryHandler.Import)))
	mux.HandleFunc("DELETE /admin/directory/{id}", middleware.WithLogging(authn.RequireAdmin(directoryHandler.DeleteEntry)))
	mux.HandleFunc("POST /admin/directory/{id}/visibility", middleware.WithLogging(authn.RequireAdmin(directoryHandler.SetVisibility)))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("daily-poll API v1"))
	})

	return middleware.CORS(mux)
}
