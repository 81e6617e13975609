package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/daily-poll/auth"
	"github.com/danielhkuo/daily-poll/cliparse"
	"github.com/danielhkuo/daily-poll/db"
	"github.com/danielhkuo/daily-poll/registration"
	"github.com/danielhkuo/daily-poll/rolecache"
	"github.com/danielhkuo/daily-poll/router"
	"github.com/danielhkuo/daily-poll/store"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	driver, _ := db.DriverName(cfg.DatabaseType)
	st := store.New(dbConn, driver)

	// Role cache: Redis when configured, otherwise in-process
	var roles rolecache.Cache = rolecache.NewMemory(cfg.RoleCacheTTL)
	if cfg.RedisAddr != "" {
		client, err := rolecache.Dial(context.Background(), cfg.RedisAddr)
		if err != nil {
			slog.Error("redis connection failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		roles = rolecache.NewRedis(client, cfg.RoleCacheTTL)
		slog.Info("Role cache using redis", "addr", cfg.RedisAddr)
	}

	// Optional admin bootstrap
	if cfg.AdminEmail != "" {
		reg := registration.NewService(st, auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL), roles)
		err := reg.SetupAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword)
		switch {
		case err == nil:
		case errors.Is(err, registration.ErrAdminExists):
			slog.Info("Admin already exists, skipping bootstrap")
		default:
			slog.Error("admin bootstrap failed", "error", err)
			os.Exit(1)
		}
	}

	// Create router
	handler := router.NewRouter(st, cfg, roles)

	// Create server
	server := http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal, then drain in-flight requests
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "timezone", cfg.Timezone)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
