// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/pkordes/trip-planner/backend/internal/auth"
	"github.com/pkordes/trip-planner/backend/internal/chat"
	"github.com/pkordes/trip-planner/backend/internal/config"
	"github.com/pkordes/trip-planner/backend/internal/handler"
	"github.com/pkordes/trip-planner/backend/internal/middleware"
	"github.com/pkordes/trip-planner/backend/internal/planner"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/service"
	"github.com/pkordes/trip-planner/backend/migrations"
)

const chatLogQueueSize = 256

func main() {
	// --- Config -----------------------------------------------------------
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---------------------------------------------------------
	if cfg.MigrateOnStart {
		if err := migrations.Up(ctx, cfg.DatabaseURL, logger); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// pgxpool.New does not open connections; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Services ---------------------------------------------------------
	plannerClient := planner.New(cfg.PlannerBaseURL, cfg.PlannerTimeout)
	if !plannerClient.Configured() {
		slog.Warn("PLANNER_BASE_URL not set; chat requests will fail with an apology")
	}

	recorder := chat.NewBackgroundRecorder(repo.NewChatLogRepo(pool), chatLogQueueSize, logger)
	recorder.Start(context.WithoutCancel(ctx))

	provider := auth.NewLocalProvider(repo.NewAccountRepo(pool), 0, logger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
	holder := auth.NewHolder(provider, repo.NewProfileRepo(pool), tokens, logger)
	holder.Start()

	trips := service.NewTripService(repo.NewTripRepo(pool), repo.NewItineraryRepo(pool), plannerClient, logger)
	exports := service.NewExportService(trips)
	sessions := chat.NewRegistry(plannerClient, recorder, cfg.ChatSessionTTL, logger)

	limiter := middleware.NewRateLimiter(cfg.ChatRateRPS, cfg.ChatRateBurst)
	defer limiter.Stop()

	// --- Router -----------------------------------------------------------
	srv := handler.NewServer(handler.Deps{
		Auth:       holder,
		Chats:      sessions,
		Trips:      trips,
		Exports:    exports,
		MapsAPIKey: cfg.MapsAPIKey,
		Log:        logger,
	})
	router := handler.NewRouter(srv, handler.RouterConfig{
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
		ChatLimiter:  limiter,
		TrustProxy:   cfg.TrustProxy,
		Log:          logger,
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// Chat sends wait on the planner, so writes get its timeout plus slack;
	// an unbounded planner means unbounded writes.
	var writeTimeout time.Duration
	if cfg.PlannerTimeout > 0 {
		writeTimeout = cfg.PlannerTimeout + 30*time.Second
	}
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	// Give in-flight requests up to 15 seconds, then drain the chat log
	// queue and drop the signed-in users.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	recorder.Close()
	holder.Close()
	slog.Info("server stopped")
}
