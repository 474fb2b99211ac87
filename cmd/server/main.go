// Command server runs the civic issue reporting portal API.
//
// @title        Civic Portal API
// @version      1.0
// @description  Session-authenticated API for reporting and tracking civic issues.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/civicreport/civic-portal/internal/api"
	"github.com/civicreport/civic-portal/internal/core/service"
	"github.com/civicreport/civic-portal/internal/infrastructure/config"
	mongodb "github.com/civicreport/civic-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/civicreport/civic-portal/internal/infrastructure/db/redis"
	"github.com/civicreport/civic-portal/internal/infrastructure/queue"
	"github.com/civicreport/civic-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "civic-portal"})
		bootLog.Fatal().Err(err).Msg("configuration error")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "civic-portal",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	issueRepo := mongodb.NewIssueRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb, cfg.SessionTTL)

	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		issueRepo.EnsureIndexes,
		eventRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// --- Services ---
	auditService := service.NewAuditService(eventRepo, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	credentialService := service.NewCredentialService(
		userRepo, sessionStore, cfg.TokenSecret, cfg.SessionTTL, log)
	issueService := service.NewIssueService(issueRepo, dispatcher, log)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Credentials: credentialService,
		Issues:      issueService,
		Events:      eventRepo,
		Mongo:       db,
		Redis:       rdb,
		Logger:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
