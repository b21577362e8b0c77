package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/medishare/donation-gateway/internal/api"
	"github.com/medishare/donation-gateway/internal/api/metrics"
	"github.com/medishare/donation-gateway/internal/core/ports"
	"github.com/medishare/donation-gateway/internal/core/service"
	"github.com/medishare/donation-gateway/internal/infrastructure/credential"
	mongodb "github.com/medishare/donation-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/medishare/donation-gateway/internal/infrastructure/db/redis"
	"github.com/medishare/donation-gateway/internal/infrastructure/queue"
	"github.com/medishare/donation-gateway/internal/pkg/config"
	"github.com/medishare/donation-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(rootCtx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(rootCtx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	medicineRepo := mongodb.NewMedicineRepository(db)
	sessionRepo := redisdb.NewSessionRepository(rdb, cfg.SessionTTL)

	if err := userRepo.EnsureIndexes(rootCtx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}
	if err := medicineRepo.EnsureIndexes(rootCtx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure medicine indexes")
	}

	// --- Credential backend ---
	var credentials ports.CredentialService
	if cfg.CredentialMode == config.CredentialModeRemote && cfg.CredentialURL != "" {
		credentials = credential.NewClient(cfg.CredentialURL, cfg.CredentialTimeout, log)
		log.Info().Str("url", cfg.CredentialURL).Msg("using remote credential service")
	} else {
		credentials = service.NewAuthService(userRepo, cfg.JWTSecret, cfg.SessionTTL)
		log.Info().Msg("using built-in credential service")
	}

	// --- Notifications ---
	notifier := queue.NewDispatcher(cfg.NotifierWorkers, queue.NewLogSink(log), log)
	notifier.Start(rootCtx)

	// --- Sessions, workflow, router ---
	manager := service.NewSessionManager(credentials, sessionRepo, notifier, log)
	manager.OnRehydrate(func(outcome service.RehydrationOutcome) {
		metrics.SessionsRehydratedTotal.WithLabelValues(string(outcome)).Inc()
	})
	medicines := service.NewMedicineService(medicineRepo, log)

	e := api.NewRouter(api.Deps{
		Mongo:    db,
		Redis:    rdb,
		Manager:  manager,
		Sessions: sessionRepo,
		Medicine: medicines,
		Log:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("donation gateway listening")

	<-rootCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		log.Info().Msg("graceful shutdown completed")
	}
}
