package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"civitrack-service/internal/auth"
	"civitrack-service/internal/config"
	"civitrack-service/internal/db"
	httphandler "civitrack-service/internal/http"
	"civitrack-service/internal/http/middleware"
	"civitrack-service/internal/logger"
	"civitrack-service/internal/repository"
	"civitrack-service/internal/review"
	"civitrack-service/internal/scheduler"
	"civitrack-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	var (
		violationRepo repository.ViolationRepository
		appealRepo    repository.AppealRepository
		reportRepo    repository.ReportRepository
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Warn().Msg("using in-memory storage, state is lost on restart")
		violationRepo = repository.NewMemoryViolationRepository()
		appealRepo = repository.NewMemoryAppealRepository()
		reportRepo = repository.NewMemoryReportRepository()
	default:
		database, err := db.New(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.HealthCheck(pingCtx, database); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("database health check failed")
		}
		cancel()
		violationRepo = repository.NewViolationRepository(database)
		appealRepo = repository.NewAppealRepository(database)
		reportRepo = repository.NewReportRepository(database)
	}

	violationService := service.NewViolationService(violationRepo, appealRepo)
	appealService := service.NewAppealService(
		violationRepo,
		appealRepo,
		review.CoinFlipPolicy{},
		review.MirrorPolicy{},
		scheduler.NewTimer(),
		cfg.Review.AutomatedDelay,
		cfg.Review.AuthorityDelay,
		cfg.Files.MaxAttachmentsPerAppeal,
		log,
	)
	reportService := service.NewReportService(reportRepo, violationService)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(violationService, appealService, reportService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting civitrack service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
