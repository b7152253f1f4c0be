package main

import (
	"aria/aria/agents/core"
	"aria/aria/config"
	"aria/aria/controllers"
	"aria/aria/routes"
	"aria/aria/services/llm"
	"aria/aria/sources/psql"
	"aria/aria/sources/psql/dao"
	"aria/aria/sources/storage"
	"aria/aria/utils/logging"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	rates, err := config.LoadRates(cfg.RatesFile)
	if err != nil {
		logging.AppLogger.Warn("rates file unreadable, using defaults", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	store := dao.NewStore(db.DB)

	var summarizer core.Summarizer
	if cfg.SummarizerAPIKey != "" {
		client := llm.NewCerebrasClient(cfg.SummarizerBaseURL, cfg.SummarizerAPIKey)
		summarizer = llm.NewSummarizer(client, cfg.SummarizerModel)
	}

	// The transcript archive is best-effort end to end: a missing MinIO
	// just means sessions run without archival.
	var archive core.TranscriptArchive
	if cfg.MinIOAccessKey != "" {
		minioClient, err := storage.NewMinIOClient(cfg)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
		} else {
			archive = minioClient
		}
	}

	healthCtrl := controllers.NewHealthController()
	authCtrl := controllers.NewAuthController(cfg)
	sessionCtrl := controllers.NewSessionController(store, rates, summarizer, archive)
	recordsCtrl := controllers.NewRecordsController(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/sessions", routes.SessionRoutes(sessionCtrl))
	r.Mount("/records", routes.RecordsRoutes(recordsCtrl, cfg))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
