package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"avgspeed/internal/api"
	"avgspeed/internal/config"
	"avgspeed/internal/logging"
	"avgspeed/internal/postgres"
	"avgspeed/internal/redis"
	"avgspeed/internal/service/catalog"
	"avgspeed/internal/service/report"
	"avgspeed/internal/service/storage"
	"avgspeed/internal/worker"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := loadConfiguration()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logCloser := setupLogging(cfg)
	defer logCloser.Close()

	store, err := openReportStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s report store: %v", cfg.StoreBackend, err)
	}
	defer closeStore(store)

	seed, err := catalog.Load(cfg.CatalogFile, cfg.DefaultGeofenceRadius)
	if err != nil {
		log.Fatalf("Failed to load camera catalog: %v", err)
	}
	seed.LogSummary()

	reports := report.NewReportService(store, cfg.ClearConfirmToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker.StartAllWorkers(ctx, reports, cfg.StatsInterval)

	runAPIServer(ctx, cfg, api.Dependencies{
		Catalog:        seed,
		Reports:        reports,
		AllowedOrigins: cfg.AllowedOrigins(),
		DefaultLimit:   cfg.DefaultQueryLimit,
	})
}

func loadConfiguration() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}
	log.Printf("Configuration loaded: backend=%s port=%s", cfg.StoreBackend, cfg.Port)
	return cfg, nil
}

func setupLogging(cfg config.Config) io.Closer {
	closer := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if cfg.LogFile != "" {
		log.Printf("Logging to terminal and %s", cfg.LogFile)
	}
	return closer
}

func openReportStore(cfg config.Config) (storage.ReportStore, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		log.Printf("Storing reports in %s", cfg.ReportsFile)
		return storage.NewFileReportStore(cfg.ReportsFile), nil
	case config.BackendMemory:
		log.Println("Storing reports in memory, they will not survive a restart")
		return storage.NewMemoryReportStore(), nil
	case config.BackendRedis:
		client, err := redis.Connect(cfg.RedisUrl)
		if err != nil {
			return nil, err
		}
		return redis.NewReportStore(client, cfg.RedisReportsKey), nil
	case config.BackendPostgres:
		db, err := postgres.Open(cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		return postgres.NewReportStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func closeStore(store storage.ReportStore) {
	if err := store.Close(); err != nil {
		log.Errorf("Error closing report store: %v", err)
		return
	}
	log.Println("Report store closed")
}

func runAPIServer(ctx context.Context, cfg config.Config, deps api.Dependencies) {
	gin.SetMode(gin.ReleaseMode)
	r := api.NewRouter(deps)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Avg-speed mock backend listening on %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}
