package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heart-inference-service/internal/adapters/primary/http/handlers"
	"heart-inference-service/internal/adapters/primary/http/middleware"
	"heart-inference-service/internal/adapters/secondary/fsstore"
	"heart-inference-service/internal/adapters/secondary/postgres"
	"heart-inference-service/internal/config"
	"heart-inference-service/internal/core/services"
	"heart-inference-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Secondary Adapters (Output Ports)
	store := fsstore.New(cfg.Artifacts.Dir, cfg.Artifacts.ModelName)

	// Prediction Audit Log (Optional - based on config)
	var auditor *services.AuditService
	if cfg.Audit.Enabled {
		poolCfg, err := pgxpool.ParseConfig(cfg.Audit.Database.DSN())
		if err != nil {
			log.Fatalf("parse db config: %v", err)
		}
		poolCfg.MaxConns = int32(cfg.Audit.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Audit.Database.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.Audit.Database.ConnMaxLifetime

		pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
		if err != nil {
			log.Fatalf("create db pool: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			log.Fatalf("ping db: %v", err)
		}
		auditor = services.NewAuditService(postgres.NewPredictionLogRepository(pool), cfg.Audit.Timeout)
		log.Info("prediction audit log enabled")
	} else {
		log.Info("prediction audit log disabled")
	}

	// Metrics (Optional - based on config)
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		log.Info("prometheus metrics enabled")
	} else {
		log.Info("prometheus metrics disabled")
	}

	// Core Services (Application Layer)
	engine := services.NewInferenceEngine(store)

	// Load bundle on startup. The server still starts when no bundle is
	// available; /health reports unhealthy until a reload succeeds.
	if _, err := engine.Load(context.Background()); err != nil {
		log.WithError(err).Warn("startup bundle load failed, serving without a model")
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(engine, auditor, m)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	h.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
