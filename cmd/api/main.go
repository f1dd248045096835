package main

import (
	"log"
	"time"

	"logistics-tracker/internal/core/cache"
	"logistics-tracker/internal/core/config"
	"logistics-tracker/internal/core/database"
	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/core/server"
	cargaadapter "logistics-tracker/internal/features/cargas/adapters"
	cargahandler "logistics-tracker/internal/features/cargas/handler"
	cargaservice "logistics-tracker/internal/features/cargas/service"
	ingesthandler "logistics-tracker/internal/features/ingest/handler"
	ingestservice "logistics-tracker/internal/features/ingest/service"
	reportadapter "logistics-tracker/internal/features/reports/adapters"
	reporthandler "logistics-tracker/internal/features/reports/handler"
	reportservice "logistics-tracker/internal/features/reports/service"
	shipmentadapter "logistics-tracker/internal/features/shipments/adapters"
	shipmenthandler "logistics-tracker/internal/features/shipments/handler"
	shipmentservice "logistics-tracker/internal/features/shipments/service"
	trackingadapter "logistics-tracker/internal/features/tracking/adapters"
	trackinghandler "logistics-tracker/internal/features/tracking/handler"
	trackingservice "logistics-tracker/internal/features/tracking/service"

	"go.uber.org/zap"
)

// @title Logistics Tracker API
// @version 1.0
// @description Shipment tracking backend: status normalization, SLA alerts, timeline reconstruction and aggregate reports.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		l.Fatal("Postgres connection failed", zap.Error(err))
	}
	defer db.Close()
	l.Info("Postgres connection verified")

	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisCache.Close()
	l.Info("Redis connection verified")

	timelineTTL := time.Duration(cfg.Redis.TimelineCacheTTL) * time.Second

	// Tracking: timeline reconstruction and SLA lookups
	historyRepo := trackingadapter.NewPostgresHistoryRepository(db)
	trackingSvc := trackingservice.NewTrackingService(historyRepo, redisCache, timelineTTL)
	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc)

	// Shipments: listings and admin operations
	shipmentRepo := shipmentadapter.NewPostgresShipmentRepository(db)
	shipmentSvc := shipmentservice.NewShipmentService(shipmentRepo, redisCache)
	shipmentHdl := shipmenthandler.NewShipmentHandler(shipmentSvc)

	// Cargas: consolidated air cargo
	cargaRepo := cargaadapter.NewPostgresCargaRepository(db)
	cargaSvc := cargaservice.NewCargaService(cargaRepo)
	cargaHdl := cargahandler.NewCargaHandler(cargaSvc)

	// Ingest: authenticated pushes from the upstream automation
	ingestSvc := ingestservice.NewIngestService(shipmentRepo, redisCache)
	ingestHdl := ingesthandler.NewIngestHandler(ingestSvc, cfg.Ingest.Token, cfg.Ingest.MaxPayloadBytes)

	// Reports: aggregate dashboards
	reportRepo := reportadapter.NewPostgresReportsRepository(db)
	reportSvc := reportservice.NewReportsService(reportRepo)
	reportHdl := reporthandler.NewReportsHandler(reportSvc)

	srv := server.New(cfg)

	trackingHdl.RegisterRoutes(srv.App)
	shipmentHdl.RegisterRoutes(srv.App)
	cargaHdl.RegisterRoutes(srv.App)
	ingestHdl.RegisterRoutes(srv.App)
	reportHdl.RegisterRoutes(srv.App)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
