package main

import (
	"log"
	"os"

	"github.com/sigfinder/sigfinder-go/internal/api"
	"github.com/sigfinder/sigfinder-go/internal/config"
	"github.com/sigfinder/sigfinder-go/internal/database"
	"github.com/sigfinder/sigfinder-go/internal/metrics"
	"github.com/sigfinder/sigfinder-go/internal/repository"
	"github.com/sigfinder/sigfinder-go/internal/service"
	websock "github.com/sigfinder/sigfinder-go/internal/websocket"
)

func main() {
	cfg := config.Load()

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		log.Fatal("Failed to create log directory:", err)
	}

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		log.Fatal("Failed to register metrics:", err)
	}

	hub := websock.NewHub()
	go hub.Run()

	markerRepo := repository.NewMarkerRepository(db)
	datasetRepo := repository.NewDatasetRepository(db)

	datasets := service.NewDatasetService(datasetRepo, collector)
	if n, err := datasets.Restore(); err != nil {
		log.Printf("dataset catalog restore failed: %v", err)
	} else if n > 0 {
		log.Printf("restored %d dataset catalog entries (samples need re-import)", n)
	}
	live, err := service.NewLiveService(cfg.TriggerThresholdDbm, cfg.LogDir, markerRepo, hub, collector)
	if err != nil {
		log.Fatal("Invalid trigger configuration:", err)
	}
	analysis := service.NewAnalysisService(cfg.MinRSSIDbm, datasets, live, hub, collector)

	router := api.SetupRouter(api.Deps{
		Config:    cfg,
		Datasets:  datasets,
		Live:      live,
		Analysis:  analysis,
		Hub:       hub,
		Collector: collector,
	})

	log.Printf("Server starting on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
