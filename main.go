package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zillow-scraper/config"
	"zillow-scraper/scraper/zillow"
	"zillow-scraper/server"
	"zillow-scraper/services"
	"zillow-scraper/storage"
	"zillow-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Zillow Scraper Service starting ===")
	logger.Info("Config: port %d | headless %v | scrape timeout %s | max sessions %d",
		cfg.Port, cfg.Headless, cfg.ScrapeTimeout, cfg.MaxSessions)

	files, err := storage.NewJSONWriter(cfg.OutputDir)
	if err != nil {
		logger.Error("Failed to prepare output directory: %v", err)
		os.Exit(1)
	}

	var store storage.PropertyStore
	if cfg.DatabaseEnabled() {
		pg, err := storage.NewPostgresStore(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Warn("Continuing with JSON-only persistence")
		} else {
			store = pg
			defer pg.Close()
			logger.Info("Connected to PostgreSQL")
		}
	} else {
		logger.Warn("DATABASE_URL not set, records will be saved to JSON only")
	}

	zillowScraper := zillow.New(cfg, logger)
	svc := services.NewScrapeService(zillowScraper, files, store, cfg, logger)
	srv := server.New(svc, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
	logger.Info("Server stopped")
}
