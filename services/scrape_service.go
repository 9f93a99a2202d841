package services

import (
	"context"
	"fmt"
	"time"

	"zillow-scraper/config"
	"zillow-scraper/models"
	"zillow-scraper/storage"
	"zillow-scraper/utils"
)

// persistTimeout bounds the database write after a scrape completes.
const persistTimeout = 15 * time.Second

// PropertyScraper is the browser-driving side of the pipeline.
type PropertyScraper interface {
	Scrape(ctx context.Context, url string) (*models.PropertyRecord, error)
}

// Outcome reports one finished scrape and where its record ended up.
// JSON and database outcomes are independent; either can fail without
// failing the request.
type Outcome struct {
	Record        *models.PropertyRecord
	PropertyID    string
	DatabaseSaved bool
	JSONFile      string
}

// Summary flattens the outcome into the response shape.
func (o *Outcome) Summary() models.SaveSummary {
	return models.SaveSummary{
		Address:         o.Record.Address,
		MonthlyRent:     o.Record.MonthlyRent,
		Bedrooms:        o.Record.Bedrooms,
		Bathrooms:       o.Record.Bathrooms,
		Area:            o.Record.Area,
		ImagesCount:     len(o.Record.Images),
		SavedToDatabase: o.DatabaseSaved,
		SavedToJSON:     o.JSONFile,
	}
}

// ScrapeService runs the scrape-then-persist pipeline for one URL at a
// time per session slot. A nil store means JSON-only persistence.
type ScrapeService struct {
	scraper PropertyScraper
	files   storage.RecordWriter
	store   storage.PropertyStore
	gate    *utils.SessionGate
	logger  *utils.Logger
}

// NewScrapeService wires the pipeline together. store may be nil.
func NewScrapeService(scraper PropertyScraper, files storage.RecordWriter, store storage.PropertyStore, cfg *config.Config, logger *utils.Logger) *ScrapeService {
	return &ScrapeService{
		scraper: scraper,
		files:   files,
		store:   store,
		gate:    utils.NewSessionGate(cfg.MaxSessions),
		logger:  logger,
	}
}

// Run scrapes one listing and persists the record. The caller's context
// only governs the wait for a session slot; once a browser session starts
// it runs to completion (or its own timeout) even if the caller goes away.
func (s *ScrapeService) Run(reqCtx context.Context, url string) (*Outcome, error) {
	if err := s.gate.Acquire(reqCtx); err != nil {
		return nil, fmt.Errorf("waiting for a session slot: %w", err)
	}
	defer s.gate.Release()

	record, err := s.scraper.Scrape(context.Background(), url)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Record: record}

	name, err := s.files.Write(record)
	if err != nil {
		s.logger.Error("[service] Could not save JSON artifact: %v", err)
	} else {
		outcome.JSONFile = name
		s.logger.Info("[service] Data saved to %s", name)
	}

	if s.store == nil {
		s.logger.Warn("[service] Database not configured, data only saved to JSON")
		return outcome, nil
	}

	persistCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	id, err := s.store.Upsert(persistCtx, record)
	if err != nil {
		s.logger.Warn("[service] Could not save to database: %v", err)
		return outcome, nil
	}

	outcome.PropertyID = id
	outcome.DatabaseSaved = true
	s.logger.Info("[service] Data saved to database (ID: %s)", id)
	return outcome, nil
}
