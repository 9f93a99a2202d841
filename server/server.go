package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"zillow-scraper/models"
	"zillow-scraper/services"
	"zillow-scraper/utils"
)

const (
	serviceName    = "Zillow Property Scraper API"
	serviceVersion = "1.0.0"

	// targetDomain gates requests before any browser work starts.
	targetDomain = "zillow.com"
)

// ScrapeRunner is what the HTTP layer needs from the service layer.
type ScrapeRunner interface {
	Run(ctx context.Context, url string) (*services.Outcome, error)
}

// Server exposes the scraper over HTTP.
type Server struct {
	svc    ScrapeRunner
	logger *utils.Logger
}

// New creates a Server around the given service.
func New(svc ScrapeRunner, logger *utils.Logger) *Server {
	return &Server{svc: svc, logger: logger}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/scrape", s.handleScrape).Methods(http.MethodPost)
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, models.ServiceInfo{
		Name:    serviceName,
		Version: serviceVersion,
		Endpoints: map[string]string{
			"POST /scrape": "Scrape a Zillow property by URL",
			"GET /health":  "Health check endpoint",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// handleScrape validates the URL, runs the pipeline, and reports where the
// record was saved. Validation happens before any session slot is taken.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !strings.Contains(req.URL, targetDomain) {
		s.writeError(w, http.StatusBadRequest, "URL must be a valid Zillow property URL")
		return
	}

	s.logger.Info("[server] Scrape requested: %s", req.URL)

	outcome, err := s.svc.Run(r.Context(), req.URL)
	if err != nil {
		s.logger.Error("[server] Scrape failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Scraping failed: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, models.ScrapeResponse{
		Status:     "success",
		Message:    "Property scraped and saved successfully",
		PropertyID: outcome.PropertyID,
		ZillowURL:  outcome.Record.URL,
		ItemsSaved: outcome.Summary(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("[server] Encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, models.ErrorResponse{Detail: detail})
}
