package models

// ScrapedAtLayout is the timestamp layout recorded on every property.
const ScrapedAtLayout = "2006-01-02 15:04:05"

// PropertyRecord is the assembled result of scraping one listing page.
// Every field except URL and ScrapedAt is optional; a record with gaps is
// still a successful scrape. Records are built once per request and not
// mutated after assembly.
type PropertyRecord struct {
	Address     string   `json:"address,omitempty"`
	MonthlyRent string   `json:"monthly_rent,omitempty"`
	Bedrooms    string   `json:"bedrooms,omitempty"`
	Bathrooms   string   `json:"bathrooms,omitempty"`
	Area        string   `json:"area,omitempty"`
	Images      []string `json:"images"`
	URL         string   `json:"url"`
	ScrapedAt   string   `json:"scraped_at"`
}

// ScrapeRequest is the body accepted by POST /scrape.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// SaveSummary reports the extracted field values alongside the outcome of
// each persistence target. Database and JSON outcomes are independent.
type SaveSummary struct {
	Address         string `json:"address,omitempty"`
	MonthlyRent     string `json:"monthly_rent,omitempty"`
	Bedrooms        string `json:"bedrooms,omitempty"`
	Bathrooms       string `json:"bathrooms,omitempty"`
	Area            string `json:"area,omitempty"`
	ImagesCount     int    `json:"images_count"`
	SavedToDatabase bool   `json:"saved_to_database"`
	SavedToJSON     string `json:"saved_to_json,omitempty"`
}

// ScrapeResponse is the success body returned by POST /scrape.
type ScrapeResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	PropertyID string      `json:"property_id,omitempty"`
	ZillowURL  string      `json:"zillow_url"`
	ItemsSaved SaveSummary `json:"items_saved"`
}

// ErrorResponse is the error body shape for 4xx/5xx replies.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ServiceInfo is returned by GET / and lists the available endpoints.
type ServiceInfo struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
