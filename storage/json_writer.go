package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zillow-scraper/models"
)

// artifactLayout timestamps output filenames so repeat scrapes never
// overwrite each other.
const artifactLayout = "20060102_150405"

// JSONWriter writes each scraped property to its own timestamped JSON file.
type JSONWriter struct {
	dir string
}

// NewJSONWriter ensures the output directory exists and returns a writer
// rooted there.
func NewJSONWriter(dir string) (*JSONWriter, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("json: create output dir %q: %w", dir, err)
	}
	return &JSONWriter{dir: dir}, nil
}

// Write serializes the record to scraped_property_<timestamp>.json and
// returns the bare filename.
func (w *JSONWriter) Write(record *models.PropertyRecord) (string, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("json: marshal record: %w", err)
	}

	name := fmt.Sprintf("scraped_property_%s.json", time.Now().Format(artifactLayout))
	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("json: write %q: %w", name, err)
	}
	return name, nil
}
