package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zillow-scraper/models"
)

func TestJSONWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewJSONWriter(dir)
	if err != nil {
		t.Fatalf("NewJSONWriter: %v", err)
	}

	record := &models.PropertyRecord{
		Address:     "9255 Swallow Dr, Los Angeles, CA 90069",
		MonthlyRent: "4,500",
		Bedrooms:    "3",
		Bathrooms:   "2.5",
		Area:        "1,800 sqft",
		Images:      []string{"https://photos.zillowstatic.com/fp/a-cc_ft_1536.jpg"},
		URL:         "https://www.zillow.com/homedetails/9255-Swallow-Dr-Los-Angeles-CA-90069/20799705_zpid/",
		ScrapedAt:   "2026-08-25 10:30:00",
	}

	name, err := w.Write(record)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(name, "scraped_property_") || !strings.HasSuffix(name, ".json") {
		t.Errorf("unexpected artifact name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var got models.PropertyRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Address != record.Address || got.MonthlyRent != record.MonthlyRent {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if len(got.Images) != 1 {
		t.Errorf("Images = %v; want 1 entry", got.Images)
	}
}

func TestJSONWriterEmptyImagesStaysArray(t *testing.T) {
	dir := t.TempDir()
	w, err := NewJSONWriter(dir)
	if err != nil {
		t.Fatalf("NewJSONWriter: %v", err)
	}

	record := &models.PropertyRecord{
		URL:       "https://www.zillow.com/homedetails/1_zpid/",
		Images:    []string{},
		ScrapedAt: "2026-08-25 10:30:00",
	}

	name, err := w.Write(record)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"images": []`) {
		t.Errorf("empty gallery should serialize as an array, got:\n%s", data)
	}
}
