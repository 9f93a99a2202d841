package storage

import (
	"context"

	"zillow-scraper/models"
)

// PropertyStore is the interface any database backend must satisfy.
type PropertyStore interface {
	Upsert(ctx context.Context, record *models.PropertyRecord) (string, error)
	Close() error
}

// RecordWriter is the interface for persisting scrape artifacts to disk.
type RecordWriter interface {
	Write(record *models.PropertyRecord) (string, error)
}
