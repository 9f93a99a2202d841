package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"zillow-scraper/models"
	"zillow-scraper/utils"
)

// PostgresStore persists scraped properties to PostgreSQL, one row per
// listing URL.
type PostgresStore struct {
	db *sql.DB
}

const migratePropertiesSQL = `
	CREATE TABLE IF NOT EXISTS properties (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		address      TEXT,
		monthly_rent TEXT,
		bedrooms     TEXT,
		bathrooms    TEXT,
		area         TEXT,
		zillow_url   TEXT NOT NULL UNIQUE,
		images       JSONB DEFAULT '[]'::jsonb,
		scraped_at   TIMESTAMPTZ DEFAULT NOW(),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_properties_zillow_url ON properties(zillow_url);
	CREATE INDEX IF NOT EXISTS idx_properties_address    ON properties(address);
	CREATE INDEX IF NOT EXISTS idx_properties_scraped_at ON properties(scraped_at DESC);
`

// upsertPropertySQL rewrites every scraped field in place when the listing
// URL was seen before, so repeat scrapes land on the same row and id.
const upsertPropertySQL = `
	INSERT INTO properties (address, monthly_rent, bedrooms, bathrooms, area, zillow_url, images, scraped_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)
	ON CONFLICT (zillow_url) DO UPDATE SET
		address      = EXCLUDED.address,
		monthly_rent = EXCLUDED.monthly_rent,
		bedrooms     = EXCLUDED.bedrooms,
		bathrooms    = EXCLUDED.bathrooms,
		area         = EXCLUDED.area,
		images       = EXCLUDED.images,
		scraped_at   = EXCLUDED.scraped_at,
		updated_at   = NOW()
	RETURNING id
`

// NewPostgresStore opens a connection to PostgreSQL, waits for it to accept
// pings, runs schema migrations, and returns a ready-to-use store.
func NewPostgresStore(dsn string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	logger.Info("[storage] PostgreSQL ready, properties table migrated")
	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(migratePropertiesSQL)
	return err
}

// Upsert inserts the record keyed on its listing URL, replacing every field
// when the URL was scraped before. Returns the row's UUID.
func (ps *PostgresStore) Upsert(ctx context.Context, record *models.PropertyRecord) (string, error) {
	images, err := encodeImages(record.Images)
	if err != nil {
		return "", fmt.Errorf("postgres: encode images: %w", err)
	}

	var id string
	err = ps.db.QueryRowContext(ctx, upsertPropertySQL,
		nullIfEmpty(record.Address),
		nullIfEmpty(record.MonthlyRent),
		nullIfEmpty(record.Bedrooms),
		nullIfEmpty(record.Bathrooms),
		nullIfEmpty(record.Area),
		record.URL,
		images,
		scrapedAtOrNow(record.ScrapedAt),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("postgres: upsert: %w", err)
	}
	return id, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// encodeImages serializes the gallery as a JSON array. A nil slice still
// encodes as [] so the JSONB column never holds null.
func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// nullIfEmpty maps missing fields to SQL NULL rather than empty strings.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// scrapedAtOrNow parses the record timestamp, falling back to the current
// time when it does not match the expected layout. The layout carries no
// zone and the string is formatted from local time, so it parses back in
// local time to keep the instant.
func scrapedAtOrNow(s string) time.Time {
	if t, err := time.ParseInLocation(models.ScrapedAtLayout, s, time.Local); err == nil {
		return t
	}
	return time.Now()
}
