package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// defaultUserAgent is the fixed desktop identity presented to the target site.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port        int
	DatabaseURL string
	OutputDir   string

	ChromeBin     string
	Headless      bool
	UserAgent     string
	WindowWidth   int
	WindowHeight  int
	ScrapeTimeout time.Duration
	MaxSessions   int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Port:        getEnvInt("PORT", 8000),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		OutputDir:   getEnv("OUTPUT_DIR", "."),

		ChromeBin:     getEnv("CHROME_BIN", ""),
		Headless:      getEnvBool("HEADLESS", true),
		UserAgent:     getEnv("USER_AGENT", defaultUserAgent),
		WindowWidth:   getEnvInt("WINDOW_WIDTH", 1920),
		WindowHeight:  getEnvInt("WINDOW_HEIGHT", 1080),
		ScrapeTimeout: time.Duration(getEnvInt("SCRAPE_TIMEOUT_SEC", 120)) * time.Second,
		MaxSessions:   getEnvInt("MAX_SESSIONS", 2),
	}
}

// DatabaseEnabled reports whether a relational store was configured. An
// empty DATABASE_URL degrades persistence to JSON files only.
func (c *Config) DatabaseEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
