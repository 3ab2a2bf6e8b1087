package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Default category keywords, in priority order. The first keyword found in a
// decoded root URL wins, so more specific entries must come first.
var defaultCategories = []string{
	"Bollywood",
	"Chinese",
	"Hollywood",
	"Hindi dubbed",
	"Tamil",
	"animation",
	"indianbangla",
	"tvseries",
	"Korean",
}

var defaultVideoExtensions = []string{
	".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".mpeg", ".mpg",
}

type Config struct {
	Port        int
	DatabaseURL string
	RedisAddr   string

	// Crawl side.
	CrawlRoots       []string
	CategoryKeywords []string
	VideoExtensions  map[string]bool
	MaxRetries       int
	CrawlConcurrency int
	RequestTimeout   time.Duration

	// Resolver and shortener. Both are optional: with no OMDb keys metadata
	// resolution reports not-found, with no shortener key links pass through.
	OMDbAPIKeys     []string
	ShortenerAPIKey string
	MetadataTimeout time.Duration

	// Presentation.
	PageSize    int
	OperatorIDs []string

	// Cron spec for the scheduled catalog refresh; empty disables it.
	RefreshSchedule string
}

func Load() *Config {
	exts := envList("VIDEO_EXTENSIONS", defaultVideoExtensions)
	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = true
	}

	return &Config{
		Port:        envInt("PORT", 8080),
		DatabaseURL: env("DATABASE_URL", ""),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),

		CrawlRoots:       envList("CRAWL_ROOTS", nil),
		CategoryKeywords: envList("CATEGORY_KEYWORDS", defaultCategories),
		VideoExtensions:  extSet,
		MaxRetries:       envInt("MAX_RETRIES", 3),
		CrawlConcurrency: envInt("CRAWL_CONCURRENCY", 8),
		RequestTimeout:   envDuration("REQUEST_TIMEOUT", 20*time.Second),

		OMDbAPIKeys:     envList("OMDB_API_KEYS", nil),
		ShortenerAPIKey: env("SHRINKME_API_KEY", ""),
		MetadataTimeout: envDuration("METADATA_REQUEST_TIMEOUT", 30*time.Second),

		PageSize:    envInt("FILES_PER_PAGE", 10),
		OperatorIDs: envList("OPERATOR_IDS", nil),

		RefreshSchedule: env("REFRESH_SCHEDULE", "0 4 * * *"),
	}
}

// IsOperator reports whether id is in the configured operator list.
func (c *Config) IsOperator(id string) bool {
	for _, op := range c.OperatorIDs {
		if op == id {
			return true
		}
	}
	return false
}

func (c *Config) MetadataEnabled() bool {
	return len(c.OMDbAPIKeys) > 0
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		// Plain integers are taken as seconds.
		if i, err := strconv.Atoi(v); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}

// envList splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
