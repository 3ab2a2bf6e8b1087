package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemKind distinguishes a direct file link from a directory that has to be
// crawled for files on demand.
type ItemKind string

const (
	KindFile      ItemKind = "file"
	KindDirectory ItemKind = "directory"
)

// ItemSource records how a catalog row came to exist. Scraped rows are
// replaced wholesale on every refresh; manual rows are never touched by it.
type ItemSource string

const (
	SourceScraped ItemSource = "scraped"
	SourceManual  ItemSource = "manual"
)

// Movie is a single catalog entry. Name is the conflict key for upserts.
type Movie struct {
	Name           string     `json:"name"`
	URL            string     `json:"url"`
	Kind           ItemKind   `json:"kind"`
	NormalizedName string     `json:"normalized_name"`
	Category       string     `json:"category"`
	Source         ItemSource `json:"source"`
	LastUpdated    time.Time  `json:"last_updated"`
}

// Candidate is a crawler-discovered entry that has not yet been reconciled
// into the catalog.
type Candidate struct {
	Name           string
	URL            string
	Kind           ItemKind
	NormalizedName string
	Category       string
}

// Series is an operator-curated show with its own episode list. Refresh
// never purges series rows.
type Series struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	PosterURL      string    `json:"poster_url"`
	Plot           string    `json:"plot"`
	NormalizedName string    `json:"normalized_name"`
	LastUpdated    time.Time `json:"last_updated"`
}

// Episode belongs to a Series; unique on (SeriesID, Season, Episode).
type Episode struct {
	SeriesID uuid.UUID `json:"series_id"`
	Season   int       `json:"season"`
	Episode  int       `json:"episode"`
	URL      string    `json:"url"`
	Name     string    `json:"name,omitempty"`
}

// Request is an append-only record of a title a user asked for.
type Request struct {
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestCount is a grouped view over requests, most requested first.
type RequestCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// FileLink is a downloadable file discovered under a catalog entry, with a
// human-readable size from a HEAD probe.
type FileLink struct {
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
	Size        string `json:"size"`
}

// RefreshResult summarizes one catalog refresh cycle.
type RefreshResult struct {
	Candidates  int           `json:"candidates"`
	RootsFailed int           `json:"roots_failed"`
	ItemsStored int           `json:"items_stored"`
	Duration    time.Duration `json:"duration"`
}
