package db

import (
	"fmt"
	"log"
)

// Schema statements, applied in order at startup. Each is idempotent so
// repeated boots are safe without a migration-version table.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		name            TEXT PRIMARY KEY,
		url             TEXT NOT NULL,
		kind            TEXT NOT NULL DEFAULT 'file',
		normalized_name TEXT NOT NULL,
		category        TEXT NOT NULL DEFAULT 'Uncategorized',
		source          TEXT NOT NULL DEFAULT 'scraped',
		last_updated    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_normalized_name ON movies (normalized_name)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_category ON movies (category)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_source ON movies (source)`,

	`CREATE TABLE IF NOT EXISTS series (
		id              UUID PRIMARY KEY,
		name            TEXT NOT NULL UNIQUE,
		category        TEXT NOT NULL DEFAULT 'Uncategorized',
		poster_url      TEXT NOT NULL DEFAULT '',
		plot            TEXT NOT NULL DEFAULT '',
		normalized_name TEXT NOT NULL,
		last_updated    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_series_normalized_name ON series (normalized_name)`,
	`CREATE INDEX IF NOT EXISTS idx_series_category ON series (category)`,

	`CREATE TABLE IF NOT EXISTS episodes (
		series_id      UUID NOT NULL REFERENCES series(id) ON DELETE CASCADE,
		season_number  INT NOT NULL,
		episode_number INT NOT NULL,
		url            TEXT NOT NULL,
		episode_name   TEXT,
		PRIMARY KEY (series_id, season_number, episode_number)
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		user_id    TEXT PRIMARY KEY,
		first_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS requests (
		id          BIGSERIAL PRIMARY KEY,
		user_id     TEXT NOT NULL,
		movie_title TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_title ON requests (movie_title)`,
}

func Migrate(db *DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i, err)
		}
	}
	log.Printf("db: schema up to date (%d statements)", len(schema))
	return nil
}
