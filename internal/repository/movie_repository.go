package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Ansarikaif/movie/internal/models"
)

// SearchRow is the slim projection the search index works over.
type SearchRow struct {
	Name           string
	NormalizedName string
	Category       string
}

type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Refresh replaces the scraped portion of the catalog with a freshly crawled
// candidate set, inside one transaction so readers never observe a
// half-cleared catalog. Duplicate names within the batch resolve
// last-write-wins; manual rows are untouched. Returns the number of rows
// written.
func (r *MovieRepository) Refresh(candidates []models.Candidate) (int, error) {
	deduped := DedupeByName(candidates)

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin refresh: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM movies WHERE source=$1`, models.SourceScraped); err != nil {
		return 0, fmt.Errorf("clear scraped movies: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO movies (name, url, kind, normalized_name, category, source, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (name) DO UPDATE SET
			url=EXCLUDED.url, kind=EXCLUDED.kind, normalized_name=EXCLUDED.normalized_name,
			category=EXCLUDED.category, source=EXCLUDED.source, last_updated=NOW()`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range deduped {
		if _, err := stmt.Exec(c.Name, c.URL, c.Kind, c.NormalizedName, c.Category, models.SourceScraped); err != nil {
			return 0, fmt.Errorf("upsert %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit refresh: %w", err)
	}
	return len(deduped), nil
}

// DedupeByName collapses duplicate candidate names, keeping the last
// occurrence, while preserving first-seen order.
func DedupeByName(candidates []models.Candidate) []models.Candidate {
	index := make(map[string]int, len(candidates))
	var out []models.Candidate
	for _, c := range candidates {
		if i, seen := index[c.Name]; seen {
			out[i] = c
			continue
		}
		index[c.Name] = len(out)
		out = append(out, c)
	}
	return out
}

// Add upserts a single movie, used for manual operator entries.
func (r *MovieRepository) Add(m *models.Movie) error {
	_, err := r.db.Exec(`
		INSERT INTO movies (name, url, kind, normalized_name, category, source, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (name) DO UPDATE SET
			url=EXCLUDED.url, kind=EXCLUDED.kind, normalized_name=EXCLUDED.normalized_name,
			category=EXCLUDED.category, source=EXCLUDED.source, last_updated=NOW()`,
		m.Name, m.URL, m.Kind, m.NormalizedName, m.Category, m.Source)
	return err
}

// GetByName returns the movie with the exact name, or nil when absent.
func (r *MovieRepository) GetByName(name string) (*models.Movie, error) {
	return r.getOne(`
		SELECT name, url, kind, normalized_name, category, source, last_updated
		FROM movies WHERE name=$1`, name)
}

// GetByNormalizedName returns any movie with the given normalized key, or
// nil when absent.
func (r *MovieRepository) GetByNormalizedName(key string) (*models.Movie, error) {
	return r.getOne(`
		SELECT name, url, kind, normalized_name, category, source, last_updated
		FROM movies WHERE normalized_name=$1 LIMIT 1`, key)
}

func (r *MovieRepository) getOne(query string, arg interface{}) (*models.Movie, error) {
	m := &models.Movie{}
	err := r.db.QueryRow(query, arg).Scan(
		&m.Name, &m.URL, &m.Kind, &m.NormalizedName, &m.Category, &m.Source, &m.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// SearchByWords returns rows whose normalized name contains every query word
// as a substring. This is a broad prefilter; exact whole-word matching is
// applied by the search package on top of it.
func (r *MovieRepository) SearchByWords(words []string, limit int) ([]SearchRow, error) {
	return searchByWords(r.db, "movies", words, limit)
}

func searchByWords(db *sql.DB, table string, words []string, limit int) ([]SearchRow, error) {
	if len(words) == 0 {
		return nil, nil
	}
	conds := make([]string, len(words))
	args := make([]interface{}, 0, len(words)+1)
	for i, w := range words {
		conds[i] = fmt.Sprintf("normalized_name ILIKE $%d", i+1)
		args = append(args, "%"+w+"%")
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT name, normalized_name, category FROM %s WHERE %s LIMIT $%d`,
		table, strings.Join(conds, " AND "), len(words)+1)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SearchRow
	for rows.Next() {
		var row SearchRow
		if err := rows.Scan(&row.Name, &row.NormalizedName, &row.Category); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *MovieRepository) CountByCategory(category string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM movies WHERE category=$1`, category).Scan(&count)
	return count, err
}

func (r *MovieRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM movies`).Scan(&count)
	return count, err
}
