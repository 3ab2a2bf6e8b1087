package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/Ansarikaif/movie/internal/models"
)

type SeriesRepository struct {
	db *sql.DB
}

func NewSeriesRepository(db *sql.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

func (r *SeriesRepository) Create(s *models.Series) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.db.QueryRow(`
		INSERT INTO series (id, name, category, poster_url, plot, normalized_name, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING last_updated`,
		s.ID, s.Name, s.Category, s.PosterURL, s.Plot, s.NormalizedName,
	).Scan(&s.LastUpdated)
}

// GetByName returns the series with the exact name, or nil when absent.
func (r *SeriesRepository) GetByName(name string) (*models.Series, error) {
	s := &models.Series{}
	err := r.db.QueryRow(`
		SELECT id, name, category, poster_url, plot, normalized_name, last_updated
		FROM series WHERE name=$1`, name,
	).Scan(&s.ID, &s.Name, &s.Category, &s.PosterURL, &s.Plot, &s.NormalizedName, &s.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpsertEpisode writes an episode, replacing any existing row for the same
// (series, season, episode) slot.
func (r *SeriesRepository) UpsertEpisode(ep *models.Episode) error {
	var name sql.NullString
	if ep.Name != "" {
		name = sql.NullString{String: ep.Name, Valid: true}
	}
	_, err := r.db.Exec(`
		INSERT INTO episodes (series_id, season_number, episode_number, url, episode_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (series_id, season_number, episode_number) DO UPDATE SET
			url=EXCLUDED.url, episode_name=EXCLUDED.episode_name`,
		ep.SeriesID, ep.Season, ep.Episode, ep.URL, name)
	return err
}

// ListEpisodes returns a series' episodes ordered by season then episode.
func (r *SeriesRepository) ListEpisodes(seriesID uuid.UUID) ([]models.Episode, error) {
	rows, err := r.db.Query(`
		SELECT series_id, season_number, episode_number, url, episode_name
		FROM episodes WHERE series_id=$1
		ORDER BY season_number, episode_number`, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Episode
	for rows.Next() {
		var ep models.Episode
		var name sql.NullString
		if err := rows.Scan(&ep.SeriesID, &ep.Season, &ep.Episode, &ep.URL, &name); err != nil {
			return nil, err
		}
		ep.Name = name.String
		out = append(out, ep)
	}
	return out, rows.Err()
}

func (r *SeriesRepository) SearchByWords(words []string, limit int) ([]SearchRow, error) {
	return searchByWords(r.db, "series", words, limit)
}

func (r *SeriesRepository) CountByCategory(category string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM series WHERE category=$1`, category).Scan(&count)
	return count, err
}

func (r *SeriesRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM series`).Scan(&count)
	return count, err
}
