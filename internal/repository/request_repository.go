package repository

import (
	"database/sql"

	"github.com/Ansarikaif/movie/internal/models"
)

type RequestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Insert appends one request row. Requests are never updated or deleted;
// they exist for the grouped counts below.
func (r *RequestRepository) Insert(userID, title string) error {
	_, err := r.db.Exec(
		`INSERT INTO requests (user_id, movie_title) VALUES ($1, $2)`,
		userID, title)
	return err
}

// ListGrouped returns requested titles with their request counts, most
// requested first.
func (r *RequestRepository) ListGrouped(limit int) ([]models.RequestCount, error) {
	rows, err := r.db.Query(`
		SELECT movie_title, COUNT(*) AS n
		FROM requests
		GROUP BY movie_title
		ORDER BY n DESC, movie_title
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RequestCount
	for rows.Next() {
		var rc models.RequestCount
		if err := rows.Scan(&rc.Title, &rc.Count); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
