package repository

import "database/sql"

// BrowseRepository serves the merged movie+series category listing. The
// union, ordering and pagination happen in SQL so every page is reachable
// no matter how large the category grows.
type BrowseRepository struct {
	db *sql.DB
}

func NewBrowseRepository(db *sql.DB) *BrowseRepository {
	return &BrowseRepository{db: db}
}

// ListNames returns one alphabetical page of all catalog names in a
// category, movies and series together.
func (r *BrowseRepository) ListNames(category string, offset, limit int) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT name FROM (
			SELECT name FROM movies WHERE category=$1
			UNION ALL
			SELECT name FROM series WHERE category=$1
		) AS catalog
		ORDER BY name OFFSET $2 LIMIT $3`, category, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
