package repository

import "database/sql"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert records that a user has been seen, bumping last_seen on repeat visits.
func (r *UserRepository) Upsert(userID string) error {
	_, err := r.db.Exec(`
		INSERT INTO users (user_id, first_seen, last_seen)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET last_seen = NOW()`,
		userID)
	return err
}

// Count returns the number of distinct users seen.
func (r *UserRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
