package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ansarikaif/movie/internal/models"
)

func newMockMovieRepo(t *testing.T) (*MovieRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMovieRepository(db), mock
}

func TestRefreshReplacesScrapedRows(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM movies").
		WithArgs("scraped").
		WillReturnResult(sqlmock.NewResult(0, 3))
	prep := mock.ExpectPrepare("INSERT INTO movies")
	prep.ExpectExec().
		WithArgs("Dune", "http://b/1", "file", "dune", "Hollywood", "scraped").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("Tenet", "http://a/2", "file", "tenet", "Hollywood", "scraped").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// the duplicate Dune resolves last-write-wins before any SQL runs
	n, err := repo.Refresh([]models.Candidate{
		{Name: "Dune", URL: "http://a/1", Kind: models.KindFile, NormalizedName: "dune", Category: "Hollywood"},
		{Name: "Tenet", URL: "http://a/2", Kind: models.KindFile, NormalizedName: "tenet", Category: "Hollywood"},
		{Name: "Dune", URL: "http://b/1", Kind: models.KindFile, NormalizedName: "dune", Category: "Hollywood"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An empty crawl still clears the scraped rows; manual rows are outside the
// delete's WHERE clause and a second run is a no-op for them.
func TestRefreshEmptyCandidates(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM movies").
		WithArgs("scraped").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare("INSERT INTO movies")
	mock.ExpectCommit()

	n, err := repo.Refresh(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRollsBackOnUpsertFailure(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM movies").
		WithArgs("scraped").
		WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare("INSERT INTO movies")
	prep.ExpectExec().
		WithArgs("Dune", "http://a/1", "file", "dune", "Hollywood", "scraped").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Refresh([]models.Candidate{
		{Name: "Dune", URL: "http://a/1", Kind: models.KindFile, NormalizedName: "dune", Category: "Hollywood"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dune")
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRollsBackOnDeleteFailure(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM movies").
		WithArgs("scraped").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Refresh(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear scraped movies")
	assert.NoError(t, mock.ExpectationsWereMet())
}
