package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowseListNamesPaginatesInSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery("UNION ALL").
		WithArgs("Hollywood", 20, 10).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow("Dune (2021)").
			AddRow("Tenet (2020)"))

	repo := NewBrowseRepository(db)
	names, err := repo.ListNames("Hollywood", 20, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune (2021)", "Tenet (2020)"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}
