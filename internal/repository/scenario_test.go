package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportcity/escenarios-export/internal/export/domain"
)

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "postgres"), mock
}

func boolPtr(b bool) *bool    { return &b }
func int64Ptr(v int64) *int64 { return &v }

func TestScenarioRepository_FindPaged(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScenarioRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM scenarios WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT id, name, address, active, neighborhood_id, created_at\s+FROM scenarios WHERE 1=1 ORDER BY id LIMIT \$1`).
		WithArgs(99999).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "address", "active", "neighborhood_id", "created_at"}).
			AddRow(1, "Estadio Norte", "Calle 1", true, 10, now).
			AddRow(2, "Cancha Sur", "Calle 2", false, nil, now))

	scenarios, total, err := repo.FindPaged(context.Background(), domain.Filters{}, 99999)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "Estadio Norte", scenarios[0].Name)
	assert.True(t, scenarios[0].NeighborhoodID.Valid)
	assert.Equal(t, int64(10), scenarios[0].NeighborhoodID.Int64)
	assert.False(t, scenarios[1].NeighborhoodID.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScenarioRepository_FindPagedWithFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScenarioRepository(db)

	filters := domain.Filters{
		Active:         boolPtr(true),
		NeighborhoodID: int64Ptr(10),
		Search:         "estadio",
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM scenarios WHERE 1=1 AND active = \$1 AND neighborhood_id = \$2 AND name ILIKE '%' \|\| \$3 \|\| '%'`).
		WithArgs(true, int64(10), "estadio").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`FROM scenarios WHERE 1=1 AND active = \$1 AND neighborhood_id = \$2 AND name ILIKE '%' \|\| \$3 \|\| '%' ORDER BY id LIMIT \$4`).
		WithArgs(true, int64(10), "estadio", 500).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "address", "active", "neighborhood_id", "created_at"}).
			AddRow(1, "Estadio Norte", "Calle 1", true, 10, now))

	scenarios, total, err := repo.FindPaged(context.Background(), filters, 500)
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, scenarios, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScenarioRepository_FindPagedCountError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScenarioRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM scenarios`).
		WillReturnError(assert.AnError)

	_, _, err := repo.FindPaged(context.Background(), domain.Filters{}, 99999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count scenarios")
}

func TestScenarioRepository_FindByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScenarioRepository(db)

	mock.ExpectQuery(`FROM scenarios\s+WHERE id IN \(\$1, \$2\)`).
		WithArgs(int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "address", "active", "neighborhood_id", "created_at"}).
			AddRow(1, "Estadio Norte", "Calle 1", true, nil, now).
			AddRow(3, "Piscina Olímpica", "Calle 3", true, nil, now))

	scenarios, err := repo.FindByIDs(context.Background(), []int64{1, 3})
	require.NoError(t, err)

	require.Len(t, scenarios, 2)
	assert.Equal(t, int64(1), scenarios[0].ID)
	assert.Equal(t, int64(3), scenarios[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScenarioRepository_FindByIDsEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScenarioRepository(db)

	scenarios, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, scenarios)
	assert.NoError(t, mock.ExpectationsWereMet())
}
