package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportcity/escenarios-export/internal/export/domain"
)

func TestSubScenarioRepository_FindPaged(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubScenarioRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sub_scenarios WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT id, name, active, scenario_id, activity_area_id, created_at\s+FROM sub_scenarios WHERE 1=1 ORDER BY id LIMIT \$1`).
		WithArgs(99999).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "active", "scenario_id", "activity_area_id", "created_at"}).
			AddRow(1, "Cancha 1", true, 10, 20, now).
			AddRow(2, "Cancha 2", false, nil, nil, now))

	subScenarios, total, err := repo.FindPaged(context.Background(), domain.Filters{}, 99999)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, subScenarios, 2)
	assert.True(t, subScenarios[0].ScenarioID.Valid)
	assert.Equal(t, int64(10), subScenarios[0].ScenarioID.Int64)
	assert.True(t, subScenarios[0].ActivityAreaID.Valid)
	assert.False(t, subScenarios[1].ScenarioID.Valid)
	assert.False(t, subScenarios[1].ActivityAreaID.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubScenarioRepository_FindPagedWithFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubScenarioRepository(db)

	filters := domain.Filters{
		Active:         boolPtr(true),
		ScenarioID:     int64Ptr(10),
		ActivityAreaID: int64Ptr(20),
		Search:         "cancha",
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sub_scenarios WHERE 1=1 AND active = \$1 AND scenario_id = \$2 AND activity_area_id = \$3 AND name ILIKE '%' \|\| \$4 \|\| '%'`).
		WithArgs(true, int64(10), int64(20), "cancha").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`FROM sub_scenarios WHERE 1=1 AND active = \$1 AND scenario_id = \$2 AND activity_area_id = \$3 AND name ILIKE '%' \|\| \$4 \|\| '%' ORDER BY id LIMIT \$5`).
		WithArgs(true, int64(10), int64(20), "cancha", 500).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "active", "scenario_id", "activity_area_id", "created_at"}).
			AddRow(1, "Cancha 1", true, 10, 20, now))

	subScenarios, total, err := repo.FindPaged(context.Background(), filters, 500)
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, subScenarios, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubScenarioRepository_FindPagedListError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubScenarioRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sub_scenarios`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM sub_scenarios`).
		WillReturnError(assert.AnError)

	_, _, err := repo.FindPaged(context.Background(), domain.Filters{}, 99999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list sub-scenarios")
}
