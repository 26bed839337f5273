package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportcity/escenarios-export/internal/export/domain"
	"github.com/sportcity/escenarios-export/internal/model"
)

type fakeSubScenarioReader struct {
	subScenarios []model.SubScenario
	err          error
}

func (f *fakeSubScenarioReader) FindPaged(_ context.Context, _ domain.Filters, _ int) ([]model.SubScenario, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.subScenarios, len(f.subScenarios), nil
}

type fakeActivityAreaReader struct {
	areas []model.ActivityArea
	err   error
}

func (f *fakeActivityAreaReader) FindByIDs(_ context.Context, ids []int64) ([]model.ActivityArea, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.ActivityArea
	for _, id := range ids {
		for _, a := range f.areas {
			if a.ID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func TestSubScenarioSource_Fetch(t *testing.T) {
	created := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	subScenarios := &fakeSubScenarioReader{subScenarios: []model.SubScenario{
		{ID: 1, Name: "Cancha 1", Active: true, ScenarioID: nullInt(10), ActivityAreaID: nullInt(20), CreatedAt: created},
		{ID: 2, Name: "Cancha 2", Active: false},
	}}
	scenarios := &fakeScenarioReader{scenarios: []model.Scenario{
		{ID: 10, Name: "Estadio Norte"},
	}}
	areas := &fakeActivityAreaReader{areas: []model.ActivityArea{
		{ID: 20, Name: "Fútbol"},
	}}

	source := NewSubScenarioSource(subScenarios, scenarios, areas, 99999)
	assert.Equal(t, "sub_escenarios", source.Kind())

	var reported []int
	table, err := source.Fetch(context.Background(), domain.Filters{}, nil, func(p int) {
		reported = append(reported, p)
	})
	require.NoError(t, err)
	require.NotNil(t, table)

	assert.Equal(t, []int{40, 60}, reported)
	assert.Equal(t, "Sub-Escenarios", table.Title)
	assert.Equal(t,
		[]string{"ID", "Nombre", "Activo", "Escenario", "Área de Actividad", "Fecha Creación"},
		table.Headers(),
	)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, []string{"1", "Cancha 1", "Sí", "Estadio Norte", "Fútbol", "15-03-2024"}, table.Rows[0])
	assert.Equal(t, []string{"2", "Cancha 2", "No", "Sin escenario", "Sin área", ""}, table.Rows[1])
}

func TestSubScenarioSource_FetchPropagatesErrors(t *testing.T) {
	t.Run("primary fetch fails", func(t *testing.T) {
		source := NewSubScenarioSource(
			&fakeSubScenarioReader{err: errors.New("connection reset")},
			&fakeScenarioReader{},
			&fakeActivityAreaReader{},
			99999,
		)

		_, err := source.Fetch(context.Background(), domain.Filters{}, nil, func(int) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch sub-scenarios")
	})

	t.Run("scenario lookup fails", func(t *testing.T) {
		source := NewSubScenarioSource(
			&fakeSubScenarioReader{subScenarios: []model.SubScenario{
				{ID: 1, Name: "Cancha 1", ScenarioID: nullInt(10)},
			}},
			&fakeScenarioReader{err: errors.New("connection reset")},
			&fakeActivityAreaReader{},
			99999,
		)

		_, err := source.Fetch(context.Background(), domain.Filters{}, nil, func(int) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch parent scenarios")
	})

	t.Run("activity area lookup fails", func(t *testing.T) {
		source := NewSubScenarioSource(
			&fakeSubScenarioReader{subScenarios: []model.SubScenario{
				{ID: 1, Name: "Cancha 1", ActivityAreaID: nullInt(20)},
			}},
			&fakeScenarioReader{},
			&fakeActivityAreaReader{err: errors.New("connection reset")},
			99999,
		)

		_, err := source.Fetch(context.Background(), domain.Filters{}, nil, func(int) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch activity areas")
	})
}
