package export

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sportcity/escenarios-export/internal/export/domain"
	"github.com/sportcity/escenarios-export/internal/export/filewriter"
	"github.com/sportcity/escenarios-export/internal/model"
)

// SubScenarioReader is the sub-scenario row repository contract.
type SubScenarioReader interface {
	FindPaged(ctx context.Context, f domain.Filters, limit int) ([]model.SubScenario, int, error)
}

// ActivityAreaReader bulk-fetches activity areas for the sub-scenario
// export.
type ActivityAreaReader interface {
	FindByIDs(ctx context.Context, ids []int64) ([]model.ActivityArea, error)
}

// SubScenarioSource exports sub-scenarios with their parent scenario
// and activity-area names resolved through two bulk lookups.
type SubScenarioSource struct {
	subScenarios  SubScenarioReader
	scenarios     ScenarioReader
	activityAreas ActivityAreaReader
	fetchLimit    int
}

func NewSubScenarioSource(subScenarios SubScenarioReader, scenarios ScenarioReader, activityAreas ActivityAreaReader, fetchLimit int) *SubScenarioSource {
	return &SubScenarioSource{
		subScenarios:  subScenarios,
		scenarios:     scenarios,
		activityAreas: activityAreas,
		fetchLimit:    fetchLimit,
	}
}

func (s *SubScenarioSource) Kind() string {
	return "sub_escenarios"
}

func (s *SubScenarioSource) Fetch(ctx context.Context, f domain.Filters, includeFields []string, report ProgressFunc) (*filewriter.Table, error) {
	subScenarios, _, err := s.subScenarios.FindPaged(ctx, f, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sub-scenarios: %w", err)
	}
	report(40)

	scenarioIDs := collectIDs(len(subScenarios), func(i int) (int64, bool) {
		ss := subScenarios[i]
		return ss.ScenarioID.Int64, ss.ScenarioID.Valid
	})

	scenarios := make(map[int64]model.Scenario, len(scenarioIDs))
	if len(scenarioIDs) > 0 {
		list, err := s.scenarios.FindByIDs(ctx, scenarioIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch parent scenarios: %w", err)
		}
		for _, sc := range list {
			scenarios[sc.ID] = sc
		}
	}
	report(60)

	areaIDs := collectIDs(len(subScenarios), func(i int) (int64, bool) {
		ss := subScenarios[i]
		return ss.ActivityAreaID.Int64, ss.ActivityAreaID.Valid
	})

	areas := make(map[int64]model.ActivityArea, len(areaIDs))
	if len(areaIDs) > 0 {
		list, err := s.activityAreas.FindByIDs(ctx, areaIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch activity areas: %w", err)
		}
		for _, a := range list {
			areas[a.ID] = a
		}
	}

	table := &filewriter.Table{
		Title: "Sub-Escenarios",
		Columns: []filewriter.Column{
			{Key: "id", Header: "ID"},
			{Key: "name", Header: "Nombre"},
			{Key: "active", Header: "Activo"},
			{Key: "scenario.name", Header: "Escenario"},
			{Key: "activityArea.name", Header: "Área de Actividad"},
			{Key: "createdAt", Header: "Fecha Creación"},
		},
		Rows: make([][]string, 0, len(subScenarios)),
	}

	for _, ss := range subScenarios {
		escenario := noScenarioLabel
		if ss.ScenarioID.Valid {
			if sc, ok := scenarios[ss.ScenarioID.Int64]; ok {
				escenario = sc.Name
			}
		}

		area := noActivityAreaLabel
		if ss.ActivityAreaID.Valid {
			if a, ok := areas[ss.ActivityAreaID.Int64]; ok {
				area = a.Name
			}
		}

		created := ""
		if !ss.CreatedAt.IsZero() {
			created = ss.CreatedAt.Format("02-01-2006")
		}

		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(ss.ID, 10),
			ss.Name,
			boolLabel(ss.Active),
			escenario,
			area,
			created,
		})
	}

	return table.Select(includeFields), nil
}
