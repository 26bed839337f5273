package export

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sportcity/escenarios-export/internal/export/domain"
	"github.com/sportcity/escenarios-export/internal/export/filewriter"
	"github.com/sportcity/escenarios-export/internal/model"
)

// Labels are Spanish because the exported files are a user-facing
// contract of the original system; fallbacks fill lookup misses.
const (
	labelYes            = "Sí"
	labelNo             = "No"
	noNeighborhoodLabel = "Sin barrio"
	noCommuneLabel      = "Sin comuna"
	noScenarioLabel     = "Sin escenario"
	noActivityAreaLabel = "Sin área"
)

// ScenarioReader is the scenario row repository contract.
type ScenarioReader interface {
	FindPaged(ctx context.Context, f domain.Filters, limit int) ([]model.Scenario, int, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Scenario, error)
}

// NeighborhoodReader bulk-fetches neighborhoods for the scenario export.
type NeighborhoodReader interface {
	FindByIDs(ctx context.Context, ids []int64) ([]model.Neighborhood, error)
}

// ScenarioSource exports scenarios with their neighborhood and commune
// names resolved.
type ScenarioSource struct {
	scenarios     ScenarioReader
	neighborhoods NeighborhoodReader
	fetchLimit    int
}

func NewScenarioSource(scenarios ScenarioReader, neighborhoods NeighborhoodReader, fetchLimit int) *ScenarioSource {
	return &ScenarioSource{
		scenarios:     scenarios,
		neighborhoods: neighborhoods,
		fetchLimit:    fetchLimit,
	}
}

func (s *ScenarioSource) Kind() string {
	return "escenarios"
}

func (s *ScenarioSource) Fetch(ctx context.Context, f domain.Filters, includeFields []string, report ProgressFunc) (*filewriter.Table, error) {
	scenarios, _, err := s.scenarios.FindPaged(ctx, f, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scenarios: %w", err)
	}
	report(40)

	ids := collectIDs(len(scenarios), func(i int) (int64, bool) {
		sc := scenarios[i]
		return sc.NeighborhoodID.Int64, sc.NeighborhoodID.Valid
	})

	neighborhoods := make(map[int64]model.Neighborhood, len(ids))
	if len(ids) > 0 {
		list, err := s.neighborhoods.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch neighborhoods: %w", err)
		}
		for _, n := range list {
			neighborhoods[n.ID] = n
		}
	}
	report(60)

	table := &filewriter.Table{
		Title: "Escenarios",
		Columns: []filewriter.Column{
			{Key: "id", Header: "ID"},
			{Key: "name", Header: "Nombre"},
			{Key: "address", Header: "Dirección"},
			{Key: "active", Header: "Activo"},
			{Key: "neighborhood.name", Header: "Barrio"},
			{Key: "neighborhood.commune.name", Header: "Comuna"},
		},
		Rows: make([][]string, 0, len(scenarios)),
	}

	for _, sc := range scenarios {
		barrio := noNeighborhoodLabel
		comuna := noCommuneLabel
		if sc.NeighborhoodID.Valid {
			if n, ok := neighborhoods[sc.NeighborhoodID.Int64]; ok {
				barrio = n.Name
				if n.CommuneName.Valid && n.CommuneName.String != "" {
					comuna = n.CommuneName.String
				}
			}
		}

		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(sc.ID, 10),
			sc.Name,
			sc.Address,
			boolLabel(sc.Active),
			barrio,
			comuna,
		})
	}

	return table.Select(includeFields), nil
}

func boolLabel(b bool) string {
	if b {
		return labelYes
	}
	return labelNo
}

// collectIDs gathers the distinct positive foreign-key ids from n rows.
// Null and non-positive ids are excluded before the bulk lookup.
func collectIDs(n int, get func(i int) (int64, bool)) []int64 {
	seen := make(map[int64]struct{}, n)
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, valid := get(i)
		if !valid || id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
