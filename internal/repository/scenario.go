package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sportcity/escenarios-export/internal/export/domain"
	"github.com/sportcity/escenarios-export/internal/model"
)

// ScenarioRepository reads scenarios from PostgreSQL.
type ScenarioRepository struct {
	db *sqlx.DB
}

func NewScenarioRepository(db *sqlx.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// FindPaged returns scenarios matching the filters, up to limit rows
// in one shot, plus the total match count.
func (r *ScenarioRepository) FindPaged(ctx context.Context, f domain.Filters, limit int) ([]model.Scenario, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if f.Active != nil {
		where += fmt.Sprintf(" AND active = $%d", argIdx)
		args = append(args, *f.Active)
		argIdx++
	}

	if f.NeighborhoodID != nil {
		where += fmt.Sprintf(" AND neighborhood_id = $%d", argIdx)
		args = append(args, *f.NeighborhoodID)
		argIdx++
	}

	if f.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, f.Search)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM scenarios" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count scenarios: %w", err)
	}

	query := `
		SELECT id, name, address, active, neighborhood_id, created_at
		FROM scenarios` + where
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", argIdx)
	args = append(args, limit)

	var scenarios []model.Scenario
	if err := r.db.SelectContext(ctx, &scenarios, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list scenarios: %w", err)
	}

	return scenarios, total, nil
}

// FindByIDs bulk-fetches scenarios for the sub-scenario export lookup.
func (r *ScenarioRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Scenario, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, address, active, neighborhood_id, created_at
		FROM scenarios
		WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario lookup query: %w", err)
	}

	var scenarios []model.Scenario
	if err := r.db.SelectContext(ctx, &scenarios, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to fetch scenarios by ids: %w", err)
	}
	return scenarios, nil
}
