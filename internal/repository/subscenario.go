package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sportcity/escenarios-export/internal/export/domain"
	"github.com/sportcity/escenarios-export/internal/model"
)

// SubScenarioRepository reads sub-scenarios from PostgreSQL.
type SubScenarioRepository struct {
	db *sqlx.DB
}

func NewSubScenarioRepository(db *sqlx.DB) *SubScenarioRepository {
	return &SubScenarioRepository{db: db}
}

// FindPaged returns sub-scenarios matching the filters, up to limit
// rows in one shot, plus the total match count.
func (r *SubScenarioRepository) FindPaged(ctx context.Context, f domain.Filters, limit int) ([]model.SubScenario, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if f.Active != nil {
		where += fmt.Sprintf(" AND active = $%d", argIdx)
		args = append(args, *f.Active)
		argIdx++
	}

	if f.ScenarioID != nil {
		where += fmt.Sprintf(" AND scenario_id = $%d", argIdx)
		args = append(args, *f.ScenarioID)
		argIdx++
	}

	if f.ActivityAreaID != nil {
		where += fmt.Sprintf(" AND activity_area_id = $%d", argIdx)
		args = append(args, *f.ActivityAreaID)
		argIdx++
	}

	if f.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, f.Search)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM sub_scenarios" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count sub-scenarios: %w", err)
	}

	query := `
		SELECT id, name, active, scenario_id, activity_area_id, created_at
		FROM sub_scenarios` + where
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", argIdx)
	args = append(args, limit)

	var subScenarios []model.SubScenario
	if err := r.db.SelectContext(ctx, &subScenarios, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list sub-scenarios: %w", err)
	}

	return subScenarios, total, nil
}
