package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sportcity/escenarios-export/internal/model"
)

// NeighborhoodRepository bulk-fetches neighborhoods (with their commune
// names) for the scenario export lookup.
type NeighborhoodRepository struct {
	db *sqlx.DB
}

func NewNeighborhoodRepository(db *sqlx.DB) *NeighborhoodRepository {
	return &NeighborhoodRepository{db: db}
}

func (r *NeighborhoodRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Neighborhood, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT n.id, n.name, c.name AS commune_name
		FROM neighborhoods n
		LEFT JOIN communes c ON c.id = n.commune_id
		WHERE n.id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build neighborhood lookup query: %w", err)
	}

	var neighborhoods []model.Neighborhood
	if err := r.db.SelectContext(ctx, &neighborhoods, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to fetch neighborhoods by ids: %w", err)
	}
	return neighborhoods, nil
}

// ActivityAreaRepository bulk-fetches activity areas for the
// sub-scenario export lookup.
type ActivityAreaRepository struct {
	db *sqlx.DB
}

func NewActivityAreaRepository(db *sqlx.DB) *ActivityAreaRepository {
	return &ActivityAreaRepository{db: db}
}

func (r *ActivityAreaRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.ActivityArea, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name
		FROM activity_areas
		WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build activity area lookup query: %w", err)
	}

	var areas []model.ActivityArea
	if err := r.db.SelectContext(ctx, &areas, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to fetch activity areas by ids: %w", err)
	}
	return areas, nil
}
