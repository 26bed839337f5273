package model

import (
	"database/sql"
	"time"
)

// Scenario is a sports facility (escenario).
type Scenario struct {
	ID             int64         `db:"id"`
	Name           string        `db:"name"`
	Address        string        `db:"address"`
	Active         bool          `db:"active"`
	NeighborhoodID sql.NullInt64 `db:"neighborhood_id"`
	CreatedAt      time.Time     `db:"created_at"`
}

// SubScenario is a bookable area inside a scenario (sub-escenario).
type SubScenario struct {
	ID             int64         `db:"id"`
	Name           string        `db:"name"`
	Active         bool          `db:"active"`
	ScenarioID     sql.NullInt64 `db:"scenario_id"`
	ActivityAreaID sql.NullInt64 `db:"activity_area_id"`
	CreatedAt      time.Time     `db:"created_at"`
}

// Neighborhood is a city neighborhood (barrio) with its commune name
// joined in for export display.
type Neighborhood struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	CommuneName sql.NullString `db:"commune_name"`
}

// ActivityArea is a sport/activity category (área de actividad).
type ActivityArea struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}
