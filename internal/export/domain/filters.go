package domain

// Filters narrows the row set of an export. Fields not applicable to
// the exported entity kind are ignored by its repository. The whole
// struct is also stored on the job as metadata for later inspection.
type Filters struct {
	Active         *bool  `json:"active,omitempty"`
	NeighborhoodID *int64 `json:"neighborhoodId,omitempty"`
	ScenarioID     *int64 `json:"scenarioId,omitempty"`
	ActivityAreaID *int64 `json:"activityAreaId,omitempty"`
	Search         string `json:"search,omitempty"`
}
