package dto

// ExportFiltersRequest narrows the exported row set. Fields that do
// not apply to the exported entity kind are ignored.
type ExportFiltersRequest struct {
	Active         *bool  `json:"active"`
	NeighborhoodID *int64 `json:"neighborhoodId"`
	ScenarioID     *int64 `json:"scenarioId"`
	ActivityAreaID *int64 `json:"activityAreaId"`
	Search         string `json:"search"`
}

// StartExportRequest starts an asynchronous export.
type StartExportRequest struct {
	Format        string               `json:"format" binding:"required,oneof=xlsx csv"`
	Filters       ExportFiltersRequest `json:"filters"`
	IncludeFields []string             `json:"includeFields"`
}

// ExportJobResponse is the polling contract: clients read status and
// progress until they see a terminal state.
type ExportJobResponse struct {
	JobID    string `json:"jobId"`
	Status   string `json:"status"`
	Progress *int   `json:"progress,omitempty"`
	Message  string `json:"message"`
}

// ExportDownloadResponse describes a completed export file.
type ExportDownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
}

// CleanupResponse counts what a retention sweep removed.
type CleanupResponse struct {
	DeletedJobs  int `json:"deletedJobs"`
	DeletedFiles int `json:"deletedFiles"`
}
