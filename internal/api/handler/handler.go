package handler

import (
	"log/slog"

	"github.com/sportcity/escenarios-export/internal/export"
	"github.com/sportcity/escenarios-export/internal/export/jobstore"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	Scenarios    *export.Exporter
	SubScenarios *export.Exporter
	Jobs         *jobstore.Resilient
}

// ExportHandler handles export-related HTTP requests for both entity
// kinds plus the operational stats/cleanup endpoints.
type ExportHandler struct {
	logger       *slog.Logger
	scenarios    *export.Exporter
	subScenarios *export.Exporter
	jobs         *jobstore.Resilient
}

// NewExportHandler creates a new ExportHandler instance
func NewExportHandler(deps *Dependencies) *ExportHandler {
	return &ExportHandler{
		logger:       deps.Logger,
		scenarios:    deps.Scenarios,
		subScenarios: deps.SubScenarios,
		jobs:         deps.Jobs,
	}
}
