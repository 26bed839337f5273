package handler

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/sportcity/escenarios-export/internal/api/dto"
	"github.com/sportcity/escenarios-export/internal/export"
	"github.com/sportcity/escenarios-export/internal/export/domain"
)

// StartScenarioExport handles POST /api/v1/scenarios/export
func (h *ExportHandler) StartScenarioExport(c *gin.Context) {
	h.startExport(c, h.scenarios)
}

// ScenarioExportStatus handles GET /api/v1/scenarios/export/:job_id/status
func (h *ExportHandler) ScenarioExportStatus(c *gin.Context) {
	h.exportStatus(c, h.scenarios)
}

// ScenarioExportDownload handles GET /api/v1/scenarios/export/:job_id/download
func (h *ExportHandler) ScenarioExportDownload(c *gin.Context) {
	h.exportDownload(c, h.scenarios)
}

// ScenarioExportFile handles GET /api/v1/scenarios/export/:job_id/download/file
func (h *ExportHandler) ScenarioExportFile(c *gin.Context) {
	h.exportFile(c, h.scenarios)
}

// StartSubScenarioExport handles POST /api/v1/sub-scenarios/export
func (h *ExportHandler) StartSubScenarioExport(c *gin.Context) {
	h.startExport(c, h.subScenarios)
}

// SubScenarioExportStatus handles GET /api/v1/sub-scenarios/export/:job_id/status
func (h *ExportHandler) SubScenarioExportStatus(c *gin.Context) {
	h.exportStatus(c, h.subScenarios)
}

// SubScenarioExportDownload handles GET /api/v1/sub-scenarios/export/:job_id/download
func (h *ExportHandler) SubScenarioExportDownload(c *gin.Context) {
	h.exportDownload(c, h.subScenarios)
}

// SubScenarioExportFile handles GET /api/v1/sub-scenarios/export/:job_id/download/file
func (h *ExportHandler) SubScenarioExportFile(c *gin.Context) {
	h.exportFile(c, h.subScenarios)
}

func (h *ExportHandler) startExport(c *gin.Context, e *export.Exporter) {
	var req dto.StartExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid export request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	jobID, err := e.StartExport(c.Request.Context(), export.Options{
		Format: domain.Format(req.Format),
		Filters: domain.Filters{
			Active:         req.Filters.Active,
			NeighborhoodID: req.Filters.NeighborhoodID,
			ScenarioID:     req.Filters.ScenarioID,
			ActivityAreaID: req.Filters.ActivityAreaID,
			Search:         req.Filters.Search,
		},
		IncludeFields: req.IncludeFields,
	})
	if err != nil {
		h.logger.Error("Failed to start export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to start export",
		})
		return
	}

	c.JSON(http.StatusAccepted, dto.ExportJobResponse{
		JobID:   jobID,
		Status:  string(domain.StatusPending),
		Message: "Export started",
	})
}

func (h *ExportHandler) exportStatus(c *gin.Context, e *export.Exporter) {
	jobID := c.Param("job_id")

	job, err := e.GetExportStatus(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to get export status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get export status",
		})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": domain.ErrJobNotFound.Error(),
		})
		return
	}

	progress := job.Progress
	c.JSON(http.StatusOK, dto.ExportJobResponse{
		JobID:    job.ID,
		Status:   string(job.Status),
		Progress: &progress,
		Message:  statusMessage(job),
	})
}

func (h *ExportHandler) exportDownload(c *gin.Context, e *export.Exporter) {
	jobID := c.Param("job_id")

	info, err := e.GetDownloadInfo(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to get download info",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get download info",
		})
		return
	}
	if info == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Export file not available",
		})
		return
	}

	c.JSON(http.StatusOK, dto.ExportDownloadResponse{
		DownloadURL: info.DownloadURL,
		FileName:    info.FileName,
		FileSize:    info.FileSize,
	})
}

// exportFile streams the generated file. Content-Type follows the
// job's format and the file is served as an attachment.
func (h *ExportHandler) exportFile(c *gin.Context, e *export.Exporter) {
	jobID := c.Param("job_id")

	job, err := e.GetExportStatus(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get export job",
		})
		return
	}
	if job == nil || job.Status != domain.StatusCompleted || job.FilePath == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Export file not available",
		})
		return
	}

	if _, err := os.Stat(job.FilePath); err != nil {
		h.logger.Error("Export file missing on disk",
			slog.String("job_id", jobID),
			slog.String("path", job.FilePath),
		)
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Export file not available",
		})
		return
	}

	c.Header("Content-Type", job.Format.MIME())
	c.FileAttachment(job.FilePath, job.FileName)
}

// Stats handles GET /api/v1/exports/stats
func (h *ExportHandler) Stats(c *gin.Context) {
	stats, err := h.jobs.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to collect job stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to collect job stats",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Cleanup handles POST /api/v1/exports/cleanup. The sweep is invoked
// externally (cron or operator); it is not scheduled in-process.
func (h *ExportHandler) Cleanup(c *gin.Context) {
	result, err := h.scenarios.CleanupOldJobs(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to clean up export jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clean up export jobs",
		})
		return
	}

	h.logger.Info("Export cleanup finished",
		slog.Int("deleted_jobs", result.DeletedJobs),
		slog.Int("deleted_files", result.DeletedFiles),
	)

	c.JSON(http.StatusOK, dto.CleanupResponse{
		DeletedJobs:  result.DeletedJobs,
		DeletedFiles: result.DeletedFiles,
	})
}

// statusMessage returns the human-readable message for the polling
// response; failed jobs carry their error string.
func statusMessage(job *domain.Job) string {
	if job.Status == domain.StatusFailed && job.Error != "" {
		return job.Error
	}
	switch job.Status {
	case domain.StatusPending:
		return "Export queued"
	case domain.StatusProcessing:
		return "Export in progress"
	case domain.StatusCompleted:
		return "Export completed"
	default:
		return "Export failed"
	}
}
