package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sportcity/escenarios-export/internal/export/domain"
	"github.com/sportcity/escenarios-export/internal/export/filewriter"
	"github.com/sportcity/escenarios-export/internal/export/jobstore"
)

// Options parameterizes one export request.
type Options struct {
	Format        domain.Format
	Filters       domain.Filters
	IncludeFields []string
}

// DownloadInfo is returned once a job has completed and its file is
// ready for download.
type DownloadInfo struct {
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
}

// CleanupResult counts what a retention sweep removed.
type CleanupResult struct {
	DeletedJobs  int `json:"deletedJobs"`
	DeletedFiles int `json:"deletedFiles"`
}

// Notifier publishes job lifecycle events. Implementations must be
// best-effort; the export outcome never depends on them.
type Notifier interface {
	JobCompleted(ctx context.Context, job *domain.Job)
	JobFailed(ctx context.Context, job *domain.Job)
}

// Exporter orchestrates exports for one Source: it creates the job,
// runs the multi-step background procedure in a detached goroutine,
// and serves the polling reads. It holds no job state of its own;
// every read and write round-trips through the job store.
type Exporter struct {
	source       Source
	jobs         jobstore.Store
	writer       *filewriter.Writer
	notifier     Notifier
	logger       *slog.Logger
	downloadBase string
	retention    time.Duration

	wg sync.WaitGroup
}

// Config wires an Exporter.
type Config struct {
	Source Source
	Jobs   jobstore.Store
	Writer *filewriter.Writer
	// Notifier may be nil when event publishing is not configured.
	Notifier Notifier
	Logger   *slog.Logger
	// DownloadBase prefixes download URLs, e.g. "/api/v1/scenarios/export".
	DownloadBase string
	// Retention is how long finished jobs are kept before CleanupOldJobs
	// removes them. Defaults to 24h.
	Retention time.Duration
}

// NewExporter creates an export orchestrator.
func NewExporter(cfg *Config) *Exporter {
	retention := cfg.Retention
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &Exporter{
		source:       cfg.Source,
		jobs:         cfg.Jobs,
		writer:       cfg.Writer,
		notifier:     cfg.Notifier,
		logger:       cfg.Logger,
		downloadBase: cfg.DownloadBase,
		retention:    retention,
	}
}

// StartExport creates the job and schedules the background procedure
// without waiting for it, returning the job id immediately. Only the
// synchronous Create step can fail here; everything after is reported
// through the job's own status.
func (e *Exporter) StartExport(ctx context.Context, opts Options) (string, error) {
	if !opts.Format.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFormat, opts.Format)
	}

	metadata := map[string]any{
		"filters": opts.Filters,
	}
	if len(opts.IncludeFields) > 0 {
		metadata["includeFields"] = opts.IncludeFields
	}

	job, err := e.jobs.Create(ctx, opts.Format, metadata)
	if err != nil {
		return "", fmt.Errorf("failed to create export job: %w", err)
	}

	e.logger.Info("Export job created",
		slog.String("job_id", job.ID),
		slog.String("kind", e.source.Kind()),
		slog.String("format", string(opts.Format)),
	)

	e.wg.Add(1)
	go e.runDetached(job.ID, opts)

	return job.ID, nil
}

// runDetached is the outermost boundary of the background procedure.
// Every failure inside it, panics included, ends in MarkFailed; nothing
// propagates to the request that started the export.
func (e *Exporter) runDetached(jobID string, opts Options) {
	defer e.wg.Done()

	// Detached from the originating HTTP request on purpose: the export
	// must survive the request's cancellation.
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Export job panicked",
				slog.String("job_id", jobID),
				slog.Any("panic", r),
			)
			e.fail(ctx, jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := e.run(ctx, jobID, opts); err != nil {
		e.logger.Error("Export job failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		e.fail(ctx, jobID, err.Error())
	}
}

// run executes the export steps strictly in sequence, advancing the
// job through the fixed progress checkpoints 20/40/60/80/100.
func (e *Exporter) run(ctx context.Context, jobID string, opts Options) error {
	processing := domain.StatusProcessing
	if _, err := e.jobs.Update(ctx, jobID, domain.JobUpdate{Status: &processing}); err != nil {
		return fmt.Errorf("failed to mark job processing: %w", err)
	}

	e.progress(ctx, jobID, 20)

	table, err := e.source.Fetch(ctx, opts.Filters, opts.IncludeFields, func(p int) {
		e.progress(ctx, jobID, p)
	})
	if err != nil {
		return err
	}

	e.progress(ctx, jobID, 80)

	var result *filewriter.Result
	if opts.Format == domain.FormatXLSX {
		result, err = e.writer.WriteXLSX(e.source.Kind(), table)
	} else {
		result, err = e.writer.WriteCSV(e.source.Kind(), table)
	}
	if err != nil {
		return err
	}

	job, err := e.jobs.MarkCompleted(ctx, jobID, result.FileName, result.FilePath, result.FileSize)
	if err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}

	e.logger.Info("Export job completed",
		slog.String("job_id", jobID),
		slog.String("file", result.FileName),
		slog.Int64("size", result.FileSize),
		slog.Int("rows", len(table.Rows)),
	)

	if e.notifier != nil && job != nil {
		e.notifier.JobCompleted(ctx, job)
	}
	return nil
}

// GetExportStatus returns the job record, or nil when the id is
// unknown. Reads have no side effects.
func (e *Exporter) GetExportStatus(ctx context.Context, jobID string) (*domain.Job, error) {
	return e.jobs.Get(ctx, jobID)
}

// GetDownloadInfo returns download metadata once the job is completed
// and has a file, nil otherwise.
func (e *Exporter) GetDownloadInfo(ctx context.Context, jobID string) (*DownloadInfo, error) {
	job, err := e.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.Status != domain.StatusCompleted || job.FileName == "" {
		return nil, nil
	}

	return &DownloadInfo{
		DownloadURL: fmt.Sprintf("%s/%s/download/file", e.downloadBase, job.ID),
		FileName:    job.FileName,
		FileSize:    job.FileSize,
	}, nil
}

// GetJobFilePath returns the stored file path for byte streaming, or
// "" when the job is unknown or has no file yet.
func (e *Exporter) GetJobFilePath(ctx context.Context, jobID string) (string, error) {
	job, err := e.jobs.Get(ctx, jobID)
	if err != nil {
		return "", err
	}
	if job == nil {
		return "", nil
	}
	return job.FilePath, nil
}

// CleanupOldJobs deletes job records past the retention window and
// delegates the file sweep to the writer (currently a stub).
func (e *Exporter) CleanupOldJobs(ctx context.Context) (CleanupResult, error) {
	deletedJobs, err := e.jobs.Cleanup(ctx, e.retention)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("failed to clean up jobs: %w", err)
	}
	deletedFiles := e.writer.CleanupOldFiles(e.retention)

	return CleanupResult{
		DeletedJobs:  deletedJobs,
		DeletedFiles: deletedFiles,
	}, nil
}

// Wait blocks until all in-flight background exports finish. Used
// during graceful shutdown.
func (e *Exporter) Wait() {
	e.wg.Wait()
}

func (e *Exporter) progress(ctx context.Context, jobID string, p int) {
	if _, err := e.jobs.UpdateProgress(ctx, jobID, p, ""); err != nil {
		e.logger.Warn("Failed to update export progress",
			slog.String("job_id", jobID),
			slog.Int("progress", p),
			slog.String("error", err.Error()),
		)
	}
}

func (e *Exporter) fail(ctx context.Context, jobID, msg string) {
	job, err := e.jobs.MarkFailed(ctx, jobID, msg)
	if err != nil {
		e.logger.Error("Failed to mark export job failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}
	if e.notifier != nil && job != nil {
		e.notifier.JobFailed(ctx, job)
	}
}
