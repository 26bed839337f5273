// Package jobstore persists export job records. Two implementations
// share one contract: a Redis-backed store with expiring keys and an
// in-process map. The Resilient facade routes between them so callers
// never see a Redis outage.
package jobstore

import (
	"context"
	"time"

	"github.com/sportcity/escenarios-export/internal/export/domain"
)

// Store is the job persistence contract. Get and Update return
// (nil, nil) for unknown ids; errors are reserved for transport
// failures of the backing store.
type Store interface {
	Create(ctx context.Context, format domain.Format, metadata map[string]any) (*domain.Job, error)
	Get(ctx context.Context, id string) (*domain.Job, error)
	Update(ctx context.Context, id string, upd domain.JobUpdate) (*domain.Job, error)
	UpdateProgress(ctx context.Context, id string, progress int, status domain.Status) (*domain.Job, error)
	MarkCompleted(ctx context.Context, id, fileName, filePath string, fileSize int64) (*domain.Job, error)
	MarkFailed(ctx context.Context, id, errMsg string) (*domain.Job, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListAll(ctx context.Context) ([]*domain.Job, error)
	Cleanup(ctx context.Context, olderThan time.Duration) (int, error)
}

// progressUpdate builds the partial update shared by both
// implementations for UpdateProgress: clamped progress plus an
// optional status change in the same write.
func progressUpdate(progress int, status domain.Status) domain.JobUpdate {
	upd := domain.JobUpdate{Progress: &progress}
	if status != "" {
		upd.Status = &status
	}
	return upd
}

// completedUpdate builds the terminal update for a successful export.
func completedUpdate(fileName, filePath string, fileSize int64) domain.JobUpdate {
	status := domain.StatusCompleted
	progress := 100
	return domain.JobUpdate{
		Status:   &status,
		Progress: &progress,
		FileName: &fileName,
		FilePath: &filePath,
		FileSize: &fileSize,
	}
}

// failedUpdate builds the terminal update for a failed export. Progress
// is left at whatever it was when the failure happened.
func failedUpdate(errMsg string) domain.JobUpdate {
	status := domain.StatusFailed
	return domain.JobUpdate{
		Status: &status,
		Error:  &errMsg,
	}
}
