package jobstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sportcity/escenarios-export/internal/export/domain"
)

// MemoryStore keeps job records in a process-local map. It is the
// fallback behind the Resilient facade and does not survive restarts.
// Entries have no TTL; Cleanup is the only way they disappear.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]*domain.Job),
	}
}

func (s *MemoryStore) Create(_ context.Context, format domain.Format, metadata map[string]any) (*domain.Job, error) {
	now := time.Now()
	job := &domain.Job{
		ID:        uuid.New().String(),
		Status:    domain.StatusPending,
		Progress:  0,
		Format:    format,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  metadata,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job.Clone()
	s.mu.Unlock()

	return job, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return job.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, upd domain.JobUpdate) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}

	// Completed and failed jobs are immutable; late writes (e.g. a
	// stale progress update racing a terminal transition) are ignored.
	if job.Status.Terminal() {
		return job.Clone(), nil
	}

	upd.Apply(job)
	job.UpdatedAt = time.Now()
	return job.Clone(), nil
}

func (s *MemoryStore) UpdateProgress(ctx context.Context, id string, progress int, status domain.Status) (*domain.Job, error) {
	return s.Update(ctx, id, progressUpdate(progress, status))
}

func (s *MemoryStore) MarkCompleted(ctx context.Context, id, fileName, filePath string, fileSize int64) (*domain.Job, error) {
	return s.Update(ctx, id, completedUpdate(fileName, filePath, fileSize))
}

func (s *MemoryStore) MarkFailed(ctx context.Context, id, errMsg string) (*domain.Job, error) {
	return s.Update(ctx, id, failedUpdate(errMsg))
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.jobs[id]
	if ok {
		delete(s.jobs, id)
	}
	return ok, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*domain.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job.Clone())
	}
	return jobs, nil
}

func (s *MemoryStore) Cleanup(_ context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, job := range s.jobs {
		if job.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			deleted++
		}
	}
	return deleted, nil
}
