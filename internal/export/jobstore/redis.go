package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sportcity/escenarios-export/internal/export/domain"
)

const (
	// keyPrefix namespaces job records in Redis.
	keyPrefix = "export_job:"

	// jobTTL is refreshed on every write, so records expire 24h after
	// their last update even without an explicit Cleanup call.
	jobTTL = 24 * time.Hour

	scanBatchSize = 100
)

// RedisStore persists job records as JSON values under expiring keys.
// Unlike MemoryStore it surfaces transport errors to its caller; the
// Resilient facade uses them to demote to the fallback.
type RedisStore struct {
	rc     *redis.Client
	logger *slog.Logger
}

// NewRedisStore creates a Redis-backed job store.
func NewRedisStore(rc *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		rc:     rc,
		logger: logger,
	}
}

// Ping probes the Redis connection. The Resilient facade uses it as
// the health check driving backend selection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rc.Ping(ctx).Err()
}

func (s *RedisStore) Create(ctx context.Context, format domain.Format, metadata map[string]any) (*domain.Job, error) {
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

	if err := s.save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	data, err := s.rc.Get(ctx, jobKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}

	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, upd domain.JobUpdate) (*domain.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	// Terminal jobs are immutable; late writes are ignored.
	if job.Status.Terminal() {
		return job, nil
	}

	upd.Apply(job)
	job.UpdatedAt = time.Now()

	if err := s.save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *RedisStore) UpdateProgress(ctx context.Context, id string, progress int, status domain.Status) (*domain.Job, error) {
	return s.Update(ctx, id, progressUpdate(progress, status))
}

func (s *RedisStore) MarkCompleted(ctx context.Context, id, fileName, filePath string, fileSize int64) (*domain.Job, error) {
	return s.Update(ctx, id, completedUpdate(fileName, filePath, fileSize))
}

func (s *RedisStore) MarkFailed(ctx context.Context, id, errMsg string) (*domain.Job, error) {
	return s.Update(ctx, id, failedUpdate(errMsg))
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.rc.Del(ctx, jobKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete job %s: %w", id, err)
	}
	return deleted > 0, nil
}

// ListAll scans every key under the namespace prefix, bulk-fetches the
// values in one pipeline, and skips entries that fail to parse.
func (s *RedisStore) ListAll(ctx context.Context) ([]*domain.Job, error) {
	var keys []string
	iter := s.rc.Scan(ctx, 0, keyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan job keys: %w", err)
	}
	if len(keys) == 0 {
		return []*domain.Job{}, nil
	}

	pipe := s.rc.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}
	// A key can expire between SCAN and GET; redis.Nil is not fatal here.
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	jobs := make([]*domain.Job, 0, len(keys))
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			continue
		}
		var job domain.Job
		if err := json.Unmarshal(data, &job); err != nil {
			s.logger.Warn("Skipping unparsable job record",
				slog.String("key", keys[i]),
				slog.String("error", err.Error()),
			)
			continue
		}
		jobs = append(jobs, &job)
	}
	return jobs, nil
}

func (s *RedisStore) Cleanup(ctx context.Context, olderThan time.Duration) (int, error) {
	jobs, err := s.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	pipe := s.rc.Pipeline()
	deleted := 0
	for _, job := range jobs {
		if job.UpdatedAt.Before(cutoff) {
			pipe.Del(ctx, jobKey(job.ID))
			deleted++
		}
	}

	if deleted > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, fmt.Errorf("failed to delete expired jobs: %w", err)
		}
	}
	return deleted, nil
}

// save serializes the job and writes it under its key, refreshing the
// 24h TTL. time.Time fields round-trip as RFC 3339 with zone offset.
func (s *RedisStore) save(ctx context.Context, job *domain.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	if err := s.rc.Set(ctx, jobKey(job.ID), data, jobTTL).Err(); err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

func jobKey(id string) string {
	return keyPrefix + id
}
