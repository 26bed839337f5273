package jobstore

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sportcity/escenarios-export/internal/export/domain"
)

// DurableStore is a Store with a health probe. RedisStore satisfies it.
type DurableStore interface {
	Store
	Ping(ctx context.Context) error
}

// Stats describes which backend is active and how many jobs it holds.
// Diagnostic only; nothing branches on it.
type Stats struct {
	Backend  string         `json:"backend"`
	JobCount int            `json:"jobCount"`
	ByStatus map[string]int `json:"byStatus"`
}

// Resilient presents the Store contract over a durable backend and an
// in-process fallback. While the availability flag is set, operations
// go to the durable store; any error demotes to the fallback and the
// same logical operation is retried there. A periodic health probe
// re-promotes the durable backend when it recovers.
//
// The flag is a single atomic bool with no lock around check-then-act;
// two concurrent demotions are benign and self-correcting.
type Resilient struct {
	durable   DurableStore
	fallback  Store
	logger    *slog.Logger
	available atomic.Bool
}

// NewResilient builds the facade and runs the startup health probe.
func NewResilient(ctx context.Context, durable DurableStore, fallback Store, logger *slog.Logger) *Resilient {
	r := &Resilient{
		durable:  durable,
		fallback: fallback,
		logger:   logger,
	}
	r.CheckHealth(ctx)
	return r
}

// CheckHealth probes the durable backend and updates the availability
// flag. Called at startup and by the health monitor loop.
func (r *Resilient) CheckHealth(ctx context.Context) bool {
	err := r.durable.Ping(ctx)
	healthy := err == nil

	was := r.available.Swap(healthy)
	switch {
	case healthy && !was:
		r.logger.Info("Durable job store available, switching from fallback")
	case !healthy && was:
		r.logger.Warn("Durable job store unavailable, using in-memory fallback",
			slog.String("error", err.Error()),
		)
	}
	return healthy
}

// StartHealthMonitor probes the durable backend on a fixed interval
// until the context is canceled. This replaces connection-level
// ready/error events: a failed probe demotes, a successful one
// re-promotes.
func (r *Resilient) StartHealthMonitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.CheckHealth(ctx)
			}
		}
	}()
}

// ActiveBackend reports which backend currently services operations.
func (r *Resilient) ActiveBackend() string {
	if r.available.Load() {
		return "redis"
	}
	return "memory"
}

// demote flips the flag off after a durable-backend failure. The failed
// operation is then replayed against the fallback by the caller; a
// failed durable write never half-applies because each Redis write is a
// single SET.
func (r *Resilient) demote(op string, err error) {
	r.available.Store(false)
	r.logger.Warn("Durable job store operation failed, falling back to memory",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

func (r *Resilient) Create(ctx context.Context, format domain.Format, metadata map[string]any) (*domain.Job, error) {
	if r.available.Load() {
		job, err := r.durable.Create(ctx, format, metadata)
		if err == nil {
			return job, nil
		}
		r.demote("create", err)
	}
	return r.fallback.Create(ctx, format, metadata)
}

func (r *Resilient) Get(ctx context.Context, id string) (*domain.Job, error) {
	if r.available.Load() {
		job, err := r.durable.Get(ctx, id)
		if err == nil {
			if job != nil {
				return job, nil
			}
			// Not found in Redis; the record may live in the fallback
			// from an earlier outage window.
		} else {
			r.demote("get", err)
		}
	}
	return r.fallback.Get(ctx, id)
}

func (r *Resilient) Update(ctx context.Context, id string, upd domain.JobUpdate) (*domain.Job, error) {
	if r.available.Load() {
		job, err := r.durable.Update(ctx, id, upd)
		if err == nil {
			if job != nil {
				return job, nil
			}
		} else {
			r.demote("update", err)
		}
	}
	return r.fallback.Update(ctx, id, upd)
}

func (r *Resilient) UpdateProgress(ctx context.Context, id string, progress int, status domain.Status) (*domain.Job, error) {
	return r.Update(ctx, id, progressUpdate(progress, status))
}

func (r *Resilient) MarkCompleted(ctx context.Context, id, fileName, filePath string, fileSize int64) (*domain.Job, error) {
	return r.Update(ctx, id, completedUpdate(fileName, filePath, fileSize))
}

func (r *Resilient) MarkFailed(ctx context.Context, id, errMsg string) (*domain.Job, error) {
	return r.Update(ctx, id, failedUpdate(errMsg))
}

func (r *Resilient) Delete(ctx context.Context, id string) (bool, error) {
	if r.available.Load() {
		deleted, err := r.durable.Delete(ctx, id)
		if err == nil {
			return deleted, nil
		}
		r.demote("delete", err)
	}
	return r.fallback.Delete(ctx, id)
}

func (r *Resilient) ListAll(ctx context.Context) ([]*domain.Job, error) {
	if r.available.Load() {
		jobs, err := r.durable.ListAll(ctx)
		if err == nil {
			return jobs, nil
		}
		r.demote("list_all", err)
	}
	return r.fallback.ListAll(ctx)
}

func (r *Resilient) Cleanup(ctx context.Context, olderThan time.Duration) (int, error) {
	if r.available.Load() {
		count, err := r.durable.Cleanup(ctx, olderThan)
		if err == nil {
			return count, nil
		}
		r.demote("cleanup", err)
	}
	return r.fallback.Cleanup(ctx, olderThan)
}

// Stats returns the active backend, the job count, and a per-status
// breakdown for operational visibility.
func (r *Resilient) Stats(ctx context.Context) (Stats, error) {
	jobs, err := r.ListAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	byStatus := map[string]int{
		string(domain.StatusPending):    0,
		string(domain.StatusProcessing): 0,
		string(domain.StatusCompleted):  0,
		string(domain.StatusFailed):     0,
	}
	for _, job := range jobs {
		byStatus[string(job.Status)]++
	}

	return Stats{
		Backend:  r.ActiveBackend(),
		JobCount: len(jobs),
		ByStatus: byStatus,
	}, nil
}
