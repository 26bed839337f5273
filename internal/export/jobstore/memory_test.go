package jobstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportcity/escenarios-export/internal/export/domain"
)

func TestMemoryStore_Create(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	job, err := store.Create(ctx, domain.FormatXLSX, map[string]any{"filters": "none"})
	require.NoError(t, err)
	require.NotNil(t, job)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, domain.StatusPending, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, domain.FormatXLSX, job.Format)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Equal(t, job.CreatedAt, job.UpdatedAt)

	other, err := store.Create(ctx, domain.FormatCSV, nil)
	require.NoError(t, err)
	assert.NotEqual(t, job.ID, other.ID)
}

func TestMemoryStore_Get(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	t.Run("unknown id returns nil without error", func(t *testing.T) {
		job, err := store.Get(ctx, "no-such-id")
		require.NoError(t, err)
		assert.Nil(t, job)
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		created, err := store.Create(ctx, domain.FormatCSV, nil)
		require.NoError(t, err)

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		got.Progress = 77
		again, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Progress)
	})
}

func TestMemoryStore_UpdateProgress(t *testing.T) {
	tests := []struct {
		name         string
		progress     int
		status       domain.Status
		wantProgress int
		wantStatus   domain.Status
	}{
		{
			name:         "progress with status change",
			progress:     20,
			status:       domain.StatusProcessing,
			wantProgress: 20,
			wantStatus:   domain.StatusProcessing,
		},
		{
			name:         "progress only keeps current status",
			progress:     40,
			status:       "",
			wantProgress: 40,
			wantStatus:   domain.StatusPending,
		},
		{
			name:         "negative progress clamps to 0",
			progress:     -5,
			status:       "",
			wantProgress: 0,
			wantStatus:   domain.StatusPending,
		},
		{
			name:         "progress above 100 clamps to 100",
			progress:     150,
			status:       "",
			wantProgress: 100,
			wantStatus:   domain.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			ctx := context.Background()

			created, err := store.Create(ctx, domain.FormatXLSX, nil)
			require.NoError(t, err)

			job, err := store.UpdateProgress(ctx, created.ID, tt.progress, tt.status)
			require.NoError(t, err)
			require.NotNil(t, job)

			assert.Equal(t, tt.wantProgress, job.Progress)
			assert.Equal(t, tt.wantStatus, job.Status)
		})
	}
}

func TestMemoryStore_MarkCompleted(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, domain.FormatXLSX, nil)
	require.NoError(t, err)

	job, err := store.MarkCompleted(ctx, created.ID, "escenarios_x.xlsx", "/tmp/escenarios_x.xlsx", 2048)
	require.NoError(t, err)
	require.NotNil(t, job)

	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, "escenarios_x.xlsx", job.FileName)
	assert.Equal(t, "/tmp/escenarios_x.xlsx", job.FilePath)
	assert.Equal(t, int64(2048), job.FileSize)
}

func TestMemoryStore_MarkFailed(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, domain.FormatCSV, nil)
	require.NoError(t, err)

	// Failure happens mid-run; the progress reached so far must survive.
	_, err = store.UpdateProgress(ctx, created.ID, 60, domain.StatusProcessing)
	require.NoError(t, err)

	job, err := store.MarkFailed(ctx, created.ID, "source unavailable")
	require.NoError(t, err)
	require.NotNil(t, job)

	assert.Equal(t, domain.StatusFailed, job.Status)
	assert.Equal(t, 60, job.Progress)
	assert.Equal(t, "source unavailable", job.Error)
}

func TestMemoryStore_TerminalJobsAreImmutable(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, domain.FormatXLSX, nil)
	require.NoError(t, err)

	_, err = store.MarkCompleted(ctx, created.ID, "f.xlsx", "/tmp/f.xlsx", 100)
	require.NoError(t, err)

	// A stale progress write racing the terminal transition is ignored.
	job, err := store.UpdateProgress(ctx, created.ID, 40, domain.StatusProcessing)
	require.NoError(t, err)
	require.NotNil(t, job)

	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)

	job, err = store.MarkFailed(ctx, created.ID, "too late")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Empty(t, job.Error)
}

func TestMemoryStore_UpdateUnknownID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	job, err := store.UpdateProgress(ctx, "no-such-id", 50, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, domain.FormatCSV, nil)
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	job, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, job)

	deleted, err = store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryStore_ListAll(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	jobs, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, domain.FormatXLSX, nil)
		require.NoError(t, err)
	}

	jobs, err = store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
}

func TestMemoryStore_Cleanup(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	old, err := store.Create(ctx, domain.FormatXLSX, nil)
	require.NoError(t, err)
	fresh, err := store.Create(ctx, domain.FormatCSV, nil)
	require.NoError(t, err)

	// Age the first record past the retention window.
	store.mu.Lock()
	store.jobs[old.ID].UpdatedAt = time.Now().Add(-25 * time.Hour)
	store.mu.Unlock()

	deleted, err := store.Cleanup(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	gone, err := store.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := store.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
