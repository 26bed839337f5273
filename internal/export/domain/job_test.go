package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		format   Format
		valid    bool
		ext      string
		mimePart string
	}{
		{FormatXLSX, true, "xlsx", "spreadsheetml"},
		{FormatCSV, true, "csv", "text/csv"},
		{Format("pdf"), false, "pdf", "text/csv"},
		{Format(""), false, "", "text/csv"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.format.Valid())
			assert.Equal(t, tt.ext, tt.format.Extension())
			assert.Contains(t, tt.format.MIME(), tt.mimePart)
		})
	}
}

func TestJobUpdate_Apply(t *testing.T) {
	t.Run("nil fields leave the job untouched", func(t *testing.T) {
		job := &Job{Status: StatusProcessing, Progress: 40, FileName: "f.csv"}

		JobUpdate{}.Apply(job)

		assert.Equal(t, StatusProcessing, job.Status)
		assert.Equal(t, 40, job.Progress)
		assert.Equal(t, "f.csv", job.FileName)
	})

	t.Run("set fields are merged", func(t *testing.T) {
		job := &Job{Status: StatusPending}

		status := StatusProcessing
		progress := 20
		JobUpdate{Status: &status, Progress: &progress}.Apply(job)

		assert.Equal(t, StatusProcessing, job.Status)
		assert.Equal(t, 20, job.Progress)
	})

	t.Run("progress is clamped to the valid range", func(t *testing.T) {
		job := &Job{}

		over := 150
		JobUpdate{Progress: &over}.Apply(job)
		assert.Equal(t, 100, job.Progress)

		under := -10
		JobUpdate{Progress: &under}.Apply(job)
		assert.Equal(t, 0, job.Progress)
	})
}

func TestJob_Clone(t *testing.T) {
	job := &Job{
		ID:       "abc",
		Status:   StatusProcessing,
		Metadata: map[string]any{"filters": "none"},
	}

	cp := job.Clone()
	cp.Status = StatusFailed
	cp.Metadata["filters"] = "changed"

	assert.Equal(t, StatusProcessing, job.Status)
	assert.Equal(t, "none", job.Metadata["filters"])
}
