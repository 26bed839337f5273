package domain

import "time"

// Status is the lifecycle state of an export job. Jobs move forward
// only: pending -> processing -> completed | failed. Terminal states
// never transition again.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Format is the requested output file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Valid reports whether the format is one of the supported values.
func (f Format) Valid() bool {
	return f == FormatXLSX || f == FormatCSV
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// MIME returns the Content-Type served for downloads in this format.
func (f Format) MIME() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Job is the unit of asynchronous export work, tracked by id. The job
// store owns the canonical record; callers hold only the id and
// round-trip every read and write through the store.
type Job struct {
	ID        string         `json:"id"`
	Status    Status         `json:"status"`
	Progress  int            `json:"progress"`
	Format    Format         `json:"format"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	FileName  string         `json:"fileName,omitempty"`
	FilePath  string         `json:"filePath,omitempty"`
	FileSize  int64          `json:"fileSize,omitempty"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Clone returns a deep-enough copy of the job so that callers cannot
// mutate the stored record through the returned pointer.
func (j *Job) Clone() *Job {
	cp := *j
	if j.Metadata != nil {
		cp.Metadata = make(map[string]any, len(j.Metadata))
		for k, v := range j.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

// JobUpdate is a partial update merged into a stored job. Nil fields
// are left untouched.
type JobUpdate struct {
	Status   *Status
	Progress *int
	FileName *string
	FilePath *string
	FileSize *int64
	Error    *string
}

// Apply merges the update into the job. Progress is clamped to [0,100].
func (u JobUpdate) Apply(j *Job) {
	if u.Status != nil {
		j.Status = *u.Status
	}
	if u.Progress != nil {
		j.Progress = clampProgress(*u.Progress)
	}
	if u.FileName != nil {
		j.FileName = *u.FileName
	}
	if u.FilePath != nil {
		j.FilePath = *u.FilePath
	}
	if u.FileSize != nil {
		j.FileSize = *u.FileSize
	}
	if u.Error != nil {
		j.Error = *u.Error
	}
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
