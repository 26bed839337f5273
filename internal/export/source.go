// Package export coordinates asynchronous tabular exports: one generic
// orchestrator (Exporter) parameterized by a Source that knows how to
// fetch and shape one entity kind.
package export

import (
	"context"

	"github.com/sportcity/escenarios-export/internal/export/domain"
	"github.com/sportcity/escenarios-export/internal/export/filewriter"
)

// ProgressFunc reports a checkpoint value (0-100) to the job record.
type ProgressFunc func(progress int)

// Source fetches and shapes the rows of one exported entity kind.
type Source interface {
	// Kind names the entity for file naming, e.g. "escenarios".
	Kind() string

	// Fetch loads all rows matching the filters in one shot, resolves
	// referenced entities through bulk lookups, and shapes everything
	// into a table reduced to the includeFields allow-list. It calls
	// report after the primary fetch and after each lookup so the
	// orchestrator's fixed progress checkpoints advance.
	Fetch(ctx context.Context, f domain.Filters, includeFields []string, report ProgressFunc) (*filewriter.Table, error)
}
