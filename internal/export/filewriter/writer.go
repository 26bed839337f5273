// Package filewriter renders shaped export tables to spreadsheet or
// CSV files under a fixed exports directory.
package filewriter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Result describes a finished export file. The orchestrator folds it
// into the terminal job state; it is not persisted on its own.
type Result struct {
	FileName string
	FilePath string
	FileSize int64
}

// Writer serializes tables into files under its exports directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// New creates a Writer rooted at dir, creating the directory (and
// parents) if absent. MkdirAll is idempotent, so concurrent writers
// racing on first use cannot fail here.
func New(dir string, logger *slog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create exports directory %s: %w", dir, err)
	}
	return &Writer{
		dir:    dir,
		logger: logger,
	}, nil
}

// Dir returns the exports directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteXLSX renders the table as a spreadsheet named
// {kind}_{timestamp}.xlsx and returns its on-disk metadata.
func (w *Writer) WriteXLSX(kind string, t *Table) (*Result, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Title
	if sheet == "" {
		sheet = "Export"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := t.Headers()
	if err := setRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}
	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	// Column widths are cosmetic only.
	for i, header := range headers {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		width := float64(len(header)) + 6
		if width < 12 {
			width = 12
		}
		_ = f.SetColWidth(sheet, name, name, width)
	}

	path := w.buildPath(kind, "xlsx")
	if err := f.SaveAs(path); err != nil {
		w.removePartial(path)
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return w.finish(path)
}

// WriteCSV renders the table as {kind}_{timestamp}.csv.
func (w *Writer) WriteCSV(kind string, t *Table) (*Result, error) {
	path := w.buildPath(kind, "csv")

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create csv file: %w", err)
	}

	cw := csv.NewWriter(file)
	writeErr := cw.Write(t.Headers())
	if writeErr == nil {
		writeErr = cw.WriteAll(t.Rows)
	}
	if closeErr := file.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		w.removePartial(path)
		return nil, fmt.Errorf("failed to write csv: %w", writeErr)
	}
	return w.finish(path)
}

// FilePath returns the path a file of the given name would have inside
// the exports directory.
func (w *Writer) FilePath(fileName string) string {
	return filepath.Join(w.dir, fileName)
}

// CleanupOldFiles would reclaim disk space from old export files.
// TODO: sweep the exports directory for files older than the retention
// window once a retention policy for downloaded exports is agreed.
func (w *Writer) CleanupOldFiles(olderThan time.Duration) int {
	return 0
}

// finish stats the written file so FileSize is the authoritative
// on-disk byte count, not an in-memory estimate.
func (w *Writer) finish(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		w.removePartial(path)
		return nil, fmt.Errorf("failed to stat export file: %w", err)
	}
	return &Result{
		FileName: info.Name(),
		FilePath: path,
		FileSize: info.Size(),
	}, nil
}

// buildPath names the file {kind}_{timestamp}.{ext} with a
// filesystem-safe timestamp. Nanosecond precision keeps names unique
// within one process lifetime.
func (w *Writer) buildPath(kind, ext string) string {
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return filepath.Join(w.dir, fmt.Sprintf("%s_%s.%s", kind, ts, ext))
}

func (w *Writer) removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		w.logger.Warn("Failed to remove partial export file",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
