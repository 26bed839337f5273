package filewriter

// Column describes one exportable column: the key clients use in an
// includeFields allow-list and the localized header written to the
// file.
type Column struct {
	Key    string
	Header string
}

// Table is the shaped result of an export: ordered columns and one row
// of cell values per source record. Both output formats serialize the
// same table.
type Table struct {
	// Title names the sheet in spreadsheet output.
	Title   string
	Columns []Column
	Rows    [][]string
}

// Headers returns the ordered header labels.
func (t *Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
	}
	return headers
}

// Select reduces the table to the columns whose keys appear in the
// allow-list, in allow-list order. Unknown keys are silently ignored.
// An empty allow-list returns the table unchanged.
func (t *Table) Select(includeFields []string) *Table {
	if len(includeFields) == 0 {
		return t
	}

	indices := make([]int, 0, len(includeFields))
	columns := make([]Column, 0, len(includeFields))
	for _, field := range includeFields {
		for i, col := range t.Columns {
			if col.Key == field {
				indices = append(indices, i)
				columns = append(columns, col)
				break
			}
		}
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(indices))
		for j, idx := range indices {
			cells[j] = row[idx]
		}
		rows[i] = cells
	}

	return &Table{
		Title:   t.Title,
		Columns: columns,
		Rows:    rows,
	}
}
