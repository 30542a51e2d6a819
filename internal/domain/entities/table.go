package entities

// Table is a small column-addressed table holding raw rows between file
// ingestion and schema normalization. Cells are one of nil, string, bool,
// int64, float64 or time.Time; the normalizer coerces them into the
// canonical schema.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]any
}

// NewTable creates an empty table with the given column set
func NewTable(cols []string) *Table {
	t := &Table{
		cols:  make([]string, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for _, c := range cols {
		t.AddColumn(c)
	}
	return t
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	return len(t.rows)
}

// HasColumn reports whether the column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AddColumn appends a column (all nil cells) and returns its index.
// Adding an existing column is a no-op.
func (t *Table) AddColumn(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	i := len(t.cols)
	t.cols = append(t.cols, name)
	t.index[name] = i
	for r := range t.rows {
		t.rows[r] = append(t.rows[r], nil)
	}
	return i
}

// AppendRow adds a row; missing columns default to nil, unknown keys are dropped
func (t *Table) AppendRow(values map[string]any) {
	row := make([]any, len(t.cols))
	for k, v := range values {
		if i, ok := t.index[k]; ok {
			row[i] = v
		}
	}
	t.rows = append(t.rows, row)
}

// Value returns the cell at (row, col); nil when the column is absent
func (t *Table) Value(row int, col string) any {
	i, ok := t.index[col]
	if !ok {
		return nil
	}
	return t.rows[row][i]
}

// SetValue sets the cell at (row, col), creating the column if needed
func (t *Table) SetValue(row int, col string, v any) {
	i := t.AddColumn(col)
	t.rows[row][i] = v
}

// CopyColumn duplicates src under dst, overwriting dst if present
func (t *Table) CopyColumn(src, dst string) {
	si, ok := t.index[src]
	if !ok {
		return
	}
	di := t.AddColumn(dst)
	for r := range t.rows {
		t.rows[r][di] = t.rows[r][si]
	}
}

// Clone returns a deep copy of the table structure (cell values are shared)
func (t *Table) Clone() *Table {
	c := NewTable(t.cols)
	c.rows = make([][]any, len(t.rows))
	for r := range t.rows {
		row := make([]any, len(t.rows[r]))
		copy(row, t.rows[r])
		c.rows[r] = row
	}
	return c
}

// Filter returns a new table containing only rows for which keep returns true
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := NewTable(t.cols)
	for r := range t.rows {
		if keep(r) {
			row := make([]any, len(t.rows[r]))
			copy(row, t.rows[r])
			out.rows = append(out.rows, row)
		}
	}
	return out
}
