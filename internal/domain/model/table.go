package model

// Table is the unified event table built from one or more uploaded files.
// It is not mutated after ingestion; filters produce new row slices.
type Table struct {
	// Columns is the column union across all files, sourceFile first.
	Columns []string
	// Files lists the source file names in upload order.
	Files []string
	// Rows holds every event in file order, then row order.
	Rows []Event
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether any ingested file carried the column.
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Head returns up to n rows from the start of the table.
func (t *Table) Head(n int) []Event {
	if t == nil || n <= 0 {
		return nil
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// Distinct returns the distinct present values of a categorical field over
// rows, in first-seen order.
func Distinct(rows []Event, f Field) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range rows {
		v, ok := rows[i].Text(f)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// DistinctFiles returns the distinct source file names over rows, in first-seen order.
func DistinctFiles(rows []Event) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range rows {
		name := rows[i].SourceFile
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
