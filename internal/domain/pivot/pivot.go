// Package pivot cross-tabulates filtered rows by player and a categorical
// display field.
package pivot

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/okian/rugbylens/internal/domain/model"
)

// TotalColumn is the derived row-sum column. It is always first.
const TotalColumn = "Total"

// PlayerKey identifies one pivot row.
type PlayerKey struct {
	ShirtNumber int    `json:"shirt_number"`
	PlayerName  string `json:"player_name"`
}

// Row is one player's counts. Counts[i] belongs to Table.Columns[i].
type Row struct {
	PlayerKey
	Counts []int `json:"counts"`
}

// Table is the player × display value cross-tabulation.
type Table struct {
	// Columns starts with TotalColumn followed by the display values.
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Cell returns the display string for row i and column j. Zero renders blank.
func (t *Table) Cell(i, j int) string {
	n := t.Rows[i].Counts[j]
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// ValueCount is the occurrence count of one display value.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Build groups rows by (shirt number, player name) and counts each display
// value. Rows missing a key or the display value are left out.
func Build(rows []model.Detail, field model.Field) Table {
	counts := make(map[PlayerKey]map[string]int)
	values := make(map[string]struct{})
	for i := range rows {
		d := &rows[i]
		if !d.Has(model.FieldPlayerShirtNumber | model.FieldPlayerName) {
			continue
		}
		v, ok := d.Text(field)
		if !ok {
			continue
		}
		k := PlayerKey{ShirtNumber: d.PlayerShirtNumber, PlayerName: d.PlayerName}
		m, ok := counts[k]
		if !ok {
			m = make(map[string]int)
			counts[k] = m
		}
		m[v]++
		values[v] = struct{}{}
	}

	cols := make([]string, 0, len(values))
	for v := range values {
		cols = append(cols, v)
	}
	sort.Strings(cols)

	keys := make([]PlayerKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ShirtNumber != keys[j].ShirtNumber {
			return keys[i].ShirtNumber < keys[j].ShirtNumber
		}
		return keys[i].PlayerName < keys[j].PlayerName
	})

	t := Table{
		Columns: append([]string{TotalColumn}, cols...),
		Rows:    make([]Row, len(keys)),
	}
	for i, k := range keys {
		c := make([]int, len(t.Columns))
		for j, v := range cols {
			n := counts[k][v]
			c[j+1] = n
			c[0] += n
		}
		t.Rows[i] = Row{PlayerKey: k, Counts: c}
	}
	return t
}

// Counts returns the occurrence count of each present display value, most
// frequent first. Ties keep first-seen order.
func Counts(rows []model.Detail, field model.Field) []ValueCount {
	idx := make(map[string]int)
	var out []ValueCount
	for i := range rows {
		v, ok := rows[i].Text(field)
		if !ok {
			continue
		}
		j, seen := idx[v]
		if !seen {
			j = len(out)
			idx[v] = j
			out = append(out, ValueCount{Value: v})
		}
		out[j].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// PivotCaption labels the pivot table for an action type and display column.
func PivotCaption(actionType, column string) string {
	return fmt.Sprintf("Player involvement in %s Actions by %s:", actionType, column)
}

// CountsCaption labels the value-count table.
func CountsCaption(actionType, column string) string {
	return fmt.Sprintf("Results for %s Actions by %s:", actionType, column)
}
