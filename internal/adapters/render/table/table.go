// Package table writes pivot and value-count tables as aligned text.
package table

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/okian/rugbylens/internal/domain/pivot"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// WritePivot writes the player pivot under its caption. Zero cells are blank.
func WritePivot(w io.Writer, caption string, p pivot.Table) error {
	if caption != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", caption); err != nil {
			return err
		}
	}
	table := newTable(w)

	header := make([]any, 0, len(p.Columns)+2)
	header = append(header, "#", "PLAYER")
	for _, c := range p.Columns {
		header = append(header, c)
	}
	table.Header(header...)

	for i, r := range p.Rows {
		cells := make([]any, 0, len(p.Columns)+2)
		cells = append(cells, strconv.Itoa(r.ShirtNumber), r.PlayerName)
		for j := range p.Columns {
			cells = append(cells, p.Cell(i, j))
		}
		if err := table.Append(cells...); err != nil {
			return fmt.Errorf("append pivot row: %w", err)
		}
	}
	return table.Render()
}

// WriteCounts writes the flat value-count table under its caption.
func WriteCounts(w io.Writer, caption, column string, counts []pivot.ValueCount) error {
	if caption != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", caption); err != nil {
			return err
		}
	}
	table := newTable(w)
	table.Header(column, "COUNT")
	for _, vc := range counts {
		if err := table.Append(vc.Value, strconv.Itoa(vc.Count)); err != nil {
			return fmt.Errorf("append count row: %w", err)
		}
	}
	return table.Render()
}

// WriteList writes one labelled column of values, e.g. a filter universe.
func WriteList(w io.Writer, label string, values []string) error {
	table := newTable(w)
	table.Header(label)
	for _, v := range values {
		if err := table.Append([]string{v}); err != nil {
			return fmt.Errorf("append %s: %w", label, err)
		}
	}
	return table.Render()
}
