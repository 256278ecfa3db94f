package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// writeTable renders a light box table to w. Headers keep the caller's
// casing, and rows shorter than the header are padded with empty cells.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault

	tw.AppendHeader(tableRow(headers, len(headers)))
	for _, cells := range rows {
		tw.AppendRow(tableRow(cells, len(headers)))
	}
	tw.Render()
}

func tableRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}
