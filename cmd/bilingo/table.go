package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// emptyCell stands in for blank values so columns never look misaligned.
const emptyCell = "-"

// tableColumn describes one column. A positive maxWidth soft-wraps longer
// values at word boundaries.
type tableColumn struct {
	header   string
	align    columnAlignment
	maxWidth int
}

func col(header string) tableColumn { return tableColumn{header: header} }

func (c tableColumn) right() tableColumn {
	c.align = alignRight
	return c
}

func (c tableColumn) wrapAt(width int) tableColumn {
	c.maxWidth = width
	return c
}

func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.header
		align := text.AlignLeft
		if c.align == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
		if c.maxWidth > 0 {
			configs[i].WidthMax = c.maxWidth
			configs[i].WidthMaxEnforcer = text.WrapSoft
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			if cell == "" {
				cell = emptyCell
			}
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
