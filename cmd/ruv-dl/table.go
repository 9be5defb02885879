package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// episodeTable accumulates rows and renders them as a rounded table. The
// zero value is not usable; construct with newEpisodeTable.
type episodeTable struct {
	writer      table.Writer
	columnCount int
}

func newEpisodeTable(out io.Writer, headers ...string) *episodeTable {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	return &episodeTable{writer: tw, columnCount: len(headers)}
}

// rightAlign right-aligns the given 1-based columns (sizes, counts).
func (t *episodeTable) rightAlign(columns ...int) {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, column := range columns {
		configs = append(configs, table.ColumnConfig{
			Number:      column,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	t.writer.SetColumnConfigs(configs)
}

func (t *episodeTable) addRow(cells ...string) {
	row := make(table.Row, t.columnCount)
	for i := 0; i < t.columnCount; i++ {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	t.writer.AppendRow(row)
}

func (t *episodeTable) render() {
	t.writer.Render()
}
