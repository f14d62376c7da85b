package main

import (
	"encoding/json"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. When status is set, cells are colored
// by the kind it returns for the cell text.
type column struct {
	title  string
	align  text.Align
	status func(string) statusKind
}

func col(title string) column { return column{title: title, align: text.AlignLeft} }

func numCol(title string) column { return column{title: title, align: text.AlignRight} }

func statusCol(title string, kind func(string) statusKind) column {
	return column{title: title, align: text.AlignLeft, status: kind}
}

// renderTable lays rows out under columns. Short rows are padded; extra cells
// are dropped.
func renderTable(columns []column, rows [][]string, colorize bool) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, c := range columns {
		header[i] = c.title
		cfg := table.ColumnConfig{Number: i + 1, Align: c.align, AlignHeader: text.AlignLeft}
		if c.status != nil && colorize {
			kind := c.status
			cfg.Transformer = func(val any) string {
				s, _ := val.(string)
				return colorizeStatus(s, kind(s), true)
			}
		}
		configs = append(configs, cfg)
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

// writeJSON writes v as indented JSON. HTML escaping is off so file names
// containing & < > appear as they are on disk.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
