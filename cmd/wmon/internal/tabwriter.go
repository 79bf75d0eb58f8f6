package internal

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// TabWriter prints rows of values under a fixed set of headers.
type TabWriter struct {
	table   *tablewriter.Table
	headers []string
}

// NewTabWriter returns a TabWriter printing to w.
func NewTabWriter(w io.Writer) *TabWriter {
	t := tablewriter.NewWriter(w)
	t.SetBorder(false)
	t.SetHeaderLine(false)
	t.SetColumnSeparator("")
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return &TabWriter{table: t}
}

// WriteHeaders sets the column headers.
func (w *TabWriter) WriteHeaders(h ...string) {
	w.headers = h
	w.table.SetHeader(h)
}

// Write adds a row, picking the value of each header from m.
func (w *TabWriter) Write(m map[string]interface{}) {
	row := make([]string, len(w.headers))
	for i, h := range w.headers {
		if v, ok := m[h]; ok {
			row[i] = fmt.Sprint(v)
		}
	}
	w.table.Append(row)
}

// Flush renders the table.
func (w *TabWriter) Flush() {
	w.table.Render()
}
