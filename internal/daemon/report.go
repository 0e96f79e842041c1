package daemon

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ukaji3/baip-parser-go/pkg/baip"
)

// report prints the rows a dry run would have written.
func (d *Daemon) report(res *baip.DumpResult, opts baip.Options) {
	w := baip.NewWriter(opts)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(res.Headers))
	for i, h := range res.Headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range res.Rows {
		values := w.ThresholdRow(w.TruncateRow(row.Strings(), res.Headers), res.Headers)
		r := make(table.Row, len(values))
		for i, v := range values {
			r[i] = v
		}
		tw.AppendRow(r)
	}

	fmt.Fprintln(d.out, tw.Render())
	fmt.Fprintf(d.out, "%d rows; output would be written to %s\n", len(res.Rows), res.Path)
}
