// Package render presents finished reports as terminal tables and as HTML
// bar charts.
package render

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/programme-lv/algobench/api"
)

// FormatValue renders a mean in its unit: durations for seconds, three
// decimals for everything else.
func FormatValue(unit string, v float64) string {
	if unit == "s" {
		return time.Duration(math.Round(v * float64(time.Second))).String()
	}
	return fmt.Sprintf("%.3f %s", v, unit)
}

// Table writes one row per algorithm and one column per parameter. Cells
// backed by timed-out trials are marked with "*", faulted ones with "!".
func Table(w io.Writer, fam api.FamilyReport, colored bool) {
	// go-pretty wraps titles to the table width, so the title gets its own line.
	fmt.Fprintln(w, fam.Title)

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Algorithm"}
	for _, n := range fam.Params {
		header = append(header, fmt.Sprintf("n=%d", n))
	}
	t.AppendHeader(header)

	marked := false
	for _, s := range fam.Series {
		row := table.Row{s.Algorithm}
		for i, v := range s.Values {
			cell := FormatValue(fam.Unit, v)
			if i < len(s.Timeouts) && s.Timeouts[i] > 0 {
				cell += " *"
				marked = true
			}
			if i < len(s.Faults) && s.Faults[i] > 0 {
				cell += " !"
				marked = true
			}
			row = append(row, cell)
		}
		t.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, 0, len(fam.Params))
	for i := range fam.Params {
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	if colored {
		t.SetStyle(table.StyleColoredDark)
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.Style().Format.Header = text.FormatDefault
	t.Render()

	if marked {
		fmt.Fprintln(w, "* some trials timed out, ! some trials failed; both count as 0")
	}
}
