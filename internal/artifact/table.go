package artifact

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// TableOptions controls terminal rendering of run records.
type TableOptions struct {
	NoColor bool
}

// RenderTable renders the per-color statistics of a run as a terminal table.
func RenderTable(rec RunRecord, opts TableOptions) string {
	good := newColor(opts.NoColor, color.FgGreen)
	bad := newColor(opts.NoColor, color.FgRed)
	muted := newColor(opts.NoColor, color.FgYellow)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.SetTitle(fmt.Sprintf("%s on %s", rec.Test, rec.Catalog))
	tbl.AppendHeader(table.Row{"Color", "Galaxies", "Statistic", "Value", "Verdict"})

	for _, c := range rec.Colors {
		if c.Skipped {
			tbl.AppendRow(table.Row{c.Color, "-", "-", "-", muted.Sprint("SKIPPED")})

			continue
		}

		galaxies := humanize.Comma(int64(c.Galaxies))

		for _, s := range c.Statistics {
			verdict := good.Sprint(VerdictSuccess)
			if !s.Passed {
				verdict = bad.Sprint(VerdictFailed)
			}

			tbl.AppendRow(table.Row{c.Color, galaxies, s.Name, strconv.FormatFloat(s.Value, 'G', 6, 64), verdict})
		}
	}

	tbl.AppendFooter(table.Row{"Status", "", "", "", StatusColor(rec.Status, opts.NoColor)})

	return tbl.Render()
}

// StatusColor colors a run status for terminal output.
func StatusColor(status string, noColor bool) string {
	switch status {
	case "PASSED":
		return newColor(noColor, color.FgGreen, color.Bold).Sprint(status)
	case "FAILED":
		return newColor(noColor, color.FgRed, color.Bold).Sprint(status)
	default:
		return newColor(noColor, color.FgYellow, color.Bold).Sprint(status)
	}
}

func newColor(noColor bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if noColor {
		c.DisableColor()
	}

	return c
}
