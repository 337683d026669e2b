// Package plot renders comparison figures of catalog and reference color
// distributions as standalone HTML pages, one chart per color laid out in two
// columns.
package plot

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Sentinel errors.
var (
	ErrUnknownTheme = errors.New("unknown plot theme")
	ErrNoPanels     = errors.New("figure has no panels")
)

const (
	chartWidth  = "560px"
	chartHeight = "400px"
	lineWidth   = 2
	filePerm    = 0o644
)

// Step placement of a step series, as understood by ECharts.
const (
	StepStart  = "start"
	StepMiddle = "middle"
	StepEnd    = "end"
)

// Series is one curve of a panel.
type Series struct {
	Name string
	X    []float64
	Y    []float64
	// Step selects step drawing; empty draws straight segments.
	Step string
	// Reference marks the observational curve for coloring.
	Reference bool
}

// Panel is one chart of a figure.
type Panel struct {
	Title  string
	XLabel string
	YLabel string
	XMin   float64
	XMax   float64
	YMin   *float64
	YMax   *float64
	Series []Series
}

// Renderer writes figures as HTML pages.
type Renderer struct {
	theme Theme
}

// NewRenderer returns a renderer using the given theme.
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Render writes a figure with one chart per panel to path.
func (r *Renderer) Render(path, title string, panels []Panel) (err error) {
	if len(panels) == 0 {
		return ErrNoPanels
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("create figure: %w", err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return r.Write(f, title, panels)
}

// Write renders the figure page to w.
func (r *Renderer) Write(w io.Writer, title string, panels []Panel) error {
	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)

	co := NewChartOpts(r.theme)
	theme := GetThemeConfig(r.theme)

	for _, p := range panels {
		page.AddCharts(buildChart(p, co, theme))
	}

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render figure: %w", err)
	}

	return nil
}

func buildChart(p Panel, co *ChartOpts, theme ThemeConfig) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(co.Title(p.Title)),
		charts.WithLegendOpts(co.Legend()),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithXAxisOpts(co.XAxis(p.XLabel, p.XMin, p.XMax)),
		charts.WithYAxisOpts(co.YAxis(p.YLabel, p.YMin, p.YMax)),
		charts.WithGridOpts(co.Grid()),
	)

	for _, s := range p.Series {
		color := theme.Catalog
		if s.Reference {
			color = theme.Reference
		}

		line.AddSeries(s.Name, seriesData(s),
			charts.WithLineChartOpts(opts.LineChart{Step: s.Step, ShowSymbol: opts.Bool(false)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth, Color: color}),
		)
	}

	return line
}

// seriesData pairs X and Y for a value x-axis.
func seriesData(s Series) []opts.LineData {
	n := min(len(s.X), len(s.Y))
	data := make([]opts.LineData, n)

	for i := range n {
		data[i] = opts.LineData{Value: []any{s.X[i], s.Y[i]}}
	}

	return data
}
