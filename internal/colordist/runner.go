// Package colordist validates the galaxy color distributions of a mock
// catalog against observational reference data. For every configured color
// it bins mag1-mag2 into a normalized histogram, builds the cumulative
// distribution and compares it with the reference CDF using distance
// statistics.
package colordist

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/calcstats"
	"github.com/Sumatoshi-tech/colordist/internal/catalog"
	"github.com/Sumatoshi-tech/colordist/internal/plot"
	"github.com/Sumatoshi-tech/colordist/internal/validation"
)

// tracerName is the default OTel tracer name for the package.
const tracerName = "colordist"

// Color outcomes reported to the Recorder.
const (
	OutcomeCompared        = "compared"
	OutcomeMissingQuantity = "missing_quantity"
	OutcomeNoData          = "no_data"
)

// Plotter renders a comparison figure.
type Plotter interface {
	Render(path, title string, panels []plot.Panel) error
}

// Recorder receives run measurements.
type Recorder interface {
	RecordRun(ctx context.Context, status string)
	RecordColor(ctx context.Context, outcome string, galaxies int)
	RecordStatistic(ctx context.Context, name string, value float64, passed bool)
}

// Deps are the collaborators of a Test. Nil fields fall back to defaults.
type Deps struct {
	Logger *slog.Logger
	// Tracer falls back to otel.Tracer("colordist").
	Tracer  trace.Tracer
	Metrics Recorder
	// Statistics falls back to calcstats.Standard with the configured thresholds.
	Statistics []calcstats.Named
	// Plotter falls back to a light-themed plot.Renderer.
	Plotter Plotter
}

// Test is the color distribution validation test.
type Test struct {
	opts       Options
	plan       plan
	comparator Comparator
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    Recorder
	plotter    Plotter
}

// New validates opts and builds a test.
func New(opts Options, deps Deps) (*Test, error) {
	p, err := opts.validate()
	if err != nil {
		return nil, err
	}

	t := &Test{
		opts:    opts,
		plan:    p,
		logger:  deps.Logger,
		tracer:  deps.Tracer,
		metrics: deps.Metrics,
		plotter: deps.Plotter,
	}

	if t.logger == nil {
		t.logger = slog.Default()
	}

	if t.tracer == nil {
		t.tracer = otel.Tracer(tracerName)
	}

	if t.metrics == nil {
		t.metrics = nopRecorder{}
	}

	if t.plotter == nil {
		t.plotter = plot.NewRenderer(plot.ThemeLight)
	}

	statistics := deps.Statistics
	if statistics == nil {
		statistics = calcstats.Standard(p.thresholds)
	}

	t.comparator = NewComparator(statistics)

	return t, nil
}

// Name implements validation.Test.
func (t *Test) Name() string {
	return TestName
}

// figures collects the chart panels of a run.
type figures struct {
	cdf []plot.Panel
	pdf []plot.Panel
}

// Run compares every configured color of cat with the reference data and
// writes the summary, log and figures into outputDir. A no-data condition on
// any color ends the run with SKIPPED. Otherwise the run passes when at least
// one color produced a catalog histogram.
func (t *Test) Run(ctx context.Context, cat catalog.Catalog, catalogName, outputDir string) (validation.Result, error) {
	ctx, span := t.tracer.Start(ctx, "colordist.run",
		trace.WithAttributes(
			attribute.String("catalog", catalogName),
			attribute.Int("colors", len(t.plan.colors)),
			attribute.Bool("plot_pdf", t.opts.PlotPDF),
		))
	defer span.End()

	res, err := t.run(ctx, cat, catalogName, artifact.NewDir(outputDir, t.opts.Outputs))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return validation.Result{}, err
	}

	span.SetAttributes(attribute.String("status", string(res.Status)))
	t.metrics.RecordRun(ctx, string(res.Status))

	return res, nil
}

func (t *Test) run(ctx context.Context, cat catalog.Catalog, catalogName string, dir artifact.Dir) (validation.Result, error) {
	err := dir.Ensure()
	if err != nil {
		return validation.Result{}, err
	}

	var (
		figs    figures
		records []artifact.ColorRecord
	)

	for _, cp := range t.plan.colors {
		err = ctx.Err()
		if err != nil {
			return validation.Result{}, err
		}

		rec, err := t.runColor(ctx, cat, catalogName, dir, cp, &figs)

		switch {
		case IsNoData(err):
			t.metrics.RecordColor(ctx, OutcomeNoData, 0)

			return validation.Result{
				Status:  validation.StatusSkipped,
				Message: logMessage(err),
				Colors:  records,
			}, nil
		case err != nil:
			return validation.Result{}, fmt.Errorf("color %s: %w", cp.spec, err)
		}

		records = append(records, rec)
	}

	if len(figs.cdf) > 0 {
		err = t.plotter.Render(dir.File(dir.Names.PlotCDF), catalogName+" color CDF", figs.cdf)
		if err != nil {
			return validation.Result{}, err
		}
	}

	if t.opts.PlotPDF && len(figs.pdf) > 0 {
		err = t.plotter.Render(dir.File(dir.Names.PlotPDF), catalogName+" color PDF", figs.pdf)
		if err != nil {
			return validation.Result{}, err
		}
	}

	if len(figs.cdf) == 0 {
		return validation.Result{
			Status:  validation.StatusFailed,
			Message: "no color produced a catalog histogram",
			Colors:  records,
		}, nil
	}

	return validation.Result{Status: validation.StatusPassed, Colors: records}, nil
}

// runColor runs the CDF comparison of one color and, when enabled, the PDF
// comparison. A color whose bands the catalog lacks is skipped.
func (t *Test) runColor(
	ctx context.Context, cat catalog.Catalog, catalogName string, dir artifact.Dir, cp colorPlan, figs *figures,
) (artifact.ColorRecord, error) {
	ctx, span := t.tracer.Start(ctx, "colordist.color",
		trace.WithAttributes(attribute.String("color", cp.spec.Name)))
	defer span.End()

	rec := artifact.ColorRecord{Color: cp.spec.Name}

	if !cat.HasQuantities(cp.quantity1, cp.quantity2) {
		msg := fmt.Sprintf("galaxy catalog does not have `%s` and/or `%s` quantity, skipping the rest of the validation test.",
			cp.quantity1, cp.quantity2)

		t.metrics.RecordColor(ctx, OutcomeMissingQuantity, 0)
		rec.Skipped = true

		return rec, t.warn(ctx, dir, msg, "color", cp.spec.Name)
	}

	reference, err := LoadReference(filepath.Join(t.plan.dataDir,
		ReferenceFilename(t.opts.DataName, cp.spec.Name, t.plan.obsWindow)))
	if err != nil {
		return rec, err
	}

	mag1, mag2, err := FilterMagnitudes(cat, cp.quantity1, cp.quantity2, t.plan.limit, t.plan.mockWindow)
	if err != nil {
		return rec, t.noData(ctx, dir, cp, err)
	}

	hist, err := ColorHistogram(mag1, mag2, t.plan.cdfBins)
	if err != nil {
		return rec, t.noData(ctx, dir, cp, err)
	}

	cmp := t.comparator.Compare(hist, reference)

	err = dir.AppendSummary(SummaryLines(cp.spec.Name, cmp.Statistics)...)
	if err != nil {
		return rec, err
	}

	for _, s := range cmp.Statistics {
		t.metrics.RecordStatistic(ctx, s.Name, s.Value, s.Passed)
	}

	t.metrics.RecordColor(ctx, OutcomeCompared, len(mag1))
	t.logger.InfoContext(ctx, "color compared",
		"color", cp.spec.Name, "galaxies", humanize.Comma(int64(len(mag1))))

	span.SetAttributes(attribute.Int("galaxies", len(mag1)))

	rec.Galaxies = len(mag1)
	rec.Statistics = statisticRecords(cmp.Statistics)

	lo, hi := AxisRange(cmp.Catalog, cmp.Reference)
	figs.cdf = append(figs.cdf, t.panel(cp.spec.Name, catalogName, cmp.Catalog, cmp.Reference, lo, hi, true))

	if !t.opts.PlotPDF {
		return rec, nil
	}

	return rec, t.comparePDF(ctx, dir, catalogName, cp, mag1, mag2, figs)
}

// comparePDF builds the PDF panel of a color from the already filtered
// magnitudes.
func (t *Test) comparePDF(
	ctx context.Context, dir artifact.Dir, catalogName string, cp colorPlan, mag1, mag2 []float64, figs *figures,
) error {
	reference, err := LoadReference(filepath.Join(t.plan.dataDir,
		PDFReferenceFilename(t.opts.DataName, cp.spec.Name, t.plan.obsWindow, cp.pdfBins)))
	if err != nil {
		return err
	}

	hist, err := ColorHistogram(mag1, mag2, cp.pdfBins)
	if err != nil {
		return t.noData(ctx, dir, cp, err)
	}

	figs.pdf = append(figs.pdf, t.panel(cp.spec.Name, catalogName,
		calcstats.Dataset{X: hist.Centers, Y: hist.PDF}, reference, cp.pdfBins.Min, cp.pdfBins.Max, false))

	return nil
}

// panel builds the chart of one color. CDF panels fix the y-axis to [0, 1].
func (t *Test) panel(
	color, catalogName string, catalogData, referenceData calcstats.Dataset, lo, hi float64, cdf bool,
) plot.Panel {
	p := plot.Panel{
		Title:  color,
		XLabel: color,
		XMin:   lo,
		XMax:   hi,
		Series: []plot.Series{
			{Name: catalogName, X: catalogData.X, Y: catalogData.Y, Step: plot.StepMiddle},
			{Name: t.opts.DataName, X: referenceData.X, Y: referenceData.Y, Step: plot.StepStart, Reference: true},
		},
	}

	if cdf {
		yMin, yMax := 0.0, 1.0
		p.YMin, p.YMax = &yMin, &yMax
	}

	return p
}

// noData logs a no-data condition and passes non-data errors through.
func (t *Test) noData(ctx context.Context, dir artifact.Dir, cp colorPlan, err error) error {
	if !IsNoData(err) {
		return err
	}

	logErr := t.warn(ctx, dir, logMessage(err), "color", cp.spec.Name)
	if logErr != nil {
		return logErr
	}

	return err
}

// warn logs msg and appends it to the log artifact.
func (t *Test) warn(ctx context.Context, dir artifact.Dir, msg string, args ...any) error {
	t.logger.WarnContext(ctx, msg, args...)

	return dir.AppendLog(msg)
}

type nopRecorder struct{}

func (nopRecorder) RecordRun(context.Context, string) {}

func (nopRecorder) RecordColor(context.Context, string, int) {}

func (nopRecorder) RecordStatistic(context.Context, string, float64, bool) {}
