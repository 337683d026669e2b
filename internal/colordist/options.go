package colordist

import (
	"fmt"
	"path/filepath"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/calcstats"
	"github.com/Sumatoshi-tech/colordist/internal/catalog"
)

// TestName is the registry name of the color distribution test.
const TestName = "color_distribution"

// mockWindowTestMode is the catalog redshift window used in test mode.
var mockWindowTestMode = catalog.Window{Lo: 0, Hi: 1}

// Options configures a color distribution test.
type Options struct {
	// BaseDataDir and DataDir locate the reference files.
	BaseDataDir string
	DataDir     string
	// DataName prefixes reference file names and labels reference curves.
	DataName string

	// Colors lists the colors to compare, each "X-Y".
	Colors []string
	// ColorBinArgs holds one (min, max, count) per color for the PDF pass.
	ColorBinArgs [][]float64
	// Translate maps band letters to catalog quantity names.
	Translate map[string]string

	LimitingBand string
	LimitingMag  *float64

	ZLo *float64
	ZHi *float64

	// TestMode widens the catalog window to [0, 1]; references keep [ZLo, ZHi].
	TestMode bool
	// PlotPDF enables the secondary PDF comparison.
	PlotPDF bool

	// CDFBins overrides DefaultCDFBins.
	CDFBins []float64
	// Thresholds of the standard statistics; the zero value selects defaults.
	Thresholds calcstats.Thresholds
	// Outputs names the artifacts; empty names use defaults.
	Outputs artifact.Names
}

// colorPlan is the validated per-color configuration.
type colorPlan struct {
	spec      ColorSpec
	quantity1 string
	quantity2 string
	pdfBins   BinSpec
}

// plan is the validated form of Options.
type plan struct {
	colors     []colorPlan
	cdfBins    BinSpec
	limit      *MagnitudeLimit
	mockWindow catalog.Window
	obsWindow  catalog.Window
	dataDir    string
	thresholds calcstats.Thresholds
}

func (o Options) validate() (plan, error) {
	var p plan

	if o.DataDir == "" {
		return p, fmt.Errorf("%w: data_dir", ErrMissingOption)
	}

	if o.DataName == "" {
		return p, fmt.Errorf("%w: data_name", ErrMissingOption)
	}

	if len(o.Colors) == 0 {
		return p, fmt.Errorf("%w: colors", ErrMissingOption)
	}

	if o.Translate == nil {
		return p, fmt.Errorf("%w: translate", ErrMissingOption)
	}

	if o.ZLo == nil {
		return p, fmt.Errorf("%w: zlo", ErrMissingOption)
	}

	if o.ZHi == nil {
		return p, fmt.Errorf("%w: zhi", ErrMissingOption)
	}

	if o.ColorBinArgs != nil && len(o.ColorBinArgs) != len(o.Colors) {
		return p, fmt.Errorf("%w: %d colors, %d bin specs", ErrBinArgsLength, len(o.Colors), len(o.ColorBinArgs))
	}

	if o.ColorBinArgs == nil && o.PlotPDF {
		return p, fmt.Errorf("%w: color_bin_args", ErrMissingOption)
	}

	colors, err := o.colorPlans()
	if err != nil {
		return p, err
	}

	p.colors = colors

	p.cdfBins = DefaultCDFBins
	if o.CDFBins != nil {
		p.cdfBins, err = ParseBinArgs(o.CDFBins)
		if err != nil {
			return p, fmt.Errorf("cdf_bins: %w", err)
		}
	}

	p.limit, err = o.magnitudeLimit()
	if err != nil {
		return p, err
	}

	p.obsWindow = catalog.Window{Lo: *o.ZLo, Hi: *o.ZHi}

	p.mockWindow = p.obsWindow
	if o.TestMode {
		p.mockWindow = mockWindowTestMode
	}

	p.dataDir = filepath.Join(o.BaseDataDir, o.DataDir)

	p.thresholds = o.Thresholds.WithDefaults()

	return p, nil
}

func (o Options) colorPlans() ([]colorPlan, error) {
	plans := make([]colorPlan, 0, len(o.Colors))

	for i, name := range o.Colors {
		spec, err := ParseColor(name)
		if err != nil {
			return nil, err
		}

		q1, q2, err := spec.Quantities(o.Translate)
		if err != nil {
			return nil, fmt.Errorf("color %s: %w", name, err)
		}

		cp := colorPlan{spec: spec, quantity1: q1, quantity2: q2}

		if o.ColorBinArgs != nil {
			cp.pdfBins, err = ParseBinArgs(o.ColorBinArgs[i])
			if err != nil {
				return nil, fmt.Errorf("color_bin_args for %s: %w", name, err)
			}
		}

		plans = append(plans, cp)
	}

	return plans, nil
}

func (o Options) magnitudeLimit() (*MagnitudeLimit, error) {
	switch {
	case o.LimitingBand == "" && o.LimitingMag == nil:
		return nil, nil //nolint:nilnil // no limit configured.
	case o.LimitingBand == "":
		return nil, fmt.Errorf("%w: limiting_band is required with limiting_mag", ErrMissingOption)
	case o.LimitingMag == nil:
		return nil, fmt.Errorf("%w: limiting_mag is required with limiting_band", ErrMissingOption)
	}

	quantity, err := translateBand(o.Translate, o.LimitingBand)
	if err != nil {
		return nil, fmt.Errorf("limiting_band: %w", err)
	}

	return &MagnitudeLimit{Quantity: quantity, Mag: *o.LimitingMag}, nil
}
