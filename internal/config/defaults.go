// Package config loads the colordist YAML configuration.
package config

import (
	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/calcstats"
	"github.com/Sumatoshi-tech/colordist/internal/colordist"
	"github.com/Sumatoshi-tech/colordist/internal/plot"
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint       = ""
	DefaultOTLPInsecure       = false
	DefaultSampleRatio        = 0.0
	DefaultPrometheusTextfile = false
)

// Plot defaults.
const (
	DefaultPlotTheme = string(plot.ThemeLight)
)

// Statistics defaults.
const (
	DefaultL2Threshold = calcstats.DefaultL2Threshold
	DefaultL1Threshold = calcstats.DefaultL1Threshold
	DefaultKSThreshold = calcstats.DefaultKSThreshold
)

// Color distribution defaults.
const (
	DefaultTestMode = false
	DefaultPlotPDF  = false
)

// DefaultCDFBins is the (min, max, count) triple of the CDF comparison grid.
func DefaultCDFBins() []float64 {
	b := colordist.DefaultCDFBins

	return []float64{b.Min, b.Max, float64(b.Count)}
}

// outputDefaults maps output keys to their default file names.
func outputDefaults() map[string]string {
	names := artifact.DefaultNames()

	return map[string]string{
		"summary":           names.Summary,
		"log":               names.Log,
		"plot_cdf":          names.PlotCDF,
		"plot_pdf":          names.PlotPDF,
		"result":            names.Result,
		"metrics":           names.Metrics,
		"quantities":        names.Quantities,
		"native_quantities": names.NativeQuantities,
	}
}
