package config

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/calcstats"
	"github.com/Sumatoshi-tech/colordist/internal/colordist"
	"github.com/Sumatoshi-tech/colordist/internal/observability"
	"github.com/Sumatoshi-tech/colordist/internal/plot"
	"github.com/Sumatoshi-tech/colordist/internal/validation"
)

// Config is the top-level configuration struct for colordist.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	BaseDataDir       string                  `mapstructure:"base_data_dir"`
	Logging           LoggingConfig           `mapstructure:"logging"`
	Telemetry         TelemetryConfig         `mapstructure:"telemetry"`
	Statistics        StatisticsConfig        `mapstructure:"statistics"`
	Plot              PlotConfig              `mapstructure:"plot"`
	Outputs           artifact.Names          `mapstructure:"outputs"`
	ColorDistribution ColorDistributionConfig `mapstructure:"color_distribution"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OTel export settings.
type TelemetryConfig struct {
	OTLPEndpoint       string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure       bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders        string  `mapstructure:"otlp_headers"`
	SampleRatio        float64 `mapstructure:"sample_ratio"`
	PrometheusTextfile bool    `mapstructure:"prometheus_textfile"`
}

// StatisticsConfig holds the pass thresholds of the distance statistics.
type StatisticsConfig struct {
	L2Threshold float64 `mapstructure:"l2_threshold"`
	L1Threshold float64 `mapstructure:"l1_threshold"`
	KSThreshold float64 `mapstructure:"ks_threshold"`
}

// PlotConfig holds figure settings.
type PlotConfig struct {
	Theme string `mapstructure:"theme"`
}

// ColorDistributionConfig holds the color distribution test options.
type ColorDistributionConfig struct {
	DataDir      string            `mapstructure:"data_dir"`
	DataName     string            `mapstructure:"data_name"`
	Colors       []string          `mapstructure:"colors"`
	ColorBinArgs [][]float64       `mapstructure:"color_bin_args"`
	Translate    map[string]string `mapstructure:"translate"`
	LimitingBand string            `mapstructure:"limiting_band"`
	LimitingMag  *float64          `mapstructure:"limiting_mag"`
	ZLo          *float64          `mapstructure:"zlo"`
	ZHi          *float64          `mapstructure:"zhi"`
	TestMode     bool              `mapstructure:"test_q"`
	PlotPDF      bool              `mapstructure:"plot_pdf_q"`
	CDFBins      []float64         `mapstructure:"cdf_bins"`
}

// maxSampleRatio is the upper bound of the trace sampling ratio.
const maxSampleRatio = 1.0

// Sentinel errors for configuration validation.
var (
	// ErrInvalidThreshold indicates a statistic threshold that is not positive.
	ErrInvalidThreshold = errors.New("statistics thresholds must be positive")
	// ErrInvalidSampleRatio indicates a sample ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrSchemaViolation indicates the config file does not match the schema.
	ErrSchemaViolation = errors.New("config does not match schema")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	_, err := observability.ParseLevel(c.Logging.Level)
	if err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	_, err = plot.ParseTheme(c.Plot.Theme)
	if err != nil {
		return fmt.Errorf("plot.theme: %w", err)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > maxSampleRatio {
		return ErrInvalidSampleRatio
	}

	s := c.Statistics
	if s.L2Threshold <= 0 || s.L1Threshold <= 0 || s.KSThreshold <= 0 {
		return ErrInvalidThreshold
	}

	return nil
}

// Thresholds returns the configured statistic thresholds.
func (c *Config) Thresholds() calcstats.Thresholds {
	return calcstats.Thresholds{
		L2: c.Statistics.L2Threshold,
		L1: c.Statistics.L1Threshold,
		KS: c.Statistics.KSThreshold,
	}
}

// Theme returns the configured plot theme. Validate has already checked it.
func (c *Config) Theme() plot.Theme {
	theme, err := plot.ParseTheme(c.Plot.Theme)
	if err != nil {
		return plot.ThemeLight
	}

	return theme
}

// ColorDistributionOptions builds the test options. Per-invocation switches
// in p enable test mode and the PDF pass on top of the file settings.
func (c *Config) ColorDistributionOptions(p validation.Params) colordist.Options {
	cd := c.ColorDistribution

	return colordist.Options{
		BaseDataDir:  c.BaseDataDir,
		DataDir:      cd.DataDir,
		DataName:     cd.DataName,
		Colors:       cd.Colors,
		ColorBinArgs: cd.ColorBinArgs,
		Translate:    cd.Translate,
		LimitingBand: cd.LimitingBand,
		LimitingMag:  cd.LimitingMag,
		ZLo:          cd.ZLo,
		ZHi:          cd.ZHi,
		TestMode:     cd.TestMode || p.TestMode,
		PlotPDF:      cd.PlotPDF || p.PlotPDF,
		CDFBins:      cd.CDFBins,
		Thresholds:   c.Thresholds(),
		Outputs:      c.Outputs,
	}
}

// Observability builds the observability config for the given mode.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.Mode = mode
	cfg.ServiceVersion = version
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	cfg.SampleRatio = c.Telemetry.SampleRatio
	cfg.LogJSON = c.Logging.JSON
	cfg.ReferenceName = c.ColorDistribution.DataName

	if c.ColorDistribution.ZLo != nil && c.ColorDistribution.ZHi != nil {
		cfg.RedshiftWindow = []float64{*c.ColorDistribution.ZLo, *c.ColorDistribution.ZHi}
	}

	level, err := observability.ParseLevel(c.Logging.Level)
	if err == nil {
		cfg.LogLevel = level
	}

	return cfg
}
