// Package artifact writes the files a validation run leaves in its output
// directory: the appended summary and log, the machine-readable result and
// quantity listings.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Default artifact file names.
const (
	DefaultSummary          = "summary.txt"
	DefaultLog              = "log.txt"
	DefaultPlotCDF          = "plot_cdf.html"
	DefaultPlotPDF          = "plot_pdf.html"
	DefaultResult           = "result.yaml"
	DefaultMetrics          = "metrics.prom"
	DefaultQuantities       = "quantities.txt"
	DefaultNativeQuantities = "native_quantities.txt"
)

// Summary verdict words.
const (
	VerdictSuccess = "SUCCESS"
	VerdictFailed  = "FAILED"
)

// ErrEmptyOutputDir is returned when no output directory is configured.
var ErrEmptyOutputDir = errors.New("output directory is required")

// Names holds the artifact file names inside an output directory.
type Names struct {
	Summary          string `mapstructure:"summary"`
	Log              string `mapstructure:"log"`
	PlotCDF          string `mapstructure:"plot_cdf"`
	PlotPDF          string `mapstructure:"plot_pdf"`
	Result           string `mapstructure:"result"`
	Metrics          string `mapstructure:"metrics"`
	Quantities       string `mapstructure:"quantities"`
	NativeQuantities string `mapstructure:"native_quantities"`
}

// DefaultNames returns the standard artifact names.
func DefaultNames() Names {
	return Names{
		Summary:          DefaultSummary,
		Log:              DefaultLog,
		PlotCDF:          DefaultPlotCDF,
		PlotPDF:          DefaultPlotPDF,
		Result:           DefaultResult,
		Metrics:          DefaultMetrics,
		Quantities:       DefaultQuantities,
		NativeQuantities: DefaultNativeQuantities,
	}
}

// Dir is an output directory for one run.
type Dir struct {
	Path  string
	Names Names
}

// NewDir returns a Dir using the given names. Empty names fall back to defaults.
func NewDir(path string, names Names) Dir {
	def := DefaultNames()

	return Dir{
		Path: path,
		Names: Names{
			Summary:          orDefault(names.Summary, def.Summary),
			Log:              orDefault(names.Log, def.Log),
			PlotCDF:          orDefault(names.PlotCDF, def.PlotCDF),
			PlotPDF:          orDefault(names.PlotPDF, def.PlotPDF),
			Result:           orDefault(names.Result, def.Result),
			Metrics:          orDefault(names.Metrics, def.Metrics),
			Quantities:       orDefault(names.Quantities, def.Quantities),
			NativeQuantities: orDefault(names.NativeQuantities, def.NativeQuantities),
		},
	}
}

// Ensure creates the output directory.
func (d Dir) Ensure() error {
	if d.Path == "" {
		return ErrEmptyOutputDir
	}

	err := os.MkdirAll(d.Path, dirPerm)
	if err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	return nil
}

// File returns the path of an artifact inside the directory.
func (d Dir) File(name string) string {
	return filepath.Join(d.Path, name)
}

// AppendSummary appends lines to the summary file.
func (d Dir) AppendSummary(lines ...string) error {
	return appendLines(d.File(d.Names.Summary), lines)
}

// AppendLog appends a message to the log file.
func (d Dir) AppendLog(msg string) error {
	return appendLines(d.File(d.Names.Log), []string{msg})
}

// SummaryLine formats one statistic line of the summary file.
func SummaryLine(color, statistic string, value float64, passed bool) string {
	verdict := VerdictFailed
	if passed {
		verdict = VerdictSuccess
	}

	return fmt.Sprintf("%s %s: %s = %.6G", color, verdict, statistic, value)
}

func appendLines(path string, lines []string) (err error) {
	if len(lines) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	var sb strings.Builder

	for _, line := range lines {
		sb.WriteString(strings.TrimRight(line, "\n"))
		sb.WriteByte('\n')
	}

	_, err = f.WriteString(sb.String())
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
