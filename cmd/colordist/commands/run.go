package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/colordist"
	"github.com/Sumatoshi-tech/colordist/internal/observability"
	"github.com/Sumatoshi-tech/colordist/internal/validation"
)

// RunOptions holds the flags of the run command.
type RunOptions struct {
	Test        string
	CatalogPath string
	CatalogName string
	OutputDir   string
	TestMode    bool
	PlotPDF     bool
	NoColor     bool
}

func newRunCommand(configPath *string) *cobra.Command {
	var opts RunOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a validation test against a catalog file",
		Long: `Run a validation test against a catalog file and write its artifacts
(summary, log, plots, result.yaml) into the output directory.

Exit status is 0 for PASSED or SKIPPED, 2 for FAILED and 1 on error.`,
		Example: `  colordist run -c colordist.yaml --catalog protoDC2.txt.lz4 --name protoDC2 --output out/
  colordist run --catalog mock.txt --name mock --output out/ --test --plot-pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.shutdown()

			return executeRun(cmd.Context(), a, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Test, "test-name", colordist.TestName, "registered validation test")
	cmd.Flags().StringVar(&opts.CatalogPath, "catalog", "", "catalog file (.txt or .lz4)")
	cmd.Flags().StringVar(&opts.CatalogName, "name", "", "catalog label used in reports")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "", "output directory")
	cmd.Flags().BoolVar(&opts.TestMode, "test", false, "widen the catalog redshift window to [0, 1]")
	cmd.Flags().BoolVar(&opts.PlotPDF, "plot-pdf", false, "also compare per-color PDFs")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	for _, name := range []string{"catalog", "name", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func executeRun(ctx context.Context, a *app, opts RunOptions, w io.Writer) error {
	var (
		textfile *observability.PrometheusTextfile
		err      error
	)

	meter := a.providers.Meter

	if a.cfg.Telemetry.PrometheusTextfile {
		textfile, err = observability.NewPrometheusTextfile()
		if err != nil {
			return err
		}

		defer func() { _ = textfile.Shutdown(context.Background()) }()

		meter = textfile.Meter()
	}

	metrics, err := observability.NewValidationMetrics(meter)
	if err != nil {
		return err
	}

	runner, err := a.newRunner(metrics)
	if err != nil {
		return err
	}

	res, err := runner.Run(ctx, validation.Job{
		Test:        opts.Test,
		CatalogPath: opts.CatalogPath,
		CatalogName: opts.CatalogName,
		OutputDir:   opts.OutputDir,
		Params:      validation.Params{TestMode: opts.TestMode, PlotPDF: opts.PlotPDF},
	})
	if err != nil {
		return err
	}

	if textfile != nil {
		dir := artifact.NewDir(opts.OutputDir, a.cfg.Outputs)

		err = textfile.Write(dir.File(dir.Names.Metrics))
		if err != nil {
			return err
		}
	}

	err = printResult(w, res.Record(opts.Test, opts.CatalogName), opts.NoColor)
	if err != nil {
		return err
	}

	if res.Status == validation.StatusFailed {
		return &StatusError{Code: ExitFailed, Reason: fmt.Sprintf("%s: %s", opts.Test, res.Message)}
	}

	return nil
}

func printResult(w io.Writer, rec artifact.RunRecord, noColor bool) error {
	tableOpts := artifact.TableOptions{NoColor: noColor}

	_, err := fmt.Fprintln(w, artifact.RenderTable(rec, tableOpts))
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	line := "Status: " + artifact.StatusColor(rec.Status, noColor)
	if rec.Message != "" {
		line += " (" + rec.Message + ")"
	}

	_, err = fmt.Fprintln(w, line)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}
