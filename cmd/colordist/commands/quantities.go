package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/observability"
	"github.com/Sumatoshi-tech/colordist/internal/validation"
)

func newQuantitiesCommand(configPath *string) *cobra.Command {
	var catalogPath, catalogName, outputDir string

	cmd := &cobra.Command{
		Use:   "quantities",
		Short: "List the quantities a catalog provides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.shutdown()

			runner := &validation.Runner{Outputs: a.cfg.Outputs}

			cat, err := runner.OpenCatalog(catalogPath)
			if err != nil {
				return err
			}

			dir := artifact.NewDir(outputDir, a.cfg.Outputs)

			err = dir.Ensure()
			if err != nil {
				return err
			}

			_, err = validation.Execute(cmd.Context(), validation.NewQuantityListing(dir.Names), cat, catalogName, dir)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s quantities (%s native) written to %s\n",
				catalogName,
				humanize.Comma(int64(len(cat.ListAllQuantities()))),
				humanize.Comma(int64(len(cat.ListAllNativeQuantities()))),
				dir.File(dir.Names.Quantities))
			if err != nil {
				return fmt.Errorf("write summary: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog file (.txt or .lz4)")
	cmd.Flags().StringVar(&catalogName, "name", "", "catalog label used in listings")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")

	for _, name := range []string{"catalog", "name", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
