package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
)

func newDiffCommand() *cobra.Command {
	var noColor, exitCode bool

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two summary files line by line",
		Long: `Compare the summary files of two runs, for example before and after a
catalog change, and print the lines that differ.

With --exit-code the command exits with status 2 when the summaries differ.`,
		Args: cobra.ExactArgs(2), //nolint:mnd // OLD and NEW.
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := artifact.DiffSummaryFiles(args[0], args[1])
			if err != nil {
				return err
			}

			err = artifact.WriteDiff(cmd.OutOrStdout(), changes, artifact.TableOptions{NoColor: noColor})
			if err != nil {
				return err
			}

			if exitCode && artifact.HasChanges(changes) {
				return &StatusError{Code: ExitFailed, Reason: fmt.Sprintf("%s and %s differ", args[0], args[1])}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 2 when the summaries differ")

	return cmd
}
