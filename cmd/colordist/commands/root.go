// Package commands implements CLI command handlers for colordist.
package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitFailed = 2
)

// StatusError reports a completed command whose outcome maps to a non-zero
// exit code without being an execution error.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	return e.Reason
}

// ExitCode maps a command error to the process exit code and prints
// execution errors to w.
func ExitCode(err error, w io.Writer) int {
	if err == nil {
		return ExitOK
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}

	fmt.Fprintf(w, "Error: %v\n", err)

	return ExitError
}

// NewRootCommand builds the colordist command tree.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "colordist",
		Short: "Galaxy color distribution validation",
		Long: `colordist compares the color distributions of a galaxy catalog against
observational reference data and reports L2, L1 and K-S distances per color.

Commands:
  run         Run a validation test against a catalog file
  quantities  List the quantities a catalog provides
  diff        Compare two summary files
  mcp         Start the MCP server on stdio
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: colordist.yaml in the working directory or $HOME)")

	rootCmd.AddCommand(newRunCommand(&configPath))
	rootCmd.AddCommand(newQuantitiesCommand(&configPath))
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newMCPCommand(&configPath))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
