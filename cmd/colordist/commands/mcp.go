package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/colordist/internal/mcp"
	"github.com/Sumatoshi-tech/colordist/internal/observability"
)

func newMCPCommand(configPath *string) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes colordist as tools that AI agents can discover and invoke:
  - colordist_run: validate the color distributions of a catalog file
  - colordist_quantities: list the quantities of a catalog file

Logs are written to stderr as JSON so stdout stays reserved for the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer a.shutdown()

			if debug {
				cfg := a.cfg.Observability(observability.ModeMCP, "")
				cfg.LogJSON = true
				cfg.LogLevel = slog.LevelDebug
				a.providers.Logger = observability.NewLogger(cfg)
			}

			red, err := observability.NewREDMetrics(a.providers.Meter)
			if err != nil {
				return err
			}

			validationMetrics, err := observability.NewValidationMetrics(a.providers.Meter)
			if err != nil {
				return err
			}

			runner, err := a.newRunner(validationMetrics)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Runner:  runner,
				Logger:  a.logger(),
				Metrics: red,
				Tracer:  a.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging to stderr")

	return cmd
}
