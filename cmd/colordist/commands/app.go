package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/colordist/internal/colordist"
	"github.com/Sumatoshi-tech/colordist/internal/config"
	"github.com/Sumatoshi-tech/colordist/internal/observability"
	"github.com/Sumatoshi-tech/colordist/internal/plot"
	"github.com/Sumatoshi-tech/colordist/internal/validation"
	"github.com/Sumatoshi-tech/colordist/pkg/version"
)

// app bundles the loaded configuration with the observability providers.
type app struct {
	cfg       *config.Config
	providers observability.Providers
}

func loadApp(configPath string, mode observability.AppMode) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	obsCfg := cfg.Observability(mode, version.BinaryVersion)
	if mode == observability.ModeMCP {
		obsCfg.LogJSON = true
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	return &app{cfg: cfg, providers: providers}, nil
}

func (a *app) logger() *slog.Logger {
	return a.providers.Logger
}

func (a *app) shutdown() {
	err := a.providers.Shutdown(context.Background())
	if err != nil {
		a.logger().Warn("observability shutdown failed", "error", err)
	}
}

// newRegistry registers every validation test built from the configuration.
func newRegistry(cfg *config.Config, deps colordist.Deps) (*validation.Registry, error) {
	reg := validation.NewRegistry()

	err := reg.Register(colordist.TestName, func(p validation.Params) (validation.Test, error) {
		return colordist.New(cfg.ColorDistributionOptions(p), deps)
	})
	if err != nil {
		return nil, err
	}

	err = reg.Register(validation.QuantityListingName, func(validation.Params) (validation.Test, error) {
		return validation.NewQuantityListing(cfg.Outputs), nil
	})
	if err != nil {
		return nil, err
	}

	return reg, nil
}

// newRunner wires a registry whose tests record into metrics.
func (a *app) newRunner(metrics colordist.Recorder) (*validation.Runner, error) {
	deps := colordist.Deps{
		Logger:  a.logger(),
		Tracer:  a.providers.Tracer,
		Metrics: metrics,
		Plotter: plot.NewRenderer(a.cfg.Theme()),
	}

	reg, err := newRegistry(a.cfg, deps)
	if err != nil {
		return nil, err
	}

	return &validation.Runner{Registry: reg, Outputs: a.cfg.Outputs}, nil
}
