package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusTextfile collects OTel instruments into a private Prometheus
// registry that can be written as a node-exporter textfile.
type PrometheusTextfile struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider
}

// NewPrometheusTextfile creates an exporter with its own registry and meter provider.
func NewPrometheusTextfile() (*PrometheusTextfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &PrometheusTextfile{
		registry: registry,
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)),
	}, nil
}

// Meter returns a meter whose instruments are exported by Write.
func (p *PrometheusTextfile) Meter() metric.Meter {
	return p.provider.Meter(meterName)
}

// Write gathers the registry into path in the Prometheus text format.
func (p *PrometheusTextfile) Write(path string) error {
	err := prometheus.WriteToTextfile(path, p.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}

// Shutdown releases the meter provider.
func (p *PrometheusTextfile) Shutdown(ctx context.Context) error {
	err := p.provider.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown prometheus provider: %w", err)
	}

	return nil
}
