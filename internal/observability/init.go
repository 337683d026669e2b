package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	tracerName = "colordist"
	meterName  = "colordist"

	attrAppMode        = "app.mode"
	attrReferenceName  = "colordist.reference.name"
	attrRedshiftWindow = "colordist.redshift.window"
)

// Providers holds the initialized observability providers.
type Providers struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger *slog.Logger

	// Shutdown flushes pending telemetry. Call it once before exit.
	Shutdown func(ctx context.Context) error
}

// Init wires tracing, metrics and logging for one colordist process.
// Without an OTLP endpoint the tracer and meter are no-ops and nothing is
// exported.
func Init(cfg Config) (Providers, error) {
	logger := NewLogger(cfg)

	if cfg.OTLPEndpoint == "" {
		return Providers{
			Tracer:   nooptrace.NewTracerProvider().Tracer(tracerName),
			Meter:    noopmetric.NewMeterProvider().Meter(meterName),
			Logger:   logger,
			Shutdown: func(context.Context) error { return nil },
		}, nil
	}

	ctx := context.Background()
	res := NewResource(cfg)

	var stack shutdownStack

	traceExporter, err := otlptracegrpc.New(ctx, traceOTLP.options(cfg)...)
	if err != nil {
		return Providers{}, fmt.Errorf("create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)
	stack.push(tp.Shutdown)

	metricExporter, err := otlpmetricgrpc.New(ctx, metricOTLP.options(cfg)...)
	if err != nil {
		return Providers{}, errors.Join(fmt.Errorf("create metric exporter: %w", err), stack.unwind(ctx))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	stack.push(mp.Shutdown)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return Providers{
		Tracer:   tp.Tracer(tracerName),
		Meter:    mp.Meter(meterName),
		Logger:   logger,
		Shutdown: stack.withTimeout(cfg.shutdownTimeout()),
	}, nil
}

// NewResource describes the process: service identity, launch mode and the
// reference data set it validates against.
func NewResource(cfg Config) *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Mode != "" {
		attrs = append(attrs, attribute.String(attrAppMode, string(cfg.Mode)))
	}

	if cfg.ReferenceName != "" {
		attrs = append(attrs, attribute.String(attrReferenceName, cfg.ReferenceName))
	}

	if len(cfg.RedshiftWindow) == 2 { //nolint:mnd // [zlo, zhi].
		attrs = append(attrs, attribute.Float64Slice(attrRedshiftWindow, cfg.RedshiftWindow))
	}

	return resource.NewSchemaless(attrs...)
}

// otlpOptions builds the exporter options shared by the trace and metric
// OTLP clients, whose option types differ.
type otlpOptions[O any] struct {
	endpoint func(string) O
	insecure func() O
	headers  func(map[string]string) O
}

var (
	traceOTLP = otlpOptions[otlptracegrpc.Option]{
		endpoint: otlptracegrpc.WithEndpoint,
		insecure: otlptracegrpc.WithInsecure,
		headers:  otlptracegrpc.WithHeaders,
	}
	metricOTLP = otlpOptions[otlpmetricgrpc.Option]{
		endpoint: otlpmetricgrpc.WithEndpoint,
		insecure: otlpmetricgrpc.WithInsecure,
		headers:  otlpmetricgrpc.WithHeaders,
	}
)

func (o otlpOptions[O]) options(cfg Config) []O {
	opts := []O{o.endpoint(cfg.OTLPEndpoint)}

	if cfg.OTLPInsecure {
		opts = append(opts, o.insecure())
	}

	if len(cfg.OTLPHeaders) > 0 {
		opts = append(opts, o.headers(cfg.OTLPHeaders))
	}

	return opts
}

// sampler samples every root span unless a ratio in (0, 1) is configured.
func sampler(ratio float64) sdktrace.Sampler {
	if ratio > 0 && ratio < 1 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}

	return sdktrace.ParentBased(sdktrace.AlwaysSample())
}

// shutdownStack runs provider shutdowns in reverse order of creation.
type shutdownStack []func(context.Context) error

func (s *shutdownStack) push(f func(context.Context) error) {
	*s = append(*s, f)
}

func (s shutdownStack) unwind(ctx context.Context) error {
	errs := make([]error, 0, len(s))

	for i := len(s) - 1; i >= 0; i-- {
		errs = append(errs, s[i](ctx))
	}

	return errors.Join(errs...)
}

func (s shutdownStack) withTimeout(timeout time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return s.unwind(ctx)
	}
}

// NewLogger builds the slog logger described by cfg: text or JSON output
// wrapped in a TracingHandler.
func NewLogger(cfg Config) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var w io.Writer = os.Stderr
	if cfg.LogWriter != nil {
		w = cfg.LogWriter
	}

	var inner slog.Handler
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(w, handlerOpts)
	} else {
		inner = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(NewTracingHandler(inner, cfg.ServiceName, cfg.Mode))
}
