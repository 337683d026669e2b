package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/catalog"
	"github.com/Sumatoshi-tech/colordist/internal/colordist"
	"github.com/Sumatoshi-tech/colordist/internal/mcp"
	"github.com/Sumatoshi-tech/colordist/internal/observability"
	"github.com/Sumatoshi-tech/colordist/internal/validation"
)

const catalogText = `# mock catalog
redshift mag_g mag_r
0.10 1.0 0.5
0.20 2.0 1.0
0.30 3.0 2.0
`

type fixture struct {
	runner      *validation.Runner
	catalogPath string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	root := t.TempDir()
	catalogPath := filepath.Join(root, "mock.txt")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogText), 0o600))

	zlo, zhi := 0.0, 1.0
	opts := colordist.Options{
		BaseDataDir: root,
		DataDir:     "SDSS",
		DataName:    "SDSS",
		Colors:      []string{"g-r"},
		Translate:   map[string]string{"g": "mag_g", "r": "mag_r"},
		ZLo:         &zlo,
		ZHi:         &zhi,
		CDFBins:     []float64{-1, 4, 5},
	}

	refDir := filepath.Join(root, "SDSS")
	require.NoError(t, os.MkdirAll(refDir, 0o750))

	refName := colordist.ReferenceFilename("SDSS", "g-r", catalog.Window{Lo: zlo, Hi: zhi})
	require.NoError(t, os.WriteFile(filepath.Join(refDir, refName),
		[]byte("-0.5 0.5 1.5 2.5 3.5\n0 0.3333 0.6667 0 0\n"), 0o600))

	reg := validation.NewRegistry()
	require.NoError(t, reg.Register(colordist.TestName, func(p validation.Params) (validation.Test, error) {
		o := opts
		o.TestMode = p.TestMode
		o.PlotPDF = p.PlotPDF

		return colordist.New(o, colordist.Deps{})
	}))

	return fixture{
		runner:      &validation.Runner{Registry: reg},
		catalogPath: catalogPath,
	}
}

func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func textOf(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestNewServer_ToolsRegistered(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})
	require.NotNil(t, srv)

	assert.Equal(t, []string{"colordist_quantities", "colordist_run"}, srv.ListToolNames())
}

func TestServer_Run_CancelledContext(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := srv.Run(ctx)
	require.Error(t, err)
}

func TestMCPServer_InMemoryTransport_ToolsList(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	toolsResult, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, []string{"colordist_run", "colordist_quantities"}, toolNames)
}

func TestMCPServer_CallRun(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	out := filepath.Join(t.TempDir(), "out")

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Runner: fx.runner}))

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name: "colordist_run",
		Arguments: map[string]any{
			"catalog":    fx.catalogPath,
			"output_dir": out,
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, textOf(t, result))

	var payload mcp.RunOutput

	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &payload))
	assert.Equal(t, "mock", payload.Result.Catalog)
	assert.Equal(t, colordist.TestName, payload.Result.Test)
	assert.Contains(t, []string{"PASSED", "FAILED"}, payload.Result.Status)
	assert.Len(t, payload.Summary, 3)
	assert.FileExists(t, filepath.Join(out, artifact.DefaultResult))
}

func TestMCPServer_CallRun_InvalidInput(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	session := connect(t, mcp.NewServer(mcp.ServerDeps{Runner: fx.runner}))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "relative catalog", args: map[string]any{"catalog": "mock.txt", "output_dir": "/tmp/x"}, want: "absolute path"},
		{name: "missing output", args: map[string]any{"catalog": fx.catalogPath, "output_dir": ""}, want: "output_dir parameter is required"},
		{name: "unknown test", args: map[string]any{"catalog": fx.catalogPath, "output_dir": t.TempDir(), "test": "nope"}, want: "unknown validation test"},
	}

	for _, tt := range tests {
		result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
			Name:      "colordist_run",
			Arguments: tt.args,
		})
		require.NoError(t, err, tt.name)
		assert.True(t, result.IsError, tt.name)
		assert.Contains(t, textOf(t, result), tt.want, tt.name)
	}
}

func TestMCPServer_CallQuantities(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	out := t.TempDir()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Runner: fx.runner}))

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name: "colordist_quantities",
		Arguments: map[string]any{
			"catalog":      fx.catalogPath,
			"catalog_name": "fixture",
			"output_dir":   out,
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, textOf(t, result))

	var payload mcp.QuantitiesOutput

	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &payload))
	assert.Equal(t, "fixture", payload.Catalog)
	assert.Equal(t, []string{"mag_g", "mag_r", "redshift"}, payload.Native)
	assert.FileExists(t, filepath.Join(out, artifact.DefaultQuantities))
}

func TestMCPServer_TracingAndMetrics(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	session := connect(t, mcp.NewServer(mcp.ServerDeps{
		Runner:  newFixture(t).runner,
		Tracer:  tp.Tracer("test"),
		Metrics: red,
	}))

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      "colordist_quantities",
		Arguments: map[string]any{"catalog": ""},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	last, ok := result.Content[len(result.Content)-1].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, last.Text, "trace_id=")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "colordist.errors.total" {
				found = true
			}
		}
	}

	assert.True(t, found, "error result is counted")
}
