package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/colordist"
	"github.com/Sumatoshi-tech/colordist/internal/validation"
)

// Tool name constants.
const (
	ToolNameRun        = "colordist_run"
	ToolNameQuantities = "colordist_quantities"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCatalog indicates the catalog parameter is empty.
	ErrEmptyCatalog = errors.New("catalog parameter is required and must not be empty")
	// ErrCatalogNotAbsolute indicates the catalog path is not absolute.
	ErrCatalogNotAbsolute = errors.New("catalog must be an absolute path")
	// ErrEmptyOutputDir indicates the output_dir parameter is empty.
	ErrEmptyOutputDir = errors.New("output_dir parameter is required and must not be empty")
	// ErrOutputDirNotAbsolute indicates the output directory is not absolute.
	ErrOutputDirNotAbsolute = errors.New("output_dir must be an absolute path")
	// ErrNoRunner indicates the server was built without a validation runner.
	ErrNoRunner = errors.New("server has no validation runner")
)

// Input types (auto-generate JSON schemas via struct tags).

// RunInput is the input schema for the colordist_run tool.
type RunInput struct {
	Catalog     string `json:"catalog"                jsonschema:"absolute path to the catalog file (.txt or .lz4)"`
	CatalogName string `json:"catalog_name,omitempty" jsonschema:"catalog label used in reports (default: file name)"`
	OutputDir   string `json:"output_dir"             jsonschema:"absolute path of the directory receiving the artifacts"`
	Test        string `json:"test,omitempty"         jsonschema:"registered validation test (default: color_distribution)"`
	TestMode    bool   `json:"test_mode,omitempty"    jsonschema:"widen the catalog redshift window to [0, 1]"`
	PlotPDF     bool   `json:"plot_pdf,omitempty"     jsonschema:"also compare per-color PDFs"`
}

// QuantitiesInput is the input schema for the colordist_quantities tool.
type QuantitiesInput struct {
	Catalog     string `json:"catalog"                jsonschema:"absolute path to the catalog file (.txt or .lz4)"`
	CatalogName string `json:"catalog_name,omitempty" jsonschema:"catalog label used in listings (default: file name)"`
	OutputDir   string `json:"output_dir,omitempty"   jsonschema:"optional absolute directory receiving the listing files"`
}

// RunOutput is the payload of a colordist_run result.
type RunOutput struct {
	Result    artifact.RunRecord `json:"result"`
	Summary   []string           `json:"summary,omitempty"`
	OutputDir string             `json:"output_dir"`
}

// QuantitiesOutput is the payload of a colordist_quantities result.
type QuantitiesOutput struct {
	Catalog    string   `json:"catalog"`
	Quantities []string `json:"quantities"`
	Native     []string `json:"native_quantities"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// handleRun processes colordist_run tool calls.
func (s *Server) handleRun(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input RunInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := s.validateRunInput(input)
	if err != nil {
		return errorResult(err)
	}

	job := validation.Job{
		Test:        orDefault(input.Test, colordist.TestName),
		CatalogPath: input.Catalog,
		CatalogName: catalogName(input.CatalogName, input.Catalog),
		OutputDir:   input.OutputDir,
		Params:      validation.Params{TestMode: input.TestMode, PlotPDF: input.PlotPDF},
	}

	res, err := s.runner.Run(ctx, job)
	if err != nil {
		s.logger.WarnContext(ctx, "mcp run failed", "catalog", job.CatalogName, "error", err)

		return errorResult(err)
	}

	dir := artifact.NewDir(job.OutputDir, s.runner.Outputs)

	return jsonResult(RunOutput{
		Result:    res.Record(job.Test, job.CatalogName),
		Summary:   readSummary(dir.File(dir.Names.Summary)),
		OutputDir: job.OutputDir,
	})
}

// handleQuantities processes colordist_quantities tool calls.
func (s *Server) handleQuantities(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input QuantitiesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := s.validateCatalog(input.Catalog)
	if err != nil {
		return errorResult(err)
	}

	if input.OutputDir != "" && !filepath.IsAbs(input.OutputDir) {
		return errorResult(ErrOutputDirNotAbsolute)
	}

	name := catalogName(input.CatalogName, input.Catalog)

	cat, err := s.runner.OpenCatalog(input.Catalog)
	if err != nil {
		return errorResult(err)
	}

	if input.OutputDir != "" {
		dir := artifact.NewDir(input.OutputDir, s.runner.Outputs)

		err = dir.Ensure()
		if err != nil {
			return errorResult(err)
		}

		_, err = validation.Execute(ctx, validation.NewQuantityListing(dir.Names), cat, name, dir)
		if err != nil {
			return errorResult(err)
		}
	}

	return jsonResult(QuantitiesOutput{
		Catalog:    name,
		Quantities: cat.ListAllQuantities(),
		Native:     cat.ListAllNativeQuantities(),
	})
}

func (s *Server) validateRunInput(input RunInput) error {
	err := s.validateCatalog(input.Catalog)
	if err != nil {
		return err
	}

	if input.OutputDir == "" {
		return ErrEmptyOutputDir
	}

	if !filepath.IsAbs(input.OutputDir) {
		return ErrOutputDirNotAbsolute
	}

	return nil
}

func (s *Server) validateCatalog(path string) error {
	if s.runner == nil {
		return ErrNoRunner
	}

	if path == "" {
		return ErrEmptyCatalog
	}

	if !filepath.IsAbs(path) {
		return ErrCatalogNotAbsolute
	}

	return nil
}

// catalogName defaults the label to the file name without extensions.
func catalogName(name, path string) string {
	if name != "" {
		return name
	}

	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}

	return base
}

// readSummary returns the summary lines, or nil when no summary was written.
func readSummary(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
