package mcp

import (
	"context"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/colordist/internal/validation"
)

func TestHandleRun_NoRunner(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, _, err := srv.handleRun(context.Background(), &mcpsdk.CallToolRequest{}, RunInput{Catalog: "/a.txt", OutputDir: "/out"})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "no validation runner")
}

func TestValidateRunInput(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{Runner: &validation.Runner{Registry: validation.NewRegistry()}})

	tests := []struct {
		name    string
		input   RunInput
		wantErr error
	}{
		{name: "valid", input: RunInput{Catalog: "/c.txt", OutputDir: "/out"}},
		{name: "empty catalog", input: RunInput{OutputDir: "/out"}, wantErr: ErrEmptyCatalog},
		{name: "relative catalog", input: RunInput{Catalog: "c.txt", OutputDir: "/out"}, wantErr: ErrCatalogNotAbsolute},
		{name: "empty output", input: RunInput{Catalog: "/c.txt"}, wantErr: ErrEmptyOutputDir},
		{name: "relative output", input: RunInput{Catalog: "/c.txt", OutputDir: "out"}, wantErr: ErrOutputDirNotAbsolute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := srv.validateRunInput(tt.input)
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCatalogName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "given", catalogName("given", "/x/y.txt"))
	assert.Equal(t, "protoDC2", catalogName("", "/data/protoDC2.txt.lz4"))
	assert.Equal(t, ".hidden", catalogName("", "/data/.hidden"))
}

func TestErrorResult(t *testing.T) {
	t.Parallel()

	result, out, err := errorResult(errors.New("bad input"))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Nil(t, out.Data)
}

func TestJSONResult(t *testing.T) {
	t.Parallel()

	result, out, err := jsonResult(QuantitiesOutput{Catalog: "mock"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, QuantitiesOutput{Catalog: "mock"}, out.Data)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"catalog": "mock"`)
}

func TestReadSummary_Missing(t *testing.T) {
	t.Parallel()

	assert.Nil(t, readSummary("/nonexistent/summary.txt"))
}
