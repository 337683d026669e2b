package validation_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/catalog"
	"github.com/Sumatoshi-tech/colordist/internal/validation"
)

var errBoom = errors.New("boom")

type stubTest struct {
	result validation.Result
	err    error
	params validation.Params
}

func (s *stubTest) Name() string { return "stub" }

func (s *stubTest) Run(_ context.Context, _ catalog.Catalog, _, _ string) (validation.Result, error) {
	return s.result, s.err
}

func newTable(t *testing.T) *catalog.Table {
	t.Helper()

	tbl, err := catalog.NewTable(map[string][]float64{
		"redshift": {0.07, 0.08},
		"mag_g":    {17, 18},
	}, map[string]string{"g": "mag_g"})
	require.NoError(t, err)

	return tbl
}

func TestRegistry_RegisterAndNew(t *testing.T) {
	t.Parallel()

	reg := validation.NewRegistry()

	var got validation.Params

	require.NoError(t, reg.Register("stub", func(p validation.Params) (validation.Test, error) {
		got = p

		return &stubTest{params: p}, nil
	}))

	tst, err := reg.New("stub", validation.Params{TestMode: true})
	require.NoError(t, err)
	assert.Equal(t, "stub", tst.Name())
	assert.True(t, got.TestMode)
}

func TestRegistry_Errors(t *testing.T) {
	t.Parallel()

	reg := validation.NewRegistry()
	factory := func(validation.Params) (validation.Test, error) { return &stubTest{}, nil }

	require.NoError(t, reg.Register("stub", factory))
	require.ErrorIs(t, reg.Register("stub", factory), validation.ErrDuplicateTest)

	_, err := reg.New("missing", validation.Params{})
	require.ErrorIs(t, err, validation.ErrUnknownTest)
}

func TestRegistry_NamesSortedAndConcurrent(t *testing.T) {
	t.Parallel()

	reg := validation.NewRegistry()
	names := []string{"zeta", "alpha", "mid"}

	var wg sync.WaitGroup

	for _, n := range names {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, reg.Register(n, func(validation.Params) (validation.Test, error) {
				return &stubTest{}, nil
			}))
		}()
	}

	wg.Wait()

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Names())
}

func TestResult_Record(t *testing.T) {
	t.Parallel()

	colors := []artifact.ColorRecord{{Color: "g-r", Galaxies: 12}}
	res := validation.Result{Status: validation.StatusFailed, Message: "why", Colors: colors}

	rec := res.Record("color_distribution", "mock")
	assert.Equal(t, "color_distribution", rec.Test)
	assert.Equal(t, "mock", rec.Catalog)
	assert.Equal(t, "FAILED", rec.Status)
	assert.Equal(t, "why", rec.Message)
	assert.Equal(t, colors, rec.Colors)

	rec.Colors[0].Galaxies = 0
	assert.Equal(t, 12, res.Colors[0].Galaxies, "record holds a copy")
}

func TestExecute_WritesResult(t *testing.T) {
	t.Parallel()

	dir := artifact.NewDir(t.TempDir(), artifact.Names{})
	stub := &stubTest{result: validation.Result{Status: validation.StatusSkipped, Message: "No object in the redshift range!"}}

	res, err := validation.Execute(context.Background(), stub, newTable(t), "mock", dir)
	require.NoError(t, err)
	assert.Equal(t, validation.StatusSkipped, res.Status)

	rec, err := artifact.ReadResult(dir.File(artifact.DefaultResult))
	require.NoError(t, err)
	assert.Equal(t, "SKIPPED", rec.Status)
	assert.Equal(t, "stub", rec.Test)
	assert.Equal(t, "No object in the redshift range!", rec.Message)
}

func TestExecute_ErrorWritesNothing(t *testing.T) {
	t.Parallel()

	dir := artifact.NewDir(t.TempDir(), artifact.Names{})

	_, err := validation.Execute(context.Background(), &stubTest{err: errBoom}, newTable(t), "mock", dir)
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "stub")
	assert.NoFileExists(t, dir.File(artifact.DefaultResult))
}

func TestQuantityListing_Run(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	listing := validation.NewQuantityListing(artifact.DefaultNames())

	res, err := listing.Run(context.Background(), newTable(t), "mock", out)
	require.NoError(t, err)
	assert.Equal(t, validation.StatusPassed, res.Status)
	assert.Equal(t, validation.QuantityListingName, listing.Name())

	data, err := os.ReadFile(filepath.Join(out, artifact.DefaultQuantities))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "# mock", lines[0])
	assert.Contains(t, lines, "g")
	assert.Contains(t, lines, "mag_g")

	native, err := os.ReadFile(filepath.Join(out, artifact.DefaultNativeQuantities))
	require.NoError(t, err)
	assert.NotContains(t, string(native), "\ng\n")
}

func TestQuantityListing_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := validation.NewQuantityListing(artifact.Names{}).Run(ctx, newTable(t), "mock", t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	reg := validation.NewRegistry()
	require.NoError(t, reg.Register(validation.QuantityListingName, func(validation.Params) (validation.Test, error) {
		return validation.NewQuantityListing(artifact.Names{}), nil
	}))

	tbl := newTable(t)
	runner := &validation.Runner{
		Registry: reg,
		Open: func(path string) (catalog.Catalog, error) {
			assert.Equal(t, "/catalogs/mock.txt", path)

			return tbl, nil
		},
	}

	out := filepath.Join(t.TempDir(), "nested", "out")

	res, err := runner.Run(context.Background(), validation.Job{
		Test:        validation.QuantityListingName,
		CatalogPath: "/catalogs/mock.txt",
		CatalogName: "mock",
		OutputDir:   out,
	})
	require.NoError(t, err)
	assert.Equal(t, validation.StatusPassed, res.Status)
	assert.FileExists(t, filepath.Join(out, artifact.DefaultResult))
}

func TestRunner_RunErrors(t *testing.T) {
	t.Parallel()

	reg := validation.NewRegistry()
	runner := &validation.Runner{Registry: reg}

	full := validation.Job{Test: "stub", CatalogPath: "c.txt", CatalogName: "c", OutputDir: t.TempDir()}

	tests := []struct {
		name    string
		mutate  func(*validation.Job)
		wantErr error
	}{
		{name: "no test", mutate: func(j *validation.Job) { j.Test = "" }, wantErr: validation.ErrMissingJobField},
		{name: "no catalog", mutate: func(j *validation.Job) { j.CatalogPath = "" }, wantErr: validation.ErrMissingJobField},
		{name: "no name", mutate: func(j *validation.Job) { j.CatalogName = "" }, wantErr: validation.ErrMissingJobField},
		{name: "no output", mutate: func(j *validation.Job) { j.OutputDir = "" }, wantErr: validation.ErrMissingJobField},
		{name: "unknown test", mutate: func(*validation.Job) {}, wantErr: validation.ErrUnknownTest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			job := full
			tt.mutate(&job)

			_, err := runner.Run(context.Background(), job)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRunner_MissingCatalogFile(t *testing.T) {
	t.Parallel()

	reg := validation.NewRegistry()
	require.NoError(t, reg.Register("stub", func(validation.Params) (validation.Test, error) {
		return &stubTest{}, nil
	}))

	runner := &validation.Runner{Registry: reg}

	_, err := runner.Run(context.Background(), validation.Job{
		Test:        "stub",
		CatalogPath: filepath.Join(t.TempDir(), "absent.txt"),
		CatalogName: "absent",
		OutputDir:   t.TempDir(),
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}
