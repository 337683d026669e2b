package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/catalog"
)

// ErrMissingJobField indicates a Job without a required field.
var ErrMissingJobField = errors.New("validation job field is required")

// Job is one request to validate a catalog file with a registered test.
type Job struct {
	Test        string
	CatalogPath string
	CatalogName string
	OutputDir   string
	Params      Params
}

// OpenFunc loads a catalog from a file path.
type OpenFunc func(path string) (catalog.Catalog, error)

// Runner resolves tests from a registry and executes jobs against catalog files.
type Runner struct {
	Registry *Registry
	Outputs  artifact.Names
	// Open loads catalogs. Nil uses catalog.Open without aliases.
	Open OpenFunc
}

// Run validates the job, opens its catalog and executes the test.
func (r *Runner) Run(ctx context.Context, job Job) (Result, error) {
	err := job.validate()
	if err != nil {
		return Result{}, err
	}

	t, err := r.Registry.New(job.Test, job.Params)
	if err != nil {
		return Result{}, err
	}

	cat, err := r.OpenCatalog(job.CatalogPath)
	if err != nil {
		return Result{}, err
	}

	dir := artifact.NewDir(job.OutputDir, r.Outputs)

	err = dir.Ensure()
	if err != nil {
		return Result{}, err
	}

	return Execute(ctx, t, cat, job.CatalogName, dir)
}

// OpenCatalog loads the catalog at path.
func (r *Runner) OpenCatalog(path string) (catalog.Catalog, error) {
	if r.Open != nil {
		return r.Open(path)
	}

	tbl, err := catalog.Open(path, nil)
	if err != nil {
		return nil, err
	}

	return tbl, nil
}

func (j Job) validate() error {
	switch {
	case j.Test == "":
		return fmt.Errorf("%w: test", ErrMissingJobField)
	case j.CatalogPath == "":
		return fmt.Errorf("%w: catalog", ErrMissingJobField)
	case j.CatalogName == "":
		return fmt.Errorf("%w: catalog name", ErrMissingJobField)
	case j.OutputDir == "":
		return fmt.Errorf("%w: output dir", ErrMissingJobField)
	}

	return nil
}
