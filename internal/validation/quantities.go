package validation

import (
	"context"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/catalog"
)

// QuantityListingName is the registry name of QuantityListing.
const QuantityListingName = "list_quantities"

// QuantityListing writes the quantities a catalog provides. It always passes.
type QuantityListing struct {
	Names artifact.Names
}

// NewQuantityListing returns a listing test writing the given artifact names.
func NewQuantityListing(names artifact.Names) *QuantityListing {
	return &QuantityListing{Names: names}
}

// Name implements Test.
func (q *QuantityListing) Name() string {
	return QuantityListingName
}

// Run implements Test.
func (q *QuantityListing) Run(ctx context.Context, cat catalog.Catalog, catalogName, outputDir string) (Result, error) {
	err := ctx.Err()
	if err != nil {
		return Result{}, err
	}

	dir := artifact.NewDir(outputDir, q.Names)

	err = dir.Ensure()
	if err != nil {
		return Result{}, err
	}

	err = artifact.WriteQuantities(dir.File(dir.Names.Quantities), catalogName, cat.ListAllQuantities())
	if err != nil {
		return Result{}, err
	}

	err = artifact.WriteQuantities(dir.File(dir.Names.NativeQuantities), catalogName, cat.ListAllNativeQuantities())
	if err != nil {
		return Result{}, err
	}

	return Result{Status: StatusPassed}, nil
}
