// Package catalog provides the galaxy catalog capability consumed by the
// validation tests, together with an in-memory table implementation and a
// reader for whitespace-delimited catalog files.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// RedshiftColumn is the column used to apply redshift windows.
const RedshiftColumn = "redshift"

// Sentinel errors.
var (
	ErrUnknownQuantity  = errors.New("unknown quantity")
	ErrNoRedshiftColumn = errors.New("catalog has no redshift column")
	ErrRaggedColumns    = errors.New("catalog columns differ in length")
)

// Window is a closed redshift interval [Lo, Hi].
type Window struct {
	Lo float64
	Hi float64
}

// Contains reports whether z lies within the window.
func (w Window) Contains(z float64) bool {
	return z >= w.Lo && z <= w.Hi
}

// Catalog is the read capability a validation test needs from a galaxy catalog.
type Catalog interface {
	// HasQuantities reports whether every named quantity is available.
	HasQuantities(names ...string) bool
	// GetQuantities returns one value per galaxy inside the redshift window.
	// Arrays returned for the same window are co-indexed.
	GetQuantities(name string, window Window) ([]float64, error)
	// ListAllQuantities returns every quantity name, derived ones included.
	ListAllQuantities() []string
	// ListAllNativeQuantities returns the quantities stored in the catalog itself.
	ListAllNativeQuantities() []string
}

// Table is an in-memory columnar catalog. Aliases map derived quantity names
// onto native columns.
type Table struct {
	columns map[string][]float64
	aliases map[string]string
	rows    int
}

// NewTable builds a table from equal-length columns.
func NewTable(columns map[string][]float64, aliases map[string]string) (*Table, error) {
	rows := -1

	for name, col := range columns {
		if rows >= 0 && len(col) != rows {
			return nil, fmt.Errorf("%w: %s has %d rows, expected %d", ErrRaggedColumns, name, len(col), rows)
		}

		rows = len(col)
	}

	for alias, target := range aliases {
		if _, ok := columns[target]; !ok {
			return nil, fmt.Errorf("%w: alias %s points to %s", ErrUnknownQuantity, alias, target)
		}
	}

	return &Table{
		columns: columns,
		aliases: maps.Clone(aliases),
		rows:    max(rows, 0),
	}, nil
}

// Len returns the number of galaxies in the table.
func (t *Table) Len() int {
	return t.rows
}

// HasQuantities implements Catalog.
func (t *Table) HasQuantities(names ...string) bool {
	for _, name := range names {
		if _, ok := t.column(name); !ok {
			return false
		}
	}

	return true
}

// GetQuantities implements Catalog.
func (t *Table) GetQuantities(name string, window Window) ([]float64, error) {
	col, ok := t.column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuantity, name)
	}

	redshift, ok := t.columns[RedshiftColumn]
	if !ok {
		return nil, ErrNoRedshiftColumn
	}

	out := make([]float64, 0, len(col))

	for i, z := range redshift {
		if window.Contains(z) {
			out = append(out, col[i])
		}
	}

	return out, nil
}

// ListAllQuantities implements Catalog.
func (t *Table) ListAllQuantities() []string {
	names := slices.Collect(maps.Keys(t.columns))
	names = append(names, slices.Collect(maps.Keys(t.aliases))...)
	slices.Sort(names)

	return slices.Compact(names)
}

// ListAllNativeQuantities implements Catalog.
func (t *Table) ListAllNativeQuantities() []string {
	names := slices.Collect(maps.Keys(t.columns))
	slices.Sort(names)

	return names
}

func (t *Table) column(name string) ([]float64, bool) {
	if col, ok := t.columns[name]; ok {
		return col, true
	}

	target, ok := t.aliases[name]
	if !ok {
		return nil, false
	}

	col, ok := t.columns[target]

	return col, ok
}
