package colordist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/colordist/internal/calcstats"
	"github.com/Sumatoshi-tech/colordist/internal/catalog"
)

// ErrReferenceShape is returned for reference files that are neither two rows
// nor two columns of numbers.
var ErrReferenceShape = errors.New("reference data must have two rows or two columns")

const referencePair = 2

// ReferenceFilename names the reference PDF used by the CDF comparison.
func ReferenceFilename(dataName, color string, window catalog.Window) string {
	return fmt.Sprintf("%s_%s_z_%.3f_%.3f_pdf.txt", dataName, color, window.Lo, window.Hi)
}

// PDFReferenceFilename names the reference histogram used by the PDF comparison.
func PDFReferenceFilename(dataName, color string, window catalog.Window, bins BinSpec) string {
	return fmt.Sprintf("%s_%s_z_%.3f_%.3f_bins_%.2f_%.2f_%d.txt",
		dataName, color, window.Lo, window.Hi, bins.Min, bins.Max, bins.Count)
}

// LoadReference reads bin centers and densities from a whitespace-delimited
// text file. The file holds either two rows (centers, densities) or one
// (center, density) pair per row. Lines starting with # are ignored.
func LoadReference(path string) (calcstats.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return calcstats.Dataset{}, fmt.Errorf("open reference: %w", err)
	}
	defer f.Close()

	var rows [][]float64

	scanner := bufio.NewScanner(f)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		row := make([]float64, len(fields))

		for i, field := range fields {
			row[i], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return calcstats.Dataset{}, fmt.Errorf("reference %s line %d: %w", path, line, err)
			}
		}

		rows = append(rows, row)
	}

	err = scanner.Err()
	if err != nil {
		return calcstats.Dataset{}, fmt.Errorf("read reference: %w", err)
	}

	ds, err := datasetFromRows(rows)
	if err != nil {
		return calcstats.Dataset{}, fmt.Errorf("reference %s: %w", path, err)
	}

	return ds, nil
}

func datasetFromRows(rows [][]float64) (calcstats.Dataset, error) {
	if len(rows) == referencePair && len(rows[0]) == len(rows[1]) && len(rows[0]) > 0 {
		return calcstats.Dataset{X: rows[0], Y: rows[1]}, nil
	}

	if len(rows) == 0 {
		return calcstats.Dataset{}, ErrReferenceShape
	}

	ds := calcstats.Dataset{
		X: make([]float64, len(rows)),
		Y: make([]float64, len(rows)),
	}

	for i, row := range rows {
		if len(row) != referencePair {
			return calcstats.Dataset{}, fmt.Errorf("%w: row %d has %d values", ErrReferenceShape, i+1, len(row))
		}

		ds.X[i], ds.Y[i] = row[0], row[1]
	}

	return ds, nil
}
