package colordist

import (
	"fmt"

	"github.com/Sumatoshi-tech/colordist/internal/catalog"
)

// Bounds of a physical magnitude. Catalogs use values outside (0, 50) to mark
// missing photometry.
const (
	minMagnitude = 0
	maxMagnitude = 50
)

// MagnitudeLimit is a completeness cut: only galaxies brighter than Mag in
// the Quantity band are kept.
type MagnitudeLimit struct {
	Quantity string
	Mag      float64
}

// FilterMagnitudes fetches two band magnitudes inside the redshift window and
// keeps the galaxies with physical magnitudes that pass the optional limit.
// The returned arrays are co-indexed.
func FilterMagnitudes(
	cat catalog.Catalog, quantity1, quantity2 string, limit *MagnitudeLimit, window catalog.Window,
) (mag1, mag2 []float64, err error) {
	mag1, err = cat.GetQuantities(quantity1, window)
	if err != nil {
		return nil, nil, fmt.Errorf("get %s: %w", quantity1, err)
	}

	mag2, err = cat.GetQuantities(quantity2, window)
	if err != nil {
		return nil, nil, fmt.Errorf("get %s: %w", quantity2, err)
	}

	if len(mag1) == 0 {
		return nil, nil, ErrNoDataInRedshiftRange
	}

	if len(mag2) != len(mag1) {
		return nil, nil, fmt.Errorf("%w: %s has %d values, %s has %d",
			ErrMisalignedQuantities, quantity1, len(mag1), quantity2, len(mag2))
	}

	var (
		magLim   []float64
		limitMag float64
	)

	if limit != nil {
		magLim, err = cat.GetQuantities(limit.Quantity, window)
		if err != nil {
			return nil, nil, fmt.Errorf("get %s: %w", limit.Quantity, err)
		}

		if len(magLim) != len(mag1) {
			return nil, nil, fmt.Errorf("%w: %s has %d values, expected %d",
				ErrMisalignedQuantities, limit.Quantity, len(magLim), len(mag1))
		}

		limitMag = limit.Mag
	}

	mask := ValidMask(mag1, mag2, magLim, limitMag, limit != nil)

	mag1 = ApplyMask(mag1, mask)
	mag2 = ApplyMask(mag2, mask)

	if len(mag1) == 0 {
		return nil, nil, ErrNoDataInMagnitudeRange
	}

	return mag1, mag2, nil
}

// ValidMask selects galaxies whose magnitudes both lie in (0, 50) and, when
// hasLimit is set, whose limiting-band magnitude is below limit. All arrays
// must have the same length.
func ValidMask(mag1, mag2, magLim []float64, limit float64, hasLimit bool) []bool {
	mask := make([]bool, len(mag1))

	for i := range mask {
		ok := physical(mag1[i]) && physical(mag2[i])
		if hasLimit {
			ok = ok && magLim[i] < limit
		}

		mask[i] = ok
	}

	return mask
}

// ApplyMask returns the values whose mask entry is true, in order.
func ApplyMask(values []float64, mask []bool) []float64 {
	out := make([]float64, 0, len(values))

	for i, keep := range mask {
		if keep {
			out = append(out, values[i])
		}
	}

	return out
}

func physical(mag float64) bool {
	return mag > minMagnitude && mag < maxMagnitude
}
