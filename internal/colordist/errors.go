package colordist

import "errors"

// No-data conditions. Any of them ends a run with a SKIPPED outcome.
var (
	ErrNoDataInRedshiftRange  = errors.New("no object in the redshift range")
	ErrNoDataInMagnitudeRange = errors.New("no object in the magnitude range")
	ErrEmptyHistogram         = errors.New("no color inside the bin range")
)

// ErrMisalignedQuantities is returned when co-indexed arrays differ in length.
var ErrMisalignedQuantities = errors.New("quantity arrays are not co-indexed")

// Configuration errors returned by New.
var (
	ErrMissingOption      = errors.New("missing required option")
	ErrMalformedColor     = errors.New("color must have the form X-Y")
	ErrMalformedBinArgs   = errors.New("bin arguments must be (min, max, count)")
	ErrBinArgsLength      = errors.New("colors and color_bin_args must have the same length")
	ErrMissingTranslation = errors.New("band has no translation")
)

// IsNoData reports whether err is one of the no-data conditions.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoDataInRedshiftRange) ||
		errors.Is(err, ErrNoDataInMagnitudeRange) ||
		errors.Is(err, ErrEmptyHistogram)
}

// logMessage returns the log artifact line for a no-data condition.
func logMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoDataInRedshiftRange):
		return "No object in the redshift range!"
	case errors.Is(err, ErrNoDataInMagnitudeRange):
		return "No object in the magnitude range!"
	case errors.Is(err, ErrEmptyHistogram):
		return "No object in the color range!"
	default:
		return err.Error()
	}
}
