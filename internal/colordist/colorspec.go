package colordist

import (
	"fmt"
	"strings"
)

const (
	colorSpecLen   = 3
	colorSeparator = '-'
)

// ColorSpec names a color as the difference of two photometric bands, "X-Y".
type ColorSpec struct {
	Name  string
	Band1 string
	Band2 string
}

// ParseColor parses a color of the form "X-Y".
func ParseColor(s string) (ColorSpec, error) {
	if len(s) != colorSpecLen || s[1] != colorSeparator {
		return ColorSpec{}, fmt.Errorf("%w: %q", ErrMalformedColor, s)
	}

	return ColorSpec{Name: s, Band1: s[:1], Band2: s[2:]}, nil
}

// String returns the color name.
func (c ColorSpec) String() string {
	return c.Name
}

// Quantities returns the catalog quantity names of both bands.
func (c ColorSpec) Quantities(translate map[string]string) (q1, q2 string, err error) {
	q1, err = translateBand(translate, c.Band1)
	if err != nil {
		return "", "", err
	}

	q2, err = translateBand(translate, c.Band2)
	if err != nil {
		return "", "", err
	}

	return q1, q2, nil
}

// translateBand maps a band letter to its catalog quantity. Lookup is
// case-insensitive because configuration keys are lowercased on load.
func translateBand(translate map[string]string, band string) (string, error) {
	if q, ok := translate[band]; ok {
		return q, nil
	}

	for k, q := range translate {
		if strings.EqualFold(k, band) {
			return q, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrMissingTranslation, band)
}
