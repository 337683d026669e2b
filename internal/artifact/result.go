package artifact

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// StatisticRecord is one distance statistic computed for a color.
type StatisticRecord struct {
	Name   string  `yaml:"name"   json:"name"`
	Value  float64 `yaml:"value"  json:"value"`
	Passed bool    `yaml:"passed" json:"passed"`
}

// ColorRecord is the outcome of the CDF comparison for one color.
type ColorRecord struct {
	Color      string            `yaml:"color"                json:"color"`
	Galaxies   int               `yaml:"galaxies"             json:"galaxies"`
	Skipped    bool              `yaml:"skipped,omitempty"    json:"skipped,omitempty"`
	Statistics []StatisticRecord `yaml:"statistics,omitempty" json:"statistics,omitempty"`
}

// RunRecord is the machine-readable outcome of a validation run.
type RunRecord struct {
	Test    string        `yaml:"test"              json:"test"`
	Catalog string        `yaml:"catalog"           json:"catalog"`
	Status  string        `yaml:"status"            json:"status"`
	Message string        `yaml:"message,omitempty" json:"message,omitempty"`
	Colors  []ColorRecord `yaml:"colors,omitempty"  json:"colors,omitempty"`
}

// WriteResult writes the run record as YAML.
func (d Dir) WriteResult(rec RunRecord) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	err = os.WriteFile(d.File(d.Names.Result), data, filePerm)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}

// ReadResult loads a run record written by WriteResult.
func ReadResult(path string) (RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunRecord{}, fmt.Errorf("read result: %w", err)
	}

	var rec RunRecord

	err = yaml.Unmarshal(data, &rec)
	if err != nil {
		return RunRecord{}, fmt.Errorf("decode result: %w", err)
	}

	return rec, nil
}

// WriteQuantities writes a sorted quantity listing headed by the catalog name.
func WriteQuantities(path, catalogName string, quantities []string) error {
	sorted := slices.Clone(quantities)
	slices.Sort(sorted)

	var sb strings.Builder

	sb.WriteString("# " + catalogName + "\n")

	for _, q := range sorted {
		sb.WriteString(q + "\n")
	}

	err := os.WriteFile(path, []byte(sb.String()), filePerm)
	if err != nil {
		return fmt.Errorf("write quantities: %w", err)
	}

	return nil
}
