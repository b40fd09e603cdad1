package dataset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ErrSchema marks a column or shape mismatch between a table and the schema
// it is checked against. Callers match it with errors.Is.
var ErrSchema = errors.New("schema mismatch")

// DefaultCutoff is the quality score at which a wine counts as good.
const DefaultCutoff = 7

// Schema declares the numeric feature columns, the label column, and the
// cutoff used to binarize the label: label >= Cutoff maps to class 1.
type Schema struct {
	Features []string `yaml:"features"`
	Label    string   `yaml:"label"`
	Cutoff   int      `yaml:"cutoff"`
}

// WineSchema is the fixed schema of the wine-quality datasets: eleven float
// feature columns plus an integer quality score.
func WineSchema() Schema {
	return Schema{
		Features: []string{
			"fixed_acidity",
			"volatile_acidity",
			"citric_acid",
			"residual_sugar",
			"chlorides",
			"free_sulfur_dioxide",
			"total_sulfur_dioxide",
			"density",
			"pH",
			"sulphates",
			"alcohol",
		},
		Label:  "quality",
		Cutoff: DefaultCutoff,
	}
}

// LoadSchema reads a schema declaration from a YAML file. Omitted fields fall
// back to the wine defaults.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	schema := WineSchema()
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return Schema{}, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}

	if len(schema.Features) == 0 {
		return Schema{}, fmt.Errorf("schema file %s declares no feature columns: %w", path, ErrSchema)
	}
	if schema.Label == "" {
		return Schema{}, fmt.Errorf("schema file %s declares no label column: %w", path, ErrSchema)
	}
	if schema.Cutoff == 0 {
		schema.Cutoff = DefaultCutoff
	}

	return schema, nil
}

func (s Schema) NumFeatures() int {
	return len(s.Features)
}
