package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BacklogSchema is the top-level structure of a backlog file.
type BacklogSchema struct {
	Product  ProductImport   `yaml:"product" json:"product"`
	Features []FeatureImport `yaml:"features" json:"features"`
}

// ProductImport defines the product the backlog belongs to.
type ProductImport struct {
	ShortID     string `yaml:"short_id" json:"short_id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// FeatureImport defines one feature. Ref is file-local; ID, when present,
// makes the import an upsert of that feature.
type FeatureImport struct {
	Ref         string      `yaml:"ref" json:"ref"`
	ID          string      `yaml:"id,omitempty" json:"id,omitempty"`
	Seq         *int        `yaml:"seq,omitempty" json:"seq,omitempty"`
	Title       string      `yaml:"title" json:"title"`
	Description string      `yaml:"description" json:"description"`
	Status      string      `yaml:"status,omitempty" json:"status,omitempty"`
	Priority    string      `yaml:"priority,omitempty" json:"priority,omitempty"`
	StartDate   string      `yaml:"start_date" json:"start_date"`
	EndDate     string      `yaml:"end_date" json:"end_date"`
	RICE        *RICEImport `yaml:"rice,omitempty" json:"rice,omitempty"`
	DependsOn   []string    `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// RICEImport holds optional RICE inputs; unset inputs default to 1.
type RICEImport struct {
	Reach      *int `yaml:"reach,omitempty" json:"reach,omitempty"`
	Impact     *int `yaml:"impact,omitempty" json:"impact,omitempty"`
	Confidence *int `yaml:"confidence,omitempty" json:"confidence,omitempty"`
	Effort     *int `yaml:"effort,omitempty" json:"effort,omitempty"`
}

// Format selects the on-disk encoding of a backlog file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks JSON for .json files and YAML otherwise.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadBacklogSchema reads and parses a backlog file.
func LoadBacklogSchema(path string) (*BacklogSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBacklogSchema(data, FormatForPath(path))
}

// ParseBacklogSchema decodes a backlog document.
func ParseBacklogSchema(data []byte, format Format) (*BacklogSchema, error) {
	var schema BacklogSchema
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing backlog file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing backlog file: %w", err)
		}
	}
	return &schema, nil
}

// WriteBacklogSchema encodes schema to w.
func WriteBacklogSchema(w io.Writer, schema *BacklogSchema, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(schema); err != nil {
			return fmt.Errorf("encoding backlog: %w", err)
		}
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(schema); err != nil {
		return fmt.Errorf("encoding backlog: %w", err)
	}
	return enc.Close()
}
