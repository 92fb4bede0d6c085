package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/exo-archive/exovel/sdk/tap"
)

// Config holds the pipeline configuration. Every field has a flag
// counterpart; flag values win over file values.
type Config struct {
	// TAP service base endpoint.
	Endpoint string `yaml:"endpoint"`

	// Archive table to query.
	Table string `yaml:"table"`

	// Columns to select.
	Columns []string `yaml:"columns"`

	// Equality constraints, AND-joined.
	Where map[string]string `yaml:"where"`

	// Row limit, 0 selects all rows.
	Top int `yaml:"top"`

	// Unit system of the mass/radius columns: earth or jupiter.
	Units string `yaml:"units"`

	// Wire format requested from the service: votable or json.
	ResponseFormat string `yaml:"response_format"`

	// Output rendering: table or csv.
	Format string `yaml:"format"`

	// Output file path, empty writes to stdout.
	Output string `yaml:"output"`

	// Network timeout in seconds.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// DefaultConfig mirrors the original pipeline: the NASA endpoint, the
// composite parameters table, and the five standard name/radius/mass columns
// in both Earth and Jupiter units.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:       tap.DefaultEndpoint,
		Table:          "pscomppars",
		Columns:        []string{"pl_name", "pl_rade", "pl_radj", "pl_bmasse", "pl_bmassj"},
		Units:          "earth",
		ResponseFormat: tap.FormatVOTable,
		Format:         "table",
		TimeoutSeconds: 30,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
