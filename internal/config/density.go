// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DensityTable maps ingredient names to their density in g/ml. Volume
// quantities (l, ml) for a listed ingredient are converted to mass using this
// table; unlisted ingredients fall back to water (1 g/ml).
type DensityTable struct {
	densities map[string]float64
}

// NewDensityTable builds a table from the given map. Keys are normalised to
// lower case.
func NewDensityTable(densities map[string]float64) *DensityTable {
	m := make(map[string]float64, len(densities))
	for k, v := range densities {
		m[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &DensityTable{densities: m}
}

// EmptyDensityTable returns a table with no entries; every lookup falls back
// to the default density.
func EmptyDensityTable() *DensityTable {
	return &DensityTable{densities: map[string]float64{}}
}

// Density returns the density for the given ingredient, or 0 when unknown.
// Callers treat 0 as "use the default".
func (t *DensityTable) Density(ingredient string) float64 {
	if t == nil {
		return 0
	}
	return t.densities[strings.ToLower(strings.TrimSpace(ingredient))]
}

// Len returns the number of entries in the table.
func (t *DensityTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.densities)
}

// LoadDensityTable reads and validates a YAML density file. The file is a
// flat map of ingredient name to density in g/ml:
//
//	honey: 1.42
//	olive oil: 0.91
func LoadDensityTable(path string) (*DensityTable, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("read density file: %w", err)
	}

	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse density file %s: %w", path, err)
	}

	for name, d := range raw {
		if d <= 0 {
			return nil, fmt.Errorf("density for %q must be positive, got %v", name, d)
		}
	}

	return NewDensityTable(raw), nil
}
