package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mediguard-triage-server/internal/domain"
)

// LoadFile reads a catalog configuration document from a JSON file. The
// document shape matches the CatalogConfig JSON tags; biomarker list order
// in the file is the canonical order.
func LoadFile(path string) (domain.CatalogConfig, error) {
	var cfg domain.CatalogConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading catalog file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decoding catalog file: %w", err)
	}
	return cfg, nil
}

// Load builds a catalog from the file at path, or from the built-in default
// configuration when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(DefaultConfig())
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}
