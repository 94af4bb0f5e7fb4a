package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"parcel-index/internal/commune"
	"parcel-index/internal/lookup"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config holds all settings for the indexer, server and tools.
// Defaults are compiled in; a YAML file can override any field.
type Config struct {
	// ParcelsDir is the base directory searched for parcel exports
	ParcelsDir string `yaml:"parcels_dir"`
	// DataDir receives the two lookup files and reports
	DataDir string `yaml:"data_dir"`

	Server ServerConfig `yaml:"server"`

	// Communes is the official registry, in its fixed order
	Communes []string `yaml:"communes"`
	// SpellingVariants maps known misspellings to official names
	SpellingVariants map[string]string `yaml:"spelling_variants"`
	// FilePatterns are glob patterns in preference order, most-normalized
	// variants first
	FilePatterns []string `yaml:"file_patterns"`
}

// Default returns the compiled-in configuration. The registry and variant
// map are copied so a caller can never mutate the package defaults.
func Default() Config {
	communes := make([]string, len(commune.DefaultNames))
	copy(communes, commune.DefaultNames)
	variants := make(map[string]string, len(commune.DefaultVariants))
	for k, v := range commune.DefaultVariants {
		variants[k] = v
	}

	return Config{
		ParcelsDir: filepath.Join("geojson", "parcels"),
		DataDir:    "data",
		Server: ServerConfig{
			Addr: ":8080",
		},
		Communes:         communes,
		SpellingVariants: variants,
		FilePatterns: []string{
			"individual_parcels.normalized.source_commune.geojson",
			"collective_parcels.normalized.source_commune.geojson",
			"unjoined_parcels*.normalized.source_commune.geojson",
			"individual_parcels.normalized.geojson",
			"collective_parcels.normalized.geojson",
			"unjoined_parcels*.normalized.geojson",
			"individual_parcels.geojson",
			"collective_parcels.geojson",
			"unjoined_parcels*.geojson",
		},
	}
}

// Load returns the default configuration, overridden by the YAML file at
// path when one is given. The result is validated.
// A field set in the file replaces its default wholesale; in particular a
// custom registry does not inherit the default variant map, which would
// otherwise point at communes the custom registry may not contain.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}

		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}

		if file.ParcelsDir != "" {
			cfg.ParcelsDir = file.ParcelsDir
		}
		if file.DataDir != "" {
			cfg.DataDir = file.DataDir
		}
		if file.Server.Addr != "" {
			cfg.Server.Addr = file.Server.Addr
		}
		if file.Communes != nil {
			cfg.Communes = file.Communes
		}
		if file.SpellingVariants != nil {
			cfg.SpellingVariants = file.SpellingVariants
		}
		if file.FilePatterns != nil {
			cfg.FilePatterns = file.FilePatterns
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the structural invariants of the configuration.
func (c Config) Validate() error {
	if len(c.Communes) == 0 {
		return fmt.Errorf("config: commune registry is empty")
	}
	if len(c.FilePatterns) == 0 {
		return fmt.Errorf("config: no file patterns configured")
	}

	members := make(map[string]struct{}, len(c.Communes))
	for _, name := range c.Communes {
		members[name] = struct{}{}
	}
	// Every variant must resolve to an official name.
	for variant, canonical := range c.SpellingVariants {
		if _, ok := members[canonical]; !ok {
			return fmt.Errorf("config: variant %q maps to %q, which is not in the commune registry", variant, canonical)
		}
	}
	return nil
}

// ParcelLookupPath is the output path of the parcel index.
func (c Config) ParcelLookupPath() string {
	return filepath.Join(c.DataDir, lookup.ParcelLookupFile)
}

// CommuneLookupPath is the output path of the commune index.
func (c Config) CommuneLookupPath() string {
	return filepath.Join(c.DataDir, lookup.CommuneLookupFile)
}
