// Package config loads LUNIR's optional CLI configuration file: a JSON
// document that may carry `//` and `/* */` comments and trailing commas
// (JWCC, the format github.com/tailscale/hujson standardises), following
// the same "config is a file the CLI reads, not a hand-parsed flag format"
// pattern as 256lights-zb's own config loader in the retrieval pack. The
// teacher itself (sentra) has no config file at all — cmd/sentra/main.go
// parses os.Args by hand — so this is new ambient surface for LUNIR's CLI,
// not an adaptation of an existing teacher file.
package config

import (
	"encoding/json"
	"os"

	"github.com/tailscale/hujson"

	"lunir/internal/pipeline"
	"lunir/internal/reconstructor"
)

// rawConfig mirrors the on-disk JWCC shape; OptimizationLevel is a string
// here ("all"/"moderate"/"none") for readability, translated to
// pipeline.OptimizationLevel by Load.
type rawConfig struct {
	OptimizationLevel string  `json:"optimization_level"`
	UseSemicolons     *bool   `json:"use_semicolons"`
	UseNewline        *bool   `json:"use_newline"`
	UseTabs           *bool   `json:"use_tabs"`
	SpaceCount        *int    `json:"space_count"`
	CustomHeader      *string `json:"custom_header"`
}

// Config is the CLI's resolved configuration: a reconstructor Settings and
// an OptimizationLevel, both defaulted when the file omits them.
type Config struct {
	Reconstructor     reconstructor.Settings
	OptimizationLevel pipeline.OptimizationLevel
}

// Default returns LUNIR's stable defaults, used when no config file is
// present.
func Default() Config {
	return Config{
		Reconstructor:     reconstructor.DefaultSettings(),
		OptimizationLevel: pipeline.Moderate,
	}
}

// Load reads and parses a JWCC config file at path, overlaying any field
// it sets onto Default(). A missing file is not an error: Load returns
// Default() unchanged, since the config file is optional.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return cfg, err
	}

	var parsed rawConfig
	if err := json.Unmarshal(standardized, &parsed); err != nil {
		return cfg, err
	}

	level, err := pipeline.ParseOptimizationLevel(parsed.OptimizationLevel)
	if err != nil {
		return cfg, err
	}
	cfg.OptimizationLevel = level

	if parsed.UseSemicolons != nil {
		cfg.Reconstructor.UseSemicolons = *parsed.UseSemicolons
	}
	if parsed.UseNewline != nil {
		cfg.Reconstructor.UseNewline = *parsed.UseNewline
	}
	if parsed.UseTabs != nil {
		cfg.Reconstructor.UseTabs = *parsed.UseTabs
	}
	if parsed.SpaceCount != nil {
		cfg.Reconstructor.SpaceCount = *parsed.SpaceCount
	}
	if parsed.CustomHeader != nil {
		cfg.Reconstructor.CustomHeader = *parsed.CustomHeader
		cfg.Reconstructor.HasCustomHeader = true
	}

	return cfg, nil
}
