// Package config loads the optional debugpatch configuration. With no
// config file present the tool falls back to the hardcoded PDFPane target,
// so the canonical invocation stays argument-free.
package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTarget is the one file this tool was built against.
	DefaultTarget = "src/components/study/PDFPane.tsx"

	// DefaultFileFilterGlob is the glob a target must match before any
	// rules are applied to it.
	DefaultFileFilterGlob = "**/*.tsx"
)

// Config is the complete debugpatch configuration
type Config struct {
	// Targets are the source files to instrument
	Targets []string `json:"targets,omitempty" yaml:"targets,omitempty" hcl:"targets,optional"`

	// FileFilterGlob guards against instrumenting the wrong kind of file
	FileFilterGlob string `json:"file_filter_glob,omitempty" yaml:"file_filter_glob,omitempty" hcl:"file_filter_glob,optional"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Targets:        []string{DefaultTarget},
		FileFilterGlob: DefaultFileFilterGlob,
	}
}

// Load loads a configuration file from the given path. The format is
// determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .debugpatch will try both YAML and HCL formats
// A missing file is not an error; the defaults apply.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("path", path).Msg("no config file, using defaults")
			return Default(), nil
		}
		return nil, errors.Errorf("reading config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var cfg *Config

	// For .debugpatch files, try both YAML and HCL
	if ext == ".debugpatch" || path == ".debugpatch" {
		cfg, err = loadYAML(data)
		if err == nil {
			return applyDefaults(cfg), nil
		}

		cfg, err = loadHCL(data, path)
		if err == nil {
			return applyDefaults(cfg), nil
		}

		return nil, errors.Errorf("failed to parse .debugpatch as YAML or HCL: %w", err)
	}

	switch ext {
	case ".json":
		cfg, err = loadJSON(data)
	case ".yaml", ".yml":
		cfg, err = loadYAML(data)
	case ".hcl":
		cfg, err = loadHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported file extension %q", ext)
	}

	if err != nil {
		return nil, err
	}
	cfg = applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Targets) == 0 {
		return errors.Errorf("at least one target is required")
	}
	if !doublestar.ValidatePattern(cfg.FileFilterGlob) {
		return errors.Errorf("invalid file_filter_glob %q", cfg.FileFilterGlob)
	}
	for i, target := range cfg.Targets {
		cfg.Targets[i] = filepath.Clean(target)
	}
	return nil
}

// MatchesFilter reports whether a target path passes the file filter glob.
func (cfg *Config) MatchesFilter(path string) (bool, error) {
	ok, err := doublestar.Match(cfg.FileFilterGlob, filepath.ToSlash(path))
	if err != nil {
		return false, errors.Errorf("matching %q against %q: %w", path, cfg.FileFilterGlob, err)
	}
	return ok, nil
}

// applyDefaults fills in anything the file left unset
func applyDefaults(cfg *Config) *Config {
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{DefaultTarget}
	}
	if cfg.FileFilterGlob == "" {
		cfg.FileFilterGlob = DefaultFileFilterGlob
	}
	return cfg
}

// loadJSON loads a configuration from JSON data
func loadJSON(data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &cfg, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// loadHCL loads a configuration from HCL data
func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &cfg, nil
}
