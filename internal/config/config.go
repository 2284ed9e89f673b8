package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"gusket/internal/common"
)

// FileName is the config file looked up in the working directory.
const FileName = "gusket.yaml"

// Defaults.
const (
	DefaultVersion = "1"
	DefaultOutput  = "gusket_gen.go"
	DefaultHeader  = "// Code generated by gusket. DO NOT EDIT."
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds the generator configuration.
type Config struct {
	Version string `yaml:"version"`
	// Output is the base name of the generated file in each package.
	Output string `yaml:"output"`
	// Header is the first line of every generated file.
	Header string `yaml:"header"`
	// Receiver fixes the receiver name of every generated method.
	Receiver string `yaml:"receiver,omitempty"`
	// Jobs bounds how many packages are processed at once.
	Jobs int `yaml:"jobs"`
	// Types restricts generation to the named types. Empty means all.
	Types []string  `yaml:"types,omitempty"`
	Log   LogConfig `yaml:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)

	return cfg
}

// LoadFile loads and parses a YAML config file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Load loads path, or FileName in dir when path is empty. A missing
// default file is not an error.
func Load(path, dir string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}

	candidate := filepath.Join(dir, FileName)

	cfg, err := LoadFile(candidate)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}

	if cfg.Header == "" {
		cfg.Header = DefaultHeader
	}

	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Version != DefaultVersion {
		errs = append(errs, fmt.Errorf("unsupported version %q", c.Version))
	}

	if filepath.Base(c.Output) != c.Output || !strings.HasSuffix(c.Output, ".go") {
		errs = append(errs, fmt.Errorf("output must be a .go file name without directory, got %q", c.Output))
	}

	if strings.HasSuffix(c.Output, "_test.go") {
		errs = append(errs, fmt.Errorf("output must not be a test file, got %q", c.Output))
	}

	if !strings.HasPrefix(c.Header, "//") {
		errs = append(errs, fmt.Errorf("header must be a line comment, got %q", c.Header))
	}

	if c.Receiver != "" && (!token.IsIdentifier(c.Receiver) || c.Receiver == "_") {
		errs = append(errs, fmt.Errorf("receiver must be an identifier, got %q", c.Receiver))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log level must be one of %s, got %q",
			strings.Join(logLevels, ", "), c.Log.Level))
	}

	for _, name := range c.Types {
		if !token.IsIdentifier(name) {
			errs = append(errs, fmt.Errorf("types: %q is not an identifier", name))
		}
	}

	return errors.Join(errs...)
}

// Wants reports whether the type filter selects name.
func (c *Config) Wants(name string) bool {
	return common.IsEmpty(c.Types) || slices.Contains(c.Types, name)
}
