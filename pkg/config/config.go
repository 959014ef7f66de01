// Package config provides configuration loading and management for bandblur.
// It handles loading configuration from YAML or TOML files and provides default values.
//
// Only the outer surface is configurable: file paths, encoder quality, worker
// count and what to write alongside the output. Kernel sizes, weights, band
// fractions and marker colours are fixed.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"bandblur/pkg/codec"
)

// Config represents the application configuration
type Config struct {
	// Input and output files
	IO struct {
		// Input is the image to process, relative to the working directory
		Input string `yaml:"input" toml:"input"`

		// Output is where the processed image is written. The extension selects the format.
		Output string `yaml:"output" toml:"output"`

		// JPEGQuality is used when Output is a JPEG file
		JPEGQuality int `yaml:"jpegQuality" toml:"jpegQuality"`
	} `yaml:"io" toml:"io"`

	// Processing parameters
	Processing struct {
		// Workers is how many goroutines share the rows of a band
		Workers int `yaml:"workers" toml:"workers"`
	} `yaml:"processing" toml:"processing"`

	// Output parameters
	Output struct {
		// SaveIntermediaryResults saves an image after every pipeline stage
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults" toml:"saveIntermediaryResults"`

		// IntermediaryDir is where stage images are written
		IntermediaryDir string `yaml:"intermediaryDir" toml:"intermediaryDir"`

		// ExtractBands writes each band of the result as its own image
		ExtractBands bool `yaml:"extractBands" toml:"extractBands"`

		// BandsDir is where extracted bands are written
		BandsDir string `yaml:"bandsDir" toml:"bandsDir"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose" toml:"verbose"`

		// Report prints per-band statistics after processing
		Report bool `yaml:"report" toml:"report"`
	} `yaml:"output" toml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.IO.Input = "main.png"
	cfg.IO.Output = "output.png"
	cfg.IO.JPEGQuality = 90

	cfg.Processing.Workers = runtime.NumCPU()

	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.IntermediaryDir = "intermediary_results"
	cfg.Output.ExtractBands = false
	cfg.Output.BandsDir = "bands"
	cfg.Output.Verbose = false
	cfg.Output.Report = false

	return cfg
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if c.IO.Input == "" {
		return fmt.Errorf("io.input must not be empty")
	}
	if c.IO.Output == "" {
		return fmt.Errorf("io.output must not be empty")
	}
	if err := codec.CheckOutputPath(c.IO.Output); err != nil {
		return fmt.Errorf("io.output: %w", err)
	}
	if c.IO.JPEGQuality < 1 || c.IO.JPEGQuality > 100 {
		return fmt.Errorf("io.jpegQuality must be in [1, 100], got %d", c.IO.JPEGQuality)
	}
	if c.Processing.Workers < 1 {
		return fmt.Errorf("processing.workers must be at least 1, got %d", c.Processing.Workers)
	}
	if c.Output.SaveIntermediaryResults && c.Output.IntermediaryDir == "" {
		return fmt.Errorf("output.intermediaryDir must be set when saving intermediary results")
	}
	if c.Output.ExtractBands && c.Output.BandsDir == "" {
		return fmt.Errorf("output.bandsDir must be set when extracting bands")
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadConfig loads configuration from a YAML or TOML file.
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if isTOML(configPath) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML or TOML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	var data []byte
	if isTOML(configPath) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		data = []byte(sb.String())
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
